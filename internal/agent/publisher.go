package agent

import "context"

// Publisher готовит статьи к записи в таблицу news: json список либо INSERT
type Publisher struct {
	llm     LLM
	prompts Prompts
}

func NewPublisher(llm LLM, prompts Prompts) *Publisher {
	return &Publisher{llm: llm, prompts: prompts}
}

func (p *Publisher) Name() string {
	return PublishingTask
}

func (p *Publisher) Run(ctx context.Context, topic string, previous Output) (Output, error) {
	return complete(ctx, p.llm, p.prompts, PublishingTask, topic, previous.Raw)
}
