package agent

import (
	"context"
	"fmt"
)

const (
	ResearchTask   = "research_task"
	ReportingTask  = "reporting_task"
	PublishingTask = "publishing_task"
)

// Output - результат задачи, сырой текст от модели
type Output struct {
	Task string
	Raw  string
}

// Dump отдает результат в виде, который понимает нормализатор
func (o Output) Dump() any {
	return map[string]any{"raw": o.Raw}
}

type Task interface {
	Name() string
	Run(ctx context.Context, topic string, previous Output) (Output, error)
}

type LLM interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// complete - общий для всех задач вызов модели по промптам задачи
func complete(ctx context.Context, llm LLM, prompts Prompts, task, topic, taskContext string) (Output, error) {
	system, user, err := prompts.Messages(task, topic, taskContext)
	if err != nil {
		return Output{}, err
	}

	text, err := llm.Complete(ctx, system, user)
	if err != nil {
		return Output{}, fmt.Errorf("%s: %w", task, err)
	}

	return Output{Task: task, Raw: text}, nil
}
