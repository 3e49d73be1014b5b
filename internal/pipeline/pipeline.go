package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/kovalyov-valentin/news-agents/internal/agent"
	"github.com/kovalyov-valentin/news-agents/internal/logger"
)

// Callback получает вывод последней задачи
type Callback interface {
	Save(ctx context.Context, output any) error
}

// Pipeline выполняет задачи строго по очереди, вывод каждой передается следующей
type Pipeline struct {
	tasks    []agent.Task
	callback Callback
}

func New(callback Callback, tasks ...agent.Task) *Pipeline {
	return &Pipeline{
		tasks:    tasks,
		callback: callback,
	}
}

func (p *Pipeline) Run(ctx context.Context, topic string) error {
	log := logger.Get()

	var output agent.Output

	for _, task := range p.tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		started := time.Now()

		out, err := task.Run(ctx, topic, output)
		if err != nil {
			return fmt.Errorf("task %s: %w", task.Name(), err)
		}

		log.Info().
			Str("task", task.Name()).
			Int("output_length", len(out.Raw)).
			Dur("took", time.Since(started)).
			Msg("task finished")

		output = out
	}

	if p.callback == nil {
		return nil
	}

	if err := p.callback.Save(ctx, output); err != nil {
		return fmt.Errorf("save output: %w", err)
	}

	return nil
}
