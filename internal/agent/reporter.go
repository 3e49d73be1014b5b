package agent

import (
	"context"
	"strings"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
	"github.com/kovalyov-valentin/news-agents/internal/normalize"
)

type ReportWriter func(path, text string) error

// Reporter превращает заметки researcher в статьи и сохраняет их в файл отчета
type Reporter struct {
	llm     LLM
	prompts Prompts
	write   ReportWriter
	path    string
	// Фразы, которые модель дописывает после json
	completionPhrases []string
}

func NewReporter(llm LLM, prompts Prompts, write ReportWriter, path string, completionPhrases []string) *Reporter {
	return &Reporter{
		llm:               llm,
		prompts:           prompts,
		write:             write,
		path:              path,
		completionPhrases: completionPhrases,
	}
}

func (r *Reporter) Name() string {
	return ReportingTask
}

func (r *Reporter) Run(ctx context.Context, topic string, previous Output) (Output, error) {
	out, err := complete(ctx, r.llm, r.prompts, ReportingTask, topic, previous.Raw)
	if err != nil {
		return Output{}, err
	}

	if r.write == nil {
		return out, nil
	}

	// Отчет перезаписывается всегда, иначе резервный источник отдаст новости прошлого запуска
	report := normalize.CleanJSON(out.Raw, r.completionPhrases)
	if strings.TrimSpace(report) == "" {
		logger.Get().Warn().Str("path", r.path).Msg("empty report, report file truncated")
		report = ""
	}

	if err := r.write(r.path, report); err != nil {
		logger.Get().Error().Err(err).Str("path", r.path).Msg("failed to write report")
	} else {
		logger.Get().Info().Str("path", r.path).Int("bytes", len(report)).Msg("report written")
	}

	return out, nil
}
