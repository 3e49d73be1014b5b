package pipeline

import (
	"context"
	"fmt"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
	"github.com/kovalyov-valentin/news-agents/internal/model"
	"github.com/kovalyov-valentin/news-agents/internal/normalize"
)

type Normalizer interface {
	Normalize(output any) normalize.Outcome
}

type Selector interface {
	Select(items []normalize.Record) []normalize.Record
}

type Enricher interface {
	ImageURL(ctx context.Context, item model.NewsItem) string
}

type NewsStorage interface {
	Save(ctx context.Context, item model.NewsItem) (model.NewsItem, error)
	Exec(ctx context.Context, statement string) error
}

type Announcer interface {
	Announce(ctx context.Context, item model.NewsItem) error
}

// NewsSaver - callback после последней задачи: разбирает вывод и пишет новости в базу
type NewsSaver struct {
	normalizer Normalizer
	selector   Selector
	aliases    normalize.Aliases
	enricher   Enricher
	storage    NewsStorage
	// Может быть nil, тогда новости не анонсируются
	announcer Announcer
}

func NewNewsSaver(
	normalizer Normalizer,
	selector Selector,
	aliases normalize.Aliases,
	enricher Enricher,
	storage NewsStorage,
	announcer Announcer,
) *NewsSaver {
	return &NewsSaver{
		normalizer: normalizer,
		selector:   selector,
		aliases:    aliases,
		enricher:   enricher,
		storage:    storage,
		announcer:  announcer,
	}
}

// Save сохраняет новости по одной. Ошибка записи прерывает оставшуюся часть,
// уже записанные новости остаются в базе.
func (s *NewsSaver) Save(ctx context.Context, output any) error {
	log := logger.Get()

	outcome := s.normalizer.Normalize(output)

	switch outcome.Kind {
	case normalize.KindStatement:
		if err := s.storage.Exec(ctx, outcome.Statement); err != nil {
			return fmt.Errorf("execute statement: %w", err)
		}
		return nil
	case normalize.KindItems:
		before := len(outcome.Items)
		outcome.Items = s.selector.Select(outcome.Items)

		log.Info().
			Int("parsed", before).
			Int("selected", len(outcome.Items)).
			Msg("items selected")
	case normalize.KindDirect:
	default:
		log.Warn().Msg("nothing to save")
		return nil
	}

	saved := 0

	for _, record := range outcome.Items {
		if err := ctx.Err(); err != nil {
			return err
		}

		item := s.aliases.Item(record)

		if s.enricher != nil {
			item.ImageURL = s.enricher.ImageURL(ctx, item)
		}

		stored, err := s.storage.Save(ctx, item)
		if err != nil {
			return fmt.Errorf("save news %q: %w", item.Slug, err)
		}
		saved++

		if s.announcer == nil {
			continue
		}

		if err := s.announcer.Announce(ctx, stored); err != nil {
			log.Error().Err(err).Str("slug", stored.Slug).Msg("failed to announce news")
		}
	}

	log.Info().
		Str("strategy", outcome.Strategy).
		Int("saved", saved).
		Msg("news saved")

	return nil
}
