package selector

import (
	"unicode/utf8"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
	"github.com/kovalyov-valentin/news-agents/internal/normalize"
)

// Selector оставляет по категории первые новости с достаточно длинным текстом
type Selector struct {
	// Ключи, по которым определяется категория, берется первый найденный
	categoryKeys []string
	contentKeys  []string
	// Минимальная длина content в символах
	minContentLength int
	// Сколько новостей оставлять на категорию, 0 - без ограничения
	perCategory int
}

func New(categoryKeys, contentKeys []string, minContentLength, perCategory int) *Selector {
	return &Selector{
		categoryKeys:     categoryKeys,
		contentKeys:      contentKeys,
		minContentLength: minContentLength,
		perCategory:      perCategory,
	}
}

// Select сохраняет порядок первого появления. Новости без категории отбрасываются.
func (s *Selector) Select(items []normalize.Record) []normalize.Record {
	log := logger.Get()

	var (
		selected = make([]normalize.Record, 0, len(items))
		taken    = make(map[string]int)
	)

	for i, item := range items {
		category, ok := s.category(item)
		if !ok {
			log.Debug().Int("index", i).Msg("item has no category, skipped")
			continue
		}

		if s.perCategory > 0 && taken[category] >= s.perCategory {
			log.Debug().
				Int("index", i).
				Str("category", category).
				Msg("category already filled, skipped")
			continue
		}

		length := utf8.RuneCountInString(item.String(s.contentKeys...))
		if length < s.minContentLength {
			log.Debug().
				Int("index", i).
				Str("category", category).
				Int("content_length", length).
				Int("min_content_length", s.minContentLength).
				Msg("content too short, skipped")
			continue
		}

		taken[category]++
		selected = append(selected, item)
	}

	log.Info().
		Int("total", len(items)).
		Int("selected", len(selected)).
		Msg("items selected")

	return selected
}

func (s *Selector) category(item normalize.Record) (string, bool) {
	return item.Key(s.categoryKeys...)
}
