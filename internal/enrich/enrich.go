package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
	"github.com/kovalyov-valentin/news-agents/internal/model"
)

var ErrDisabled = errors.New("image generation is disabled")

// ImageGenerator возвращает либо строку с адресом, либо структуру, внутри которой он лежит
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (any, error)
}

// Mirror перекладывает картинку в постоянное хранилище и отдает новый адрес
type Mirror interface {
	Mirror(ctx context.Context, imageURL, name string) (string, error)
}

type Enricher struct {
	generator ImageGenerator
	// Может быть nil
	mirror Mirror
	// %s или %q заменяется заголовком
	promptFormat string
}

func New(generator ImageGenerator, mirror Mirror, promptFormat string) *Enricher {
	return &Enricher{
		generator:    generator,
		mirror:       mirror,
		promptFormat: promptFormat,
	}
}

// ImageURL генерирует иллюстрацию к новости один раз, без повторов.
// Если что-то пошло не так, возвращается image_url самой новости.
func (e *Enricher) ImageURL(ctx context.Context, item model.NewsItem) string {
	log := logger.Get().With().Str("slug", item.Slug).Logger()

	if e.generator == nil {
		return item.ImageURL
	}

	resp, err := e.generator.GenerateImage(ctx, fmt.Sprintf(e.promptFormat, item.Title))
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			log.Debug().Msg("image generation disabled, using fallback url")
		} else {
			log.Warn().Err(err).Msg("image generation failed, using fallback url")
		}
		return item.ImageURL
	}

	url := ExtractURL(resp)
	if !strings.HasPrefix(url, "http") {
		log.Warn().
			Str("url", url).
			Str("fallback", item.ImageURL).
			Msg("generated image url is invalid, using fallback url")
		return item.ImageURL
	}

	if e.mirror != nil {
		mirrored, err := e.mirror.Mirror(ctx, url, item.Slug)
		if err != nil {
			log.Warn().Err(err).Msg("failed to mirror generated image, keeping generator url")
			return url
		}
		url = mirrored
	}

	log.Info().Str("image_url", url).Msg("image generated")

	return url
}

// ExtractURL достает адрес из ответа генератора: строка, ответ openai
// или map вида {"data": [{"url": "..."}]}
func ExtractURL(resp any) string {
	switch v := resp.(type) {
	case string:
		return strings.TrimSpace(v)
	case openai.ImageResponse:
		if len(v.Data) > 0 {
			return v.Data[0].URL
		}
	case *openai.ImageResponse:
		if v != nil && len(v.Data) > 0 {
			return v.Data[0].URL
		}
	case map[string]any:
		return urlFromData(v["data"])
	}

	return ""
}

func urlFromData(data any) string {
	var first any

	switch list := data.(type) {
	case []any:
		if len(list) > 0 {
			first = list[0]
		}
	case []map[string]any:
		if len(list) > 0 {
			first = list[0]
		}
	}

	m, ok := first.(map[string]any)
	if !ok {
		return ""
	}

	url, _ := m["url"].(string)

	return url
}
