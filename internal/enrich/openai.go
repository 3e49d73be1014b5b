package enrich

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// OpenAIImageGenerator рисует картинки через images API и возвращает openai.ImageResponse
type OpenAIImageGenerator struct {
	client  *openai.Client
	size    string
	enabled bool
}

func NewOpenAIImageGenerator(apiKey, size string) *OpenAIImageGenerator {
	return &OpenAIImageGenerator{
		client:  openai.NewClient(apiKey),
		size:    size,
		enabled: apiKey != "",
	}
}

func (g *OpenAIImageGenerator) GenerateImage(ctx context.Context, prompt string) (any, error) {
	if !g.enabled {
		return nil, ErrDisabled
	}

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		N:              1,
		Size:           g.size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
