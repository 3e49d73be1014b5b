package llm

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
)

var ErrDisabled = errors.New("openai chat is disabled: no api key")

// OpenAIChat - чат модель, через которую работают агенты
type OpenAIChat struct {
	client    *openai.Client
	model     string
	maxTokens int
	// Без ключа любой вызов возвращает ErrDisabled
	enabled bool
	mu      sync.Mutex
}

func NewOpenAIChat(apiKey, model string, maxTokens int) *OpenAIChat {
	c := &OpenAIChat{
		client:    openai.NewClient(apiKey),
		model:     model,
		maxTokens: maxTokens,
		enabled:   apiKey != "",
	}

	logger.Get().Info().
		Bool("enabled", c.enabled).
		Str("model", model).
		Msg("openai chat configured")

	return c
}

// Complete отправляет системный и пользовательский промпт, возвращает текст первого варианта
func (c *OpenAIChat) Complete(ctx context.Context, system, user string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return "", ErrDisabled
	}

	request := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.7,
		TopP:        1,
	}

	resp, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
