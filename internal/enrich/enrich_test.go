package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/kovalyov-valentin/news-agents/internal/model"
)

type fakeGenerator struct {
	resp    any
	err     error
	prompts []string
}

func (g *fakeGenerator) GenerateImage(_ context.Context, prompt string) (any, error) {
	g.prompts = append(g.prompts, prompt)
	return g.resp, g.err
}

type fakeMirror struct {
	url string
	err error
}

func (m fakeMirror) Mirror(context.Context, string, string) (string, error) {
	return m.url, m.err
}

func TestImageURLResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		resp any
		want string
	}{
		{name: "plain string", resp: "https://img.example/a.png", want: "https://img.example/a.png"},
		{name: "nested map", resp: map[string]any{"data": []any{map[string]any{"url": "https://img.example/b.png"}}}, want: "https://img.example/b.png"},
		{name: "openai response", resp: openai.ImageResponse{Data: []openai.ImageResponseDataInner{{URL: "https://img.example/c.png"}}}, want: "https://img.example/c.png"},
		{name: "not a url", resp: "sorry, I cannot draw that", want: "https://fallback/x.png"},
		{name: "empty data", resp: map[string]any{"data": []any{}}, want: "https://fallback/x.png"},
		{name: "unknown shape", resp: 42, want: "https://fallback/x.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{resp: tt.resp}
			e := New(gen, nil, "Illustration for %q")

			got := e.ImageURL(context.Background(), model.NewsItem{Title: "Rain", ImageURL: "https://fallback/x.png"})

			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{`Illustration for "Rain"`}, gen.prompts)
		})
	}
}

func TestImageURLFallbackIsEmptyWithoutItemURL(t *testing.T) {
	e := New(&fakeGenerator{resp: "ftp://nope"}, nil, "%s")

	assert.Equal(t, "", e.ImageURL(context.Background(), model.NewsItem{Title: "T"}))
}

func TestImageURLGeneratorError(t *testing.T) {
	e := New(&fakeGenerator{err: errors.New("rate limited")}, nil, "%s")

	assert.Equal(t, "https://own/img.png", e.ImageURL(context.Background(), model.NewsItem{ImageURL: "https://own/img.png"}))
}

func TestImageURLWithoutGenerator(t *testing.T) {
	e := New(nil, nil, "%s")

	assert.Equal(t, "https://own/img.png", e.ImageURL(context.Background(), model.NewsItem{ImageURL: "https://own/img.png"}))
}

func TestImageURLDisabledGenerator(t *testing.T) {
	e := New(NewOpenAIImageGenerator("", "1024x1024"), nil, "%s")

	assert.Equal(t, "", e.ImageURL(context.Background(), model.NewsItem{Title: "T"}))
}

func TestImageURLMirror(t *testing.T) {
	gen := &fakeGenerator{resp: "https://tmp.example/a.png"}

	mirrored := New(gen, fakeMirror{url: "https://cdn.example/news/a.png"}, "%s")
	assert.Equal(t, "https://cdn.example/news/a.png", mirrored.ImageURL(context.Background(), model.NewsItem{Slug: "a"}))

	failed := New(gen, fakeMirror{err: errors.New("bucket gone")}, "%s")
	assert.Equal(t, "https://tmp.example/a.png", failed.ImageURL(context.Background(), model.NewsItem{Slug: "a"}))
}
