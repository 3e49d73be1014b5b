package search

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/news-agents/internal/model"
)

const serperURL = "https://google.serper.dev"

// Serper - веб поиск через serper.dev
type Serper struct {
	client  *resty.Client
	apiKey  string
	baseURL string
	// Сколько результатов просить
	num int
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type serperOrganic struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serperResponse struct {
	Organic []serperOrganic `json:"organic"`
}

func NewSerper(apiKey string, num int) *Serper {
	return &Serper{
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(2 * time.Second),
		apiKey:  apiKey,
		baseURL: serperURL,
		num:     num,
	}
}

func (s *Serper) Enabled() bool {
	return s.apiKey != ""
}

func (s *Serper) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	var out serperResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-API-KEY", s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(serperRequest{Q: query, Num: s.num}).
		SetResult(&out).
		Post(s.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("serper request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from serper", resp.StatusCode())
	}

	return lo.Map(out.Organic, func(r serperOrganic, _ int) model.SearchResult {
		return model.SearchResult{Title: r.Title, Link: r.Link, Snippet: r.Snippet}
	}), nil
}
