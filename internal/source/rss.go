package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/SlyMarbo/rss"
	"github.com/go-shiori/go-readability"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/news-agents/internal/model"
)

// RSS клиент
type RSSSource struct {
	// URL откуда мы забираем данные
	URL        string
	SourceName string
	// Сколько элементов ленты брать, 0 - все
	Limit int
}

func NewRSSSourceFromModel(m model.Source, limit int) RSSSource {
	return RSSSource{
		URL:        m.FeedURL,
		SourceName: m.Name,
		Limit:      limit,
	}
}

// Fetch возвращает элементы ленты с очищенным от html описанием
func (s RSSSource) Fetch(ctx context.Context) ([]model.FeedItem, error) {
	feed, err := s.loadFeed(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("load feed %s: %w", s.SourceName, err)
	}

	items := feed.Items
	if s.Limit > 0 && len(items) > s.Limit {
		items = items[:s.Limit]
	}

	return lo.Map(items, func(item *rss.Item, _ int) model.FeedItem {
		return model.FeedItem{
			Title:      strings.TrimSpace(item.Title),
			Categories: item.Categories,
			Link:       item.Link,
			Date:       item.Date.UTC(),
			Summary:    plainText(item.Summary),
			SourceName: s.SourceName,
		}
	}), nil
}

func (s RSSSource) loadFeed(ctx context.Context, url string) (*rss.Feed, error) {
	// Буфер в 1, чтобы горутина не зависла, если контекст отменили раньше
	var (
		feedCh = make(chan *rss.Feed, 1)
		errCh  = make(chan error, 1)
	)

	go func() {
		feed, err := rss.Fetch(url)
		if err != nil {
			errCh <- err
			return
		}

		feedCh <- feed
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, err
	case feed := <-feedCh:
		return feed, nil
	}
}

func (s RSSSource) Name() string {
	return s.SourceName
}

// readability оставляет много пустых строк, схлопываем их
var redundantNewLines = regexp.MustCompile(`\n{3,}`)

func plainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil || strings.TrimSpace(doc.TextContent) == "" {
		return strings.TrimSpace(html)
	}

	return strings.TrimSpace(redundantNewLines.ReplaceAllString(doc.TextContent, "\n"))
}
