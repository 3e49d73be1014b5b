package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tomakado/containers/set"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
	"github.com/kovalyov-valentin/news-agents/internal/model"
)

type Searcher interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

type SourceProvider interface {
	Sources(ctx context.Context) ([]model.Source, error)
}

// Лента источника. Реализуется RSS клиентом
type Feed interface {
	Name() string
	Fetch(ctx context.Context) ([]model.FeedItem, error)
}

type LinkCache interface {
	Seen(ctx context.Context, link string) (bool, error)
	Mark(ctx context.Context, link string) error
}

// Researcher собирает материал из поиска и RSS лент и отдает его модели
type Researcher struct {
	llm     LLM
	prompts Prompts
	search  Searcher
	sources SourceProvider
	feed    func(model.Source) Feed
	links   LinkCache
	// Фильтрация элементов ленты по ключевым словам
	filterKeywords []string
}

// Любой из search, sources, links может быть nil, тогда этот канал просто не используется
func NewResearcher(
	llm LLM,
	prompts Prompts,
	search Searcher,
	sources SourceProvider,
	feed func(model.Source) Feed,
	links LinkCache,
	filterKeywords []string,
) *Researcher {
	return &Researcher{
		llm:     llm,
		prompts: prompts,
		search:  search,
		sources: sources,
		feed:    feed,
		links:   links,
		filterKeywords: lo.Map(filterKeywords, func(k string, _ int) string {
			return strings.ToLower(strings.TrimSpace(k))
		}),
	}
}

func (r *Researcher) Name() string {
	return ResearchTask
}

func (r *Researcher) Run(ctx context.Context, topic string, _ Output) (Output, error) {
	var (
		notes strings.Builder
		links []string
	)

	for _, res := range r.searchResults(ctx, topic) {
		if r.seen(ctx, res.Link) {
			continue
		}

		fmt.Fprintf(&notes, "- %s\n  %s\n  %s\n", res.Title, res.Snippet, res.Link)
		links = append(links, res.Link)
	}

	for _, item := range r.feedItems(ctx) {
		if r.seen(ctx, item.Link) {
			continue
		}

		fmt.Fprintf(&notes, "- [%s] %s (%s)\n  %s\n  %s\n",
			item.SourceName, item.Title, item.Date.Format("2006-01-02"), item.Summary, item.Link)
		links = append(links, item.Link)
	}

	logger.Get().Info().
		Str("topic", topic).
		Int("links", len(links)).
		Msg("research material collected")

	out, err := complete(ctx, r.llm, r.prompts, ResearchTask, topic, notes.String())
	if err != nil {
		return Output{}, err
	}

	// Ссылки помечаем только после успешного ответа модели
	for _, link := range links {
		if r.links == nil {
			break
		}

		if err := r.links.Mark(ctx, link); err != nil {
			logger.Get().Warn().Err(err).Str("link", link).Msg("failed to mark link")
		}
	}

	return out, nil
}

func (r *Researcher) searchResults(ctx context.Context, topic string) []model.SearchResult {
	if r.search == nil {
		return nil
	}

	results, err := r.search.Search(ctx, topic)
	if err != nil {
		logger.Get().Error().Err(err).Str("topic", topic).Msg("web search failed")
		return nil
	}

	return results
}

func (r *Researcher) feedItems(ctx context.Context) []model.FeedItem {
	if r.sources == nil || r.feed == nil {
		return nil
	}

	sources, err := r.sources.Sources(ctx)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to list sources")
		return nil
	}

	var items []model.FeedItem

	for _, src := range sources {
		feed := r.feed(src)

		fetched, err := feed.Fetch(ctx)
		if err != nil {
			logger.Get().Error().Err(err).Str("source", feed.Name()).Msg("failed to fetch feed")
			continue
		}

		items = append(items, lo.Reject(fetched, func(item model.FeedItem, _ int) bool {
			return r.itemShouldBeSkipped(item)
		})...)
	}

	return items
}

// Пропускаем элемент, если ключевое слово есть среди категорий или в заголовке
func (r *Researcher) itemShouldBeSkipped(item model.FeedItem) bool {
	categoriesSet := set.New(lo.Map(item.Categories, func(c string, _ int) string {
		return strings.ToLower(c)
	})...)
	title := strings.ToLower(item.Title)

	for _, keyword := range r.filterKeywords {
		if keyword == "" {
			continue
		}

		if categoriesSet.Contains(keyword) || strings.Contains(title, keyword) {
			return true
		}
	}

	return false
}

func (r *Researcher) seen(ctx context.Context, link string) bool {
	if r.links == nil || link == "" {
		return false
	}

	seen, err := r.links.Seen(ctx, link)
	if err != nil {
		logger.Get().Warn().Err(err).Str("link", link).Msg("link cache lookup failed")
		return false
	}

	return seen
}
