package selector

import (
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/kovalyov-valentin/news-agents/internal/normalize"
)

func newTestSelector(minContentLength, perCategory int) *Selector {
	return New(
		normalize.DefaultAliases.CategoryID,
		normalize.DefaultAliases.Content,
		minContentLength,
		perCategory,
	)
}

func slugs(items []normalize.Record) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String("slug"))
	}
	return out
}

func TestSelectKeepsFirstLongEnoughPerCategory(t *testing.T) {
	long := strings.Repeat("a", 400)
	items := []normalize.Record{
		{"slug": "short", "new_categori_id": 1, "content": strings.Repeat("a", 399)},
		{"slug": "first", "new_categori_id": 1, "content": long},
		{"slug": "second", "new_categori_id": 1, "content": long},
		{"slug": "other", "new_categori_id": 2, "content": long},
		{"slug": "nocat", "content": long},
	}

	got := newTestSelector(400, 1).Select(items)

	assert.Equal(t, []string{"first", "other"}, slugs(got))
}

func TestSelectCountsCharactersNotBytes(t *testing.T) {
	items := []normalize.Record{
		{"slug": "cyrillic", "category_id": 3, "Content": strings.Repeat("ж", 10)},
	}

	assert.Equal(t, []string{"cyrillic"}, slugs(newTestSelector(10, 1).Select(items)))
	assert.Equal(t, 0, len(newTestSelector(11, 1).Select(items)))
}

func TestSelectPerCategoryLimit(t *testing.T) {
	items := []normalize.Record{
		{"slug": "a", "category_id": 1, "content": "xx"},
		{"slug": "b", "category_id": 1, "content": "xx"},
		{"slug": "c", "category_id": 1, "content": "xx"},
	}

	assert.Equal(t, []string{"a", "b"}, slugs(newTestSelector(2, 2).Select(items)))
	assert.Equal(t, []string{"a", "b", "c"}, slugs(newTestSelector(2, 0).Select(items)))
}

func TestSelectEmpty(t *testing.T) {
	assert.Equal(t, 0, len(newTestSelector(400, 1).Select(nil)))
}

func TestSelectZeroCategoryFallsThroughToNextAlias(t *testing.T) {
	long := strings.Repeat("a", 10)
	items := []normalize.Record{
		{"slug": "a", "category_id": 0, "new_categori_id": 2, "content": long},
		{"slug": "b", "category_id": 0, "new_categori_id": 3, "content": long},
		{"slug": "c", "category_id": "", "new_categori_id": "3", "content": long},
		{"slug": "zero", "category_id": 0, "content": long},
	}

	assert.Equal(t, []string{"a", "b"}, slugs(newTestSelector(10, 1).Select(items)))
}
