package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kovalyov-valentin/news-agents/internal/model"
)

// Record - сырой набор полей одной новости, как его вернула модель
type Record map[string]any

// Aliases - допустимые имена ключей для каждого логического поля новости.
// Порядок важен: берется первый ключ с непустым значением.
type Aliases struct {
	Title      []string
	Slug       []string
	Excerpt    []string
	Content    []string
	CategoryID []string
	ImageURL   []string
}

// Модель путает регистр и опечатывается в имени категории, все эти варианты встречались в выдаче
var DefaultAliases = Aliases{
	Title:      []string{"title", "Title"},
	Slug:       []string{"slug", "Slug"},
	Excerpt:    []string{"excerpt", "Excerpt"},
	Content:    []string{"content", "Content"},
	CategoryID: []string{"category_id", "news_category_id", "neww_categori_id", "new_categori_id"},
	ImageURL:   []string{"image_url", "Image_url"},
}

// Item собирает новость из сырых полей
func (a Aliases) Item(r Record) model.NewsItem {
	return model.NewsItem{
		Title:      strings.TrimSpace(r.String(a.Title...)),
		Slug:       strings.TrimSpace(r.String(a.Slug...)),
		Excerpt:    strings.TrimSpace(r.String(a.Excerpt...)),
		Content:    strings.TrimSpace(r.String(a.Content...)),
		CategoryID: r.Int(a.CategoryID...),
		ImageURL:   strings.TrimSpace(r.String(a.ImageURL...)),
	}
}

// Lookup возвращает первое непустое значение среди ключей
func (r Record) Lookup(keys ...string) (any, bool) {
	for _, key := range keys {
		v, ok := r[key]
		if ok && !isBlank(v) {
			return v, true
		}
	}

	return nil, false
}

func (r Record) String(keys ...string) string {
	v, ok := r.Lookup(keys...)
	if !ok {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}

// Int понимает числа из json, целые и числовые строки. Все остальное дает 0.
func (r Record) Int(keys ...string) int64 {
	for _, key := range keys {
		v, ok := r[key]
		if !ok || isBlank(v) {
			continue
		}

		if n, ok := toInt(v); ok && n != 0 {
			return n
		}
	}

	return 0
}

// Key возвращает значение первого ключа по тем же правилам, что и Int:
// пустые и нулевые значения пропускаются, числа приводятся к одному виду.
func (r Record) Key(keys ...string) (string, bool) {
	for _, key := range keys {
		v, ok := r[key]
		if !ok || isBlank(v) {
			continue
		}

		if n, ok := toInt(v); ok {
			if n == 0 {
				continue
			}
			return strconv.FormatInt(n, 10), true
		}

		return fmt.Sprint(v), true
	}

	return "", false
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}

	return 0, false
}

// Пустыми считаются nil, пустая строка, ноль и false
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	}

	return false
}
