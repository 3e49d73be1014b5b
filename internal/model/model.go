package model

import "time"

// Новость в том виде, в котором она хранится в таблице news
type NewsItem struct {
	Title string
	// Уникальный ключ новости в хранилище
	Slug    string
	Excerpt string
	Content string
	// Категория новости, 0 если не удалось определить
	CategoryID int64
	// Абсолютный адрес иллюстрации либо пустая строка
	ImageURL string
	// Выставляется в момент записи
	PublishedAt time.Time
}

// Источник (RSS лента), из которого researcher берет материал
type Source struct {
	ID      int64
	Name    string
	FeedURL string
	// Время создания
	CreatedAt time.Time
}

// Элемент ленты источника
type FeedItem struct {
	Title      string
	Categories []string
	Link       string
	// Дата публикации в источнике
	Date       time.Time
	Summary    string
	SourceName string
}

// Результат веб поиска
type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}
