package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
	"github.com/kovalyov-valentin/news-agents/internal/model"
)

var ErrRawSQLDisabled = errors.New("raw sql execution is disabled")

type NewsPostgresStorage struct {
	db *sqlx.DB
	// Разрешено ли выполнять SQL, который прислала модель
	allowRawSQL bool
	now         func() time.Time
}

func NewNewsPostgresStorage(db *sqlx.DB, allowRawSQL bool) *NewsPostgresStorage {
	return &NewsPostgresStorage{
		db:          db,
		allowRawSQL: allowRawSQL,
		now:         time.Now,
	}
}

// Save записывает новость. Если slug уже занят, к нему дописывается unix время.
// Повторная коллизия в ту же секунду не проверяется.
func (s *NewsPostgresStorage) Save(ctx context.Context, item model.NewsItem) (model.NewsItem, error) {
	log := logger.Get()

	// Отдельное соединение на каждую запись, закрываем в конце
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return model.NewsItem{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var count int
	if err := conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM news WHERE slug = $1`, item.Slug); err != nil {
		return model.NewsItem{}, fmt.Errorf("check slug %q: %w", item.Slug, err)
	}

	now := s.now()

	if count > 0 {
		slug := fmt.Sprintf("%s-%d", item.Slug, now.Unix())
		log.Info().
			Str("slug", item.Slug).
			Str("new_slug", slug).
			Msg("slug already exists, rewritten")
		item.Slug = slug
	}

	item.PublishedAt = now

	if _, err := conn.ExecContext(
		ctx,
		`INSERT INTO news (title, slug, excerpt, content, news_category_id, image_url, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.Title,
		item.Slug,
		item.Excerpt,
		item.Content,
		item.CategoryID,
		item.ImageURL,
		item.PublishedAt,
	); err != nil {
		return model.NewsItem{}, fmt.Errorf("insert news %q: %w", item.Slug, err)
	}

	log.Info().
		Str("title", item.Title).
		Str("slug", item.Slug).
		Int64("category_id", item.CategoryID).
		Msg("news saved")

	return item, nil
}

// Exec выполняет SQL выражение из ответа модели как есть
func (s *NewsPostgresStorage) Exec(ctx context.Context, statement string) error {
	if !s.allowRawSQL {
		return ErrRawSQLDisabled
	}

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, statement)
	if err != nil {
		return fmt.Errorf("exec statement: %w", err)
	}

	rows, _ := res.RowsAffected()
	logger.Get().Info().
		Int64("rows", rows).
		Msg("raw statement executed")

	return nil
}
