package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/assert/v2"
	"github.com/jmoiron/sqlx"

	"github.com/kovalyov-valentin/news-agents/internal/model"
)

const (
	countQuery  = `SELECT COUNT(*) FROM news WHERE slug = $1`
	insertQuery = `INSERT INTO news (title, slug, excerpt, content, news_category_id, image_url, published_at)`
)

func newMockStorage(t *testing.T, allowRawSQL bool) (*NewsPostgresStorage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewNewsPostgresStorage(sqlx.NewDb(db, "sqlmock"), allowRawSQL), mock
}

func TestSaveNewSlug(t *testing.T) {
	st, mock := newMockStorage(t, true)
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	item := model.NewsItem{Title: "T", Slug: "t", Excerpt: "e", Content: "c", CategoryID: 1, ImageURL: "https://img/1.png"}

	mock.ExpectQuery(regexp.QuoteMeta(countQuery)).
		WithArgs("t").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
		WithArgs("T", "t", "e", "c", int64(1), "https://img/1.png", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	saved, err := st.Save(context.Background(), item)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	assert.Equal(t, "t", saved.Slug)
	assert.Equal(t, now, saved.PublishedAt)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveDuplicateSlugGetsTimestampSuffix(t *testing.T) {
	st, mock := newMockStorage(t, true)
	now := time.Unix(1760788800, 0)
	st.now = func() time.Time { return now }

	item := model.NewsItem{Title: "T", Slug: "t"}

	mock.ExpectQuery(regexp.QuoteMeta(countQuery)).
		WithArgs("t").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
		WithArgs("T", "t", "", "", int64(0), "", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(countQuery)).
		WithArgs("t").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
		WithArgs("T", "t-1760788800", "", "", int64(0), "", now).
		WillReturnResult(sqlmock.NewResult(2, 1))

	first, err := st.Save(context.Background(), item)
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second, err := st.Save(context.Background(), item)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}

	assert.Equal(t, "t", first.Slug)
	assert.Equal(t, "t-1760788800", second.Slug)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveInsertErrorPropagates(t *testing.T) {
	st, mock := newMockStorage(t, true)

	mock.ExpectQuery(regexp.QuoteMeta(countQuery)).
		WithArgs("t").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
		WillReturnError(errors.New("disk full"))

	_, err := st.Save(context.Background(), model.NewsItem{Slug: "t"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestExecRawStatement(t *testing.T) {
	st, mock := newMockStorage(t, true)
	stmt := "INSERT INTO news (title, slug) VALUES ('A', 'a');"

	mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(1, 1))

	if err := st.Exec(context.Background(), stmt); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestExecRawStatementDisabled(t *testing.T) {
	st, _ := newMockStorage(t, false)

	err := st.Exec(context.Background(), "INSERT INTO news (title) VALUES ('A');")
	if !errors.Is(err, ErrRawSQLDisabled) {
		t.Fatalf("expected ErrRawSQLDisabled, got %v", err)
	}
}

func TestSources(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, feed_url, created_at FROM sources`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "feed_url", "created_at"}).
			AddRow(1, "Hacker News", "https://hnrss.org/frontpage", created))

	sources, err := NewSourcePostgresStorage(sqlx.NewDb(db, "sqlmock")).Sources(context.Background())
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}

	assert.Equal(t, 1, len(sources))
	assert.Equal(t, "https://hnrss.org/frontpage", sources[0].FeedURL)
	assert.Equal(t, created, sources[0].CreatedAt)
}
