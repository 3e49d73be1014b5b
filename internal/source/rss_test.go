package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/kovalyov-valentin/news-agents/internal/model"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Tech</title>
<link>https://tech.example</link>
<description>tech news</description>
<item>
<title> First </title>
<link>https://tech.example/1</link>
<category>ai</category>
<description>first summary</description>
<pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>
<item>
<title>Second</title>
<link>https://tech.example/2</link>
<description>second summary</description>
<pubDate>Tue, 03 Jan 2006 15:04:05 GMT</pubDate>
</item>
</channel>
</rss>`

func TestRSSSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	src := NewRSSSourceFromModel(model.Source{ID: 7, Name: "tech", FeedURL: srv.URL}, 1)

	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	assert.Equal(t, 1, len(items))
	assert.Equal(t, "First", items[0].Title)
	assert.Equal(t, "https://tech.example/1", items[0].Link)
	assert.Equal(t, []string{"ai"}, items[0].Categories)
	assert.Equal(t, "tech", items[0].SourceName)
	assert.Equal(t, "tech", src.Name())
}

func TestRSSSourceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := RSSSource{URL: "http://127.0.0.1:1/feed", SourceName: "dead"}

	if _, err := src.Fetch(ctx); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPlainTextEmpty(t *testing.T) {
	assert.Equal(t, "", plainText("  "))
}
