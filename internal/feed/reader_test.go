package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

type stubParser struct {
	feeds map[string]*gofeed.Feed
	errs  map[string]error
	calls []string
}

func (p *stubParser) ParseURLWithContext(feedURL string, _ context.Context) (*gofeed.Feed, error) {
	p.calls = append(p.calls, feedURL)
	if err := p.errs[feedURL]; err != nil {
		return nil, err
	}
	return p.feeds[feedURL], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedTime() time.Time {
	return time.Date(2025, 4, 16, 12, 0, 0, 0, time.UTC)
}

func newTestReader(parser *stubParser) *Reader {
	r := NewReader(parser, nil, discardLogger())
	r.now = fixedTime
	return r
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestGetNewArticlesFiltersByWatermark(t *testing.T) {
	now := fixedTime()
	parser := &stubParser{feeds: map[string]*gofeed.Feed{
		"http://example.com/feed": {
			Title: "Example News",
			Items: []*gofeed.Item{
				{
					Title:           "Fresh",
					Link:            "http://example.com/fresh",
					PublishedParsed: timePtr(now.Add(-1 * time.Hour)),
				},
				{
					Title:           "Stale",
					Link:            "http://example.com/stale",
					PublishedParsed: timePtr(now.Add(-25 * time.Hour)),
				},
			},
		},
	}}

	r := newTestReader(parser)
	r.AddFeed("http://example.com/feed")

	articles := r.GetNewArticles(context.Background())
	if len(articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(articles))
	}
	if articles[0].Title != "Fresh" {
		t.Errorf("Expected article 'Fresh', got %q", articles[0].Title)
	}
	if articles[0].Source != "Example News" {
		t.Errorf("Expected source 'Example News', got %q", articles[0].Source)
	}
}

func TestGetNewArticlesItemExactlyAtWatermarkIsExcluded(t *testing.T) {
	now := fixedTime()
	parser := &stubParser{feeds: map[string]*gofeed.Feed{
		"http://example.com/feed": {
			Title: "Example News",
			Items: []*gofeed.Item{
				// Exactly at the initial watermark: strictly-greater filter
				// must exclude it.
				{Title: "Boundary", PublishedParsed: timePtr(now.Add(-24 * time.Hour))},
			},
		},
	}}

	r := newTestReader(parser)
	r.AddFeed("http://example.com/feed")

	articles := r.GetNewArticles(context.Background())
	if len(articles) != 0 {
		t.Fatalf("Expected 0 articles, got %d", len(articles))
	}
}

func TestGetNewArticlesPublishedTimeFallbacks(t *testing.T) {
	now := fixedTime()
	parser := &stubParser{feeds: map[string]*gofeed.Feed{
		"http://example.com/feed": {
			Title: "Example News",
			Items: []*gofeed.Item{
				{Title: "Updated only", UpdatedParsed: timePtr(now.Add(-2 * time.Hour))},
				{Title: "No dates at all"},
			},
		},
	}}

	r := newTestReader(parser)
	r.AddFeed("http://example.com/feed")

	articles := r.GetNewArticles(context.Background())
	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}
	if !articles[0].Published.Equal(now.Add(-2 * time.Hour)) {
		t.Errorf("Expected updated timestamp to be used, got %v", articles[0].Published)
	}
	if !articles[1].Published.Equal(now) {
		t.Errorf("Expected current time for dateless item, got %v", articles[1].Published)
	}
}

func TestGetNewArticlesSourceFallback(t *testing.T) {
	now := fixedTime()
	parser := &stubParser{feeds: map[string]*gofeed.Feed{
		"http://example.com/feed": {
			Items: []*gofeed.Item{
				{Title: "Anonymous", PublishedParsed: timePtr(now.Add(-time.Hour))},
			},
		},
	}}

	r := newTestReader(parser)
	r.AddFeed("http://example.com/feed")

	articles := r.GetNewArticles(context.Background())
	if len(articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(articles))
	}
	if articles[0].Source != "Unknown" {
		t.Errorf("Expected source 'Unknown', got %q", articles[0].Source)
	}
}

func TestGetNewArticlesFeedErrorDoesNotBlockOthers(t *testing.T) {
	now := fixedTime()
	parser := &stubParser{
		feeds: map[string]*gofeed.Feed{
			"http://ok.example.com/feed": {
				Title: "Working Feed",
				Items: []*gofeed.Item{
					{Title: "Survivor", PublishedParsed: timePtr(now.Add(-time.Hour))},
				},
			},
		},
		errs: map[string]error{
			"http://broken.example.com/feed": errors.New("parse failure"),
		},
	}

	r := newTestReader(parser)
	r.AddFeed("http://broken.example.com/feed")
	r.AddFeed("http://ok.example.com/feed")

	articles := r.GetNewArticles(context.Background())
	if len(articles) != 1 {
		t.Fatalf("Expected 1 article from the working feed, got %d", len(articles))
	}
	if articles[0].Title != "Survivor" {
		t.Errorf("Expected article 'Survivor', got %q", articles[0].Title)
	}

	// The failed fetch must not advance the broken feed's watermark.
	if got := r.lastCheck["http://broken.example.com/feed"]; !got.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("Expected broken feed watermark unchanged, got %v", got)
	}
	if got := r.lastCheck["http://ok.example.com/feed"]; !got.Equal(now) {
		t.Errorf("Expected working feed watermark advanced to now, got %v", got)
	}
}

func TestGetNewArticlesNeverReEmitsItems(t *testing.T) {
	now := fixedTime()
	parser := &stubParser{feeds: map[string]*gofeed.Feed{
		"http://example.com/feed": {
			Title: "Example News",
			Items: []*gofeed.Item{
				{Title: "Once", PublishedParsed: timePtr(now.Add(-time.Hour))},
			},
		},
	}}

	r := newTestReader(parser)
	r.AddFeed("http://example.com/feed")

	first := r.GetNewArticles(context.Background())
	if len(first) != 1 {
		t.Fatalf("Expected 1 article on first fetch, got %d", len(first))
	}

	second := r.GetNewArticles(context.Background())
	if len(second) != 0 {
		t.Fatalf("Expected 0 articles on second fetch, got %d", len(second))
	}
}

func TestGetNewArticlesRegistrationOrder(t *testing.T) {
	now := fixedTime()
	parser := &stubParser{feeds: map[string]*gofeed.Feed{
		"http://a.example.com/feed": {
			Title: "Feed A",
			Items: []*gofeed.Item{{Title: "A1", PublishedParsed: timePtr(now.Add(-time.Hour))}},
		},
		"http://b.example.com/feed": {
			Title: "Feed B",
			Items: []*gofeed.Item{{Title: "B1", PublishedParsed: timePtr(now.Add(-time.Hour))}},
		},
	}}

	r := newTestReader(parser)
	r.AddFeed("http://b.example.com/feed")
	r.AddFeed("http://a.example.com/feed")

	articles := r.GetNewArticles(context.Background())
	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "B1" || articles[1].Title != "A1" {
		t.Errorf("Expected registration order B1, A1; got %q, %q", articles[0].Title, articles[1].Title)
	}
}

func TestAddFeedDuplicateKeepsOriginalWatermark(t *testing.T) {
	r := newTestReader(&stubParser{})
	r.AddFeed("http://example.com/feed")
	original := r.lastCheck["http://example.com/feed"]

	// Simulate time passing before the duplicate registration.
	r.now = func() time.Time { return fixedTime().Add(2 * time.Hour) }
	r.AddFeed("http://example.com/feed")

	if len(r.Feeds()) != 1 {
		t.Fatalf("Expected exactly 1 registered feed, got %d", len(r.Feeds()))
	}
	if got := r.lastCheck["http://example.com/feed"]; !got.Equal(original) {
		t.Errorf("Expected original watermark %v, got %v", original, got)
	}
}

func TestRemoveFeed(t *testing.T) {
	r := newTestReader(&stubParser{})
	r.AddFeed("http://example.com/feed")

	r.RemoveFeed("http://example.com/feed")
	if len(r.Feeds()) != 0 {
		t.Fatalf("Expected 0 feeds after removal, got %d", len(r.Feeds()))
	}
	if _, ok := r.lastCheck["http://example.com/feed"]; ok {
		t.Error("Expected watermark discarded on removal")
	}

	// Removing an unregistered feed is a no-op.
	r.RemoveFeed("http://example.com/other")

	// Re-adding starts a fresh lookback.
	r.AddFeed("http://example.com/feed")
	if got := r.lastCheck["http://example.com/feed"]; !got.Equal(fixedTime().Add(-24 * time.Hour)) {
		t.Errorf("Expected fresh 24h lookback after re-add, got %v", got)
	}
}

func TestGetNewArticlesExtractsMissingContent(t *testing.T) {
	now := fixedTime()
	parser := &stubParser{feeds: map[string]*gofeed.Feed{
		"http://example.com/feed": {
			Title: "Example News",
			Items: []*gofeed.Item{
				{
					Title:           "Body elsewhere",
					Link:            "http://example.com/body-elsewhere",
					PublishedParsed: timePtr(now.Add(-time.Hour)),
				},
				{
					Title:           "Has body",
					Link:            "http://example.com/has-body",
					Content:         "Inline content.",
					PublishedParsed: timePtr(now.Add(-time.Hour)),
				},
			},
		},
	}}

	extractor := newStubExtractor(func(link string) (string, error) {
		if link == "http://example.com/body-elsewhere" {
			return "Extracted page text.", nil
		}
		return "", fmt.Errorf("unexpected extraction for %s", link)
	})

	r := NewReader(parser, extractor, discardLogger())
	r.now = fixedTime
	r.AddFeed("http://example.com/feed")

	articles := r.GetNewArticles(context.Background())
	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}
	if articles[0].Content != "Extracted page text." {
		t.Errorf("Expected extracted content, got %q", articles[0].Content)
	}
	if articles[1].Content != "Inline content." {
		t.Errorf("Expected inline content untouched, got %q", articles[1].Content)
	}
}
