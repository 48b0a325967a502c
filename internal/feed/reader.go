package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"
)

// lookback is how far into the past a newly registered feed is read.
const lookback = 24 * time.Hour

// Parser fetches and parses a feed URL. *gofeed.Parser satisfies it.
type Parser interface {
	ParseURLWithContext(feedURL string, ctx context.Context) (*gofeed.Feed, error)
}

// Reader polls a set of feeds and returns only items newer than each feed's
// watermark. The watermark advances to wall-clock time after every fetch, not
// to the newest published time observed, so an item whose feed-reported
// publish time is ahead of fetch time can be skipped on the next cycle.
// Watermarks are not persisted; every process start re-reads the lookback
// window.
type Reader struct {
	parser    Parser
	extractor *Extractor
	logger    *slog.Logger
	now       func() time.Time

	urls      []string // registration order
	lastCheck map[string]time.Time
}

// NewReader creates a Reader. extractor may be nil to disable full-content
// extraction for items without a body.
func NewReader(parser Parser, extractor *Extractor, logger *slog.Logger) *Reader {
	return &Reader{
		parser:    parser,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
		lastCheck: make(map[string]time.Time),
	}
}

// AddFeed registers a feed URL with an initial watermark one lookback window
// in the past. Re-adding an existing URL is a no-op.
func (r *Reader) AddFeed(url string) {
	if _, ok := r.lastCheck[url]; ok {
		r.logger.Info("feed already registered", "url", url)
		return
	}
	r.urls = append(r.urls, url)
	r.lastCheck[url] = r.now().Add(-lookback)
	r.logger.Info("added feed", "url", url)
}

// RemoveFeed unregisters a feed URL and discards its watermark.
func (r *Reader) RemoveFeed(url string) {
	for i, u := range r.urls {
		if u == url {
			r.urls = append(r.urls[:i], r.urls[i+1:]...)
			delete(r.lastCheck, url)
			r.logger.Info("removed feed", "url", url)
			return
		}
	}
	r.logger.Warn("attempted to remove unregistered feed", "url", url)
}

// Feeds returns the registered feed URLs in registration order.
func (r *Reader) Feeds() []string {
	urls := make([]string, len(r.urls))
	copy(urls, r.urls)
	return urls
}

// GetNewArticles fetches every registered feed and returns the items newer
// than each feed's watermark, in registration order. A fetch or parse failure
// on one feed is logged and skips that feed for this cycle without advancing
// its watermark; the remaining feeds are still processed.
func (r *Reader) GetNewArticles(ctx context.Context) []Article {
	var articles []Article

	for _, url := range r.urls {
		r.logger.Info("fetching feed", "url", url)

		parsed, err := r.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			r.logger.Error("failed to fetch feed", "url", url, "error", err)
			continue
		}

		source := parsed.Title
		if source == "" {
			source = "Unknown"
		}

		since := r.lastCheck[url]
		for _, item := range parsed.Items {
			published := r.effectivePublished(item)
			if !published.After(since) {
				continue
			}

			article := Article{
				Title:     item.Title,
				Link:      item.Link,
				Published: published,
				Source:    source,
				Summary:   item.Description,
				Content:   item.Content,
			}

			if article.Content == "" && r.extractor != nil {
				content, err := r.extractor.Extract(article.Link)
				if err != nil {
					r.logger.Warn("failed to extract article content", "link", article.Link, "error", err)
				} else {
					article.Content = content
				}
			}

			articles = append(articles, article)
		}

		r.lastCheck[url] = r.now()
	}

	r.logger.Info("found new articles", "count", len(articles))
	return articles
}

// effectivePublished resolves an item's publish time: the published timestamp
// if the feed provides one, the updated timestamp otherwise, and the current
// time when neither is present.
func (r *Reader) effectivePublished(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return r.now()
}
