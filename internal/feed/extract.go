package feed

import (
	"fmt"
	"log/slog"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// Extractor fetches an article page and pulls out its readable text. Used
// when a feed entry carries no content body of its own.
type Extractor struct {
	timeout time.Duration
	logger  *slog.Logger
	fromURL func(url string, timeout time.Duration) (readability.Article, error)
}

func NewExtractor(timeout time.Duration, logger *slog.Logger) *Extractor {
	return &Extractor{
		timeout: timeout,
		logger:  logger,
		fromURL: readability.FromURL,
	}
}

// Extract returns the readable plain text of the page at link.
func (e *Extractor) Extract(link string) (string, error) {
	if link == "" {
		return "", fmt.Errorf("extract: article link is empty")
	}

	page, err := e.fromURL(link, e.timeout)
	if err != nil {
		return "", fmt.Errorf("extract: readability failed for %s: %w", link, err)
	}

	e.logger.Info("extracted article content", "link", link)
	return page.TextContent, nil
}
