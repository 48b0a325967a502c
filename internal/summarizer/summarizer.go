package summarizer

import (
	"context"

	"github.com/kristsTCG/ai-news-bot/internal/feed"
)

// Status classifies a summarization outcome.
type Status int

const (
	// StatusOK means Text holds a generated summary.
	StatusOK Status = iota
	// StatusUnavailable means no summary could be produced: either the
	// article had no text to work with, or the summarizer is missing its
	// credential. Text holds a user-facing message, or is empty in the
	// missing-credential case.
	StatusUnavailable
	// StatusFailed means the summarization attempt errored. Text holds a
	// user-facing description of the failure.
	StatusFailed
)

// Result is the outcome of summarizing one article. Callers switch on Status
// rather than inspecting Text for sentinel values.
type Result struct {
	Status Status
	Text   string
}

func OK(text string) Result          { return Result{Status: StatusOK, Text: text} }
func Unavailable(text string) Result { return Result{Status: StatusUnavailable, Text: text} }
func Failed(text string) Result      { return Result{Status: StatusFailed, Text: text} }

// Summary returns the user-facing text, or a placeholder when there is none.
func (r Result) Summary() string {
	if r.Text == "" {
		return "No summary available"
	}
	return r.Text
}

// SummarizedArticle is an article together with its generated summary.
type SummarizedArticle struct {
	feed.Article
	AISummary Result
}

// Summarizer produces a short summary of a single article. Implementations
// never return an error; failures are reported through the Result.
type Summarizer interface {
	Summarize(ctx context.Context, article feed.Article) Result
}

// Batch summarizes each article independently and in order. One article's
// failure never blocks the others; the output always has one record per
// input record.
func Batch(ctx context.Context, s Summarizer, articles []feed.Article) []SummarizedArticle {
	summarized := make([]SummarizedArticle, 0, len(articles))
	for _, article := range articles {
		summarized = append(summarized, SummarizedArticle{
			Article:   article,
			AISummary: s.Summarize(ctx, article),
		})
	}
	return summarized
}

// sourceText selects the text to summarize: the full content when present,
// the feed-provided summary otherwise.
func sourceText(article feed.Article) string {
	if article.Content != "" {
		return article.Content
	}
	return article.Summary
}

// displayTitle returns the article title, or a placeholder when it is empty.
func displayTitle(article feed.Article) string {
	if article.Title == "" {
		return "Untitled Article"
	}
	return article.Title
}
