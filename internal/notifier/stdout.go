package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/kristsTCG/ai-news-bot/internal/summarizer"
)

// StdoutNotifier prints notifications to stdout. Useful as a dry run when no
// Slack credentials are configured.
type StdoutNotifier struct{}

func NewStdoutNotifier() *StdoutNotifier {
	return &StdoutNotifier{}
}

func (n *StdoutNotifier) SendMessage(_ context.Context, text string) error {
	fmt.Println(text)
	return nil
}

func (n *StdoutNotifier) SendArticle(_ context.Context, article summarizer.SummarizedArticle) error {
	title := article.Title
	if title == "" {
		title = "Untitled Article"
	}
	source := article.Source
	if source == "" {
		source = "Unknown Source"
	}
	published := "Unknown date"
	if !article.Published.IsZero() {
		published = article.Published.Format("2006-01-02 15:04")
	}

	fmt.Println(strings.Repeat("-", 72))
	fmt.Println(title)
	fmt.Printf("Source: %s\n", source)
	fmt.Printf("Published: %s\n", published)
	fmt.Printf("Link: %s\n", article.Link)
	fmt.Println()
	fmt.Println(article.AISummary.Summary())
	fmt.Println(strings.Repeat("-", 72))
	return nil
}
