package notifier

import (
	"context"

	"github.com/kristsTCG/ai-news-bot/internal/summarizer"
)

// Notifier posts messages and article notifications to some destination.
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
	SendArticle(ctx context.Context, article summarizer.SummarizedArticle) error
}
