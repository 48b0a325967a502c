package runner

import (
	"context"
	"log/slog"

	"github.com/kristsTCG/ai-news-bot/internal/feed"
	"github.com/kristsTCG/ai-news-bot/internal/notifier"
	"github.com/kristsTCG/ai-news-bot/internal/summarizer"
)

// Source supplies the articles that appeared since the last check.
type Source interface {
	GetNewArticles(ctx context.Context) []feed.Article
}

// Bot orchestrates one poll -> summarize -> notify cycle.
type Bot struct {
	source     Source
	summarizer summarizer.Summarizer
	notifier   notifier.Notifier
	logger     *slog.Logger
}

func New(source Source, s summarizer.Summarizer, n notifier.Notifier, logger *slog.Logger) *Bot {
	return &Bot{
		source:     source,
		summarizer: s,
		notifier:   n,
		logger:     logger,
	}
}

// Run executes one cycle and returns the number of articles posted. A
// failure posting one article is logged and the remaining articles are still
// posted.
func (b *Bot) Run(ctx context.Context) (int, error) {
	b.logger.Info("checking for new articles")
	articles := b.source.GetNewArticles(ctx)

	if len(articles) == 0 {
		b.logger.Info("no new articles found")
		return 0, nil
	}
	b.logger.Info("found new articles", "count", len(articles))

	b.logger.Info("generating summaries")
	summarized := summarizer.Batch(ctx, b.summarizer, articles)

	b.logger.Info("posting notifications")
	posted := 0
	for _, article := range summarized {
		if err := b.notifier.SendArticle(ctx, article); err != nil {
			b.logger.Error("failed to post article", "title", article.Title, "error", err)
			continue
		}
		posted++
	}

	b.logger.Info("posted articles", "posted", posted, "total", len(summarized))
	return posted, nil
}
