package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mmcdole/gofeed"
	"github.com/robfig/cron/v3"

	"github.com/kristsTCG/ai-news-bot/internal/config"
	"github.com/kristsTCG/ai-news-bot/internal/feed"
	"github.com/kristsTCG/ai-news-bot/internal/notifier"
	"github.com/kristsTCG/ai-news-bot/internal/runner"
	"github.com/kristsTCG/ai-news-bot/internal/summarizer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one check cycle and exit")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err == nil {
		logger.Info("loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Build feed reader
	var extractor *feed.Extractor
	if cfg.ExtractContent {
		extractor = feed.NewExtractor(30*time.Second, logger.With("component", "extractor"))
	}
	reader := feed.NewReader(gofeed.NewParser(), extractor, logger.With("component", "feed"))
	for _, url := range cfg.Feeds {
		reader.AddFeed(url)
	}
	logger.Info("initialized feed reader", "feeds", len(cfg.Feeds))

	// Build summarizer
	var s summarizer.Summarizer
	switch cfg.Summarizer.Type {
	case "openai":
		if cfg.Summarizer.APIKey == "" {
			logger.Info("no OpenAI API key configured, using extractive summarizer")
			s = summarizer.NewExtractive(logger.With("component", "summarizer"))
		} else {
			logger.Info("using OpenAI for summarization", "model", cfg.Summarizer.Model)
			s = summarizer.NewOpenAI(cfg.Summarizer.APIKey, cfg.Summarizer.Model, logger.With("component", "summarizer"))
		}
	case "extractive":
		logger.Info("using extractive summarizer")
		s = summarizer.NewExtractive(logger.With("component", "summarizer"))
	default:
		logger.Error("unknown summarizer type", "type", cfg.Summarizer.Type)
		os.Exit(1)
	}

	// Build notifier
	var n notifier.Notifier
	switch cfg.Notifier.Type {
	case "slack":
		n = notifier.NewSlackNotifier(cfg.Notifier.Slack.BotToken, cfg.Notifier.Slack.Channel)
	case "stdout":
		n = notifier.NewStdoutNotifier()
	default:
		logger.Error("unknown notifier type", "type", cfg.Notifier.Type)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SendTestMessage {
		if err := n.SendMessage(ctx, "Hello from AI News Bot! This is a test message."); err != nil {
			logger.Error("failed to send test message", "error", err)
		}
	}

	bot := runner.New(reader, s, n, logger.With("component", "runner"))

	// Single-run mode: run one cycle and exit
	if *once {
		posted, err := bot.Run(ctx)
		if err != nil {
			logger.Error("cycle failed", "error", err)
			os.Exit(1)
		}
		logger.Info("done", "posted", posted)
		return
	}

	if cfg.RunOnStart {
		logger.Info("running initial check")
		if _, err := bot.Run(ctx); err != nil {
			logger.Error("initial run failed", "error", err)
		}
	}

	// A cycle-level fault is logged and the schedule keeps going; only a
	// shutdown signal stops the loop.
	c := cron.New()
	_, err = c.AddFunc(cfg.CronSchedule(), func() {
		if _, err := bot.Run(ctx); err != nil {
			logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("failed to set up schedule", "schedule", cfg.CronSchedule(), "error", err)
		os.Exit(1)
	}
	c.Start()
	logger.Info("scheduled article checks", "schedule", cfg.CronSchedule())

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	cancel()
	c.Stop()

	logger.Info("shutdown complete")
}
