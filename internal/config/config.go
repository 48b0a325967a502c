package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Feeds           []string         `yaml:"feeds"`
	CheckInterval   string           `yaml:"check_interval"` // Go duration, e.g. "1h"
	Schedule        string           `yaml:"schedule"`       // cron expression, overrides check_interval
	RunOnStart      bool             `yaml:"run_on_start"`
	SendTestMessage bool             `yaml:"send_test_message"`
	ExtractContent  bool             `yaml:"extract_content"`
	Summarizer      SummarizerConfig `yaml:"summarizer"`
	Notifier        NotifierConfig   `yaml:"notifier"`

	interval time.Duration
}

type SummarizerConfig struct {
	Type   string `yaml:"type"` // openai or extractive
	Model  string `yaml:"model"`
	APIKey string `yaml:"api_key"`
}

type NotifierConfig struct {
	Type  string      `yaml:"type"` // slack or stdout
	Slack SlackConfig `yaml:"slack"`
}

type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// defaultFeeds is the set of AI news sources monitored when the config names
// none.
var defaultFeeds = []string{
	"https://blog.google/technology/ai/rss/",
	"https://www.technologyreview.com/topic/artificial-intelligence/feed",
	"https://openai.com/blog/rss.xml",
	"https://www.reddit.com/r/MachineLearning/.rss",
	"https://www.reddit.com/r/artificial/.rss",
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if len(cfg.Feeds) == 0 {
		cfg.Feeds = append(cfg.Feeds, defaultFeeds...)
	}
	if cfg.CheckInterval == "" {
		cfg.CheckInterval = "1h"
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "openai"
	}
	if cfg.Summarizer.Model == "" {
		cfg.Summarizer.Model = "gpt-3.5-turbo"
	}
	if cfg.Summarizer.APIKey == "" {
		cfg.Summarizer.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Notifier.Type == "" {
		cfg.Notifier.Type = "slack"
	}
	if cfg.Notifier.Slack.BotToken == "" {
		cfg.Notifier.Slack.BotToken = os.Getenv("SLACK_BOT_TOKEN")
	}
	if cfg.Notifier.Slack.Channel == "" {
		cfg.Notifier.Slack.Channel = os.Getenv("SLACK_CHANNEL_ID")
	}
}

func validate(cfg *Config) error {
	switch cfg.Summarizer.Type {
	case "openai", "extractive":
	default:
		return fmt.Errorf("config: unsupported summarizer type %q (supported: openai, extractive)", cfg.Summarizer.Type)
	}

	switch cfg.Notifier.Type {
	case "slack", "stdout":
	default:
		return fmt.Errorf("config: unsupported notifier type %q (supported: slack, stdout)", cfg.Notifier.Type)
	}

	interval, err := time.ParseDuration(cfg.CheckInterval)
	if err != nil {
		return fmt.Errorf("config: invalid check_interval %q: %w", cfg.CheckInterval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("config: check_interval must be positive, got %q", cfg.CheckInterval)
	}
	cfg.interval = interval

	return nil
}

// Interval returns the parsed check interval.
func (c *Config) Interval() time.Duration {
	return c.interval
}

// CronSchedule returns the schedule expression for the cron scheduler: the
// configured cron expression, or an @every interval schedule.
func (c *Config) CronSchedule() string {
	if c.Schedule != "" {
		return c.Schedule
	}
	return "@every " + c.interval.String()
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
