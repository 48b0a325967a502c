package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kristsTCG/ai-news-bot/internal/retry"
	"github.com/kristsTCG/ai-news-bot/internal/summarizer"
)

const postMessageURL = "https://slack.com/api/chat.postMessage"

// Slack Block Kit payload types

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
	URL  string     `json:"url,omitempty"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackMessage struct {
	Channel string       `json:"channel"`
	Text    string       `json:"text"`
	Blocks  []slackBlock `json:"blocks,omitempty"`
}

type slackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SlackNotifier posts messages to a Slack channel via the Web API.
type SlackNotifier struct {
	token       string
	channel     string
	apiURL      string
	client      *http.Client
	retryConfig retry.Config
}

// NewSlackNotifier creates a SlackNotifier for the given bot token and
// channel ID.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{
		token:       token,
		channel:     channel,
		apiURL:      postMessageURL,
		client:      &http.Client{Timeout: 30 * time.Second},
		retryConfig: retry.DefaultConfig(),
	}
}

// SendMessage posts a plain text message to the channel.
func (s *SlackNotifier) SendMessage(ctx context.Context, text string) error {
	if s.token == "" || s.channel == "" {
		return fmt.Errorf("slack: missing bot token or channel ID")
	}

	return retry.WithBackoff(ctx, s.retryConfig, func(ctx context.Context) error {
		return s.postMessage(ctx, slackMessage{Channel: s.channel, Text: text})
	})
}

// SendArticle posts an article notification with a header, a body combining
// source, published time, and summary, and a button linking to the article.
func (s *SlackNotifier) SendArticle(ctx context.Context, article summarizer.SummarizedArticle) error {
	if s.token == "" || s.channel == "" {
		return fmt.Errorf("slack: missing bot token or channel ID")
	}

	title := article.Title
	if title == "" {
		title = "Untitled Article"
	}

	msg := slackMessage{
		Channel: s.channel,
		Text:    fmt.Sprintf("New AI Article: %s", title),
		Blocks:  buildArticleBlocks(title, article),
	}

	return retry.WithBackoff(ctx, s.retryConfig, func(ctx context.Context) error {
		return s.postMessage(ctx, msg)
	})
}

func buildArticleBlocks(title string, article summarizer.SummarizedArticle) []slackBlock {
	source := article.Source
	if source == "" {
		source = "Unknown Source"
	}

	published := "Unknown date"
	if !article.Published.IsZero() {
		published = article.Published.Format("2006-01-02 15:04")
	}

	body := fmt.Sprintf("*Source:* %s\n*Published:* %s\n\n%s", source, published, article.AISummary.Summary())

	return []slackBlock{
		{
			Type: "header",
			// Slack caps header text at 150 characters.
			Text: &slackText{Type: "plain_text", Text: truncate("\U0001F4F0 "+title, 150)},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: truncate(body, 3000)},
		},
		{
			Type: "actions",
			Elements: []slackElement{
				{
					Type: "button",
					Text: &slackText{Type: "plain_text", Text: "Read Full Article"},
					URL:  article.Link,
				},
			},
		},
		{Type: "divider"},
	}
}

// truncate shortens s to max characters, preferring a sentence boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := s[:max-1]
	if idx := strings.LastIndexAny(cut, ".!?"); idx > max/2 {
		return cut[:idx+1]
	}
	return cut + "…"
}

// postMessage sends one chat.postMessage call and surfaces API-level errors.
func (s *SlackNotifier) postMessage(ctx context.Context, msg slackMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var apiResp slackResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("API error: %s", apiResp.Error)
	}

	return nil
}
