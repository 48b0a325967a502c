package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kristsTCG/ai-news-bot/internal/feed"
)

const (
	openAIEndpoint = "https://api.openai.com/v1/chat/completions"

	systemPrompt = "You are a helpful assistant that summarizes AI news articles concisely."

	// Short summaries with little sampling variance.
	maxTokens   = 150
	temperature = 0.3
)

// OpenAI summarizes articles with one chat-completion request per article.
type OpenAI struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func NewOpenAI(apiKey, model string, logger *slog.Logger) *OpenAI {
	return &OpenAI{
		apiKey:   apiKey,
		model:    model,
		endpoint: openAIEndpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
	}
}

// OpenAI API request/response types

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *chatError   `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Summarize requests a 2-3 sentence summary of the article. A missing API
// key or empty article text yields StatusUnavailable; a failed API call
// yields StatusFailed with the failure description. Faults never propagate
// as errors, so callers can treat this and the extractive summarizer
// uniformly.
func (s *OpenAI) Summarize(ctx context.Context, article feed.Article) Result {
	if s.apiKey == "" {
		s.logger.Error("cannot summarize: no OpenAI API key configured")
		return Unavailable("")
	}

	title := displayTitle(article)

	text := sourceText(article)
	if text == "" {
		s.logger.Warn("no content to summarize", "title", title)
		return Unavailable(fmt.Sprintf("No content available to summarize for %s", title))
	}

	summary, err := s.callAPI(ctx, buildPrompt(title, text))
	if err != nil {
		s.logger.Error("failed to summarize article", "title", title, "error", err)
		return Failed(fmt.Sprintf("Error summarizing article: %v", err))
	}

	s.logger.Info("summarized article", "title", title)
	return OK(summary)
}

func buildPrompt(title, text string) string {
	return fmt.Sprintf(`Please create a concise 2-3 sentence summary of this AI-related article.
Focus on the key innovations, findings, or announcements.

Title: %s
Content: %s`, title, text)
}

func (s *OpenAI) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("openai: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("openai: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: failed to read response: %w", err)
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("openai: failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("openai: API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}

	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}
