package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/AnasB0/Resto-Pro/internal/domain"
)

const (
	systemPrompt     = "You summarize restaurant reviews and extract insights."
	userPromptPrefix = "Summarize the following reviews:\n\n"
	failurePrefix    = "LLM summary failed: "

	defaultMaxReviews = 50
	maxErrorBody      = 512
)

// Summarizer turns a batch of review text into a short summary. It never
// fails: errors are reported inside the returned text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// The response fields are pointers so a missing message or content can be
// told apart from an empty one.
type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls an OpenAI compatible chat completions endpoint.
type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(cfg config.SummaryConfig) *Client {
	return &Client{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		// a zero timeout leaves the transport defaults in charge
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

// Summarize returns the model's summary, or a message starting with
// "LLM summary failed: " when the request did not succeed.
func (c *Client) Summarize(ctx context.Context, text string) string {
	out, err := c.Request(ctx, text)
	if err != nil {
		return FailureMessage(err)
	}
	return out
}

// Request performs the completion call and returns the first choice's content.
func (c *Client) Request(ctx context.Context, text string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("missing summary api key")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPromptPrefix + text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(truncate(raw, maxErrorBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("response has no choices")
	}
	msg := parsed.Choices[0].Message
	if msg == nil {
		return "", errors.New("response choice has no message")
	}
	if msg.Content == nil {
		return "", errors.New("response message has no content")
	}

	return *msg.Content, nil
}

// truncate cuts b to at most n bytes without splitting a rune.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return string(b[:n])
}

// FailureMessage formats err the way Summarize reports failures.
func FailureMessage(err error) string {
	return failurePrefix + err.Error()
}

// IsFailure reports whether a summary is a failure message.
func IsFailure(summary string) bool {
	return strings.HasPrefix(summary, failurePrefix)
}

// BatchReviewText joins the text of the first limit reviews, one per line.
// A non-positive limit uses the default of 50.
func BatchReviewText(reviews []domain.EnrichedReview, limit int) string {
	if limit <= 0 {
		limit = defaultMaxReviews
	}
	if len(reviews) < limit {
		limit = len(reviews)
	}

	texts := make([]string, 0, limit)
	for _, r := range reviews[:limit] {
		texts = append(texts, r.Text)
	}
	return strings.Join(texts, "\n")
}
