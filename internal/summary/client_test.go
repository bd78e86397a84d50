package summary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/AnasB0/Resto-Pro/internal/cache"
	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "https://llm.test/api/v1/chat/completions"

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func testClient() *Client {
	return NewClient(config.SummaryConfig{
		APIURL: testEndpoint,
		APIKey: "test-key",
		Model:  "openai/gpt-4o-mini",
	})
}

func successBody(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func TestClient_Summarize_Success(t *testing.T) {
	setupHTTPMock(t)

	var captured chatRequest
	var auth string
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			auth = req.Header.Get("Authorization")
			if err := json.NewDecoder(req.Body).Decode(&captured); err != nil {
				return nil, err
			}
			return httpmock.NewStringResponse(http.StatusOK, successBody("Guests love the pizza.")), nil
		})

	got := testClient().Summarize(context.Background(), "great pizza\nslow service")

	assert.Equal(t, "Guests love the pizza.", got)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "openai/gpt-4o-mini", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "You summarize restaurant reviews and extract insights.", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "Summarize the following reviews:\n\ngreat pizza\nslow service", captured.Messages[1].Content)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClient_Summarize_Failures(t *testing.T) {
	setupHTTPMock(t)

	tests := []struct {
		name      string
		responder httpmock.Responder
		contains  string
	}{
		{"transport error", httpmock.NewErrorResponder(errors.New("connection refused")), "connection refused"},
		{"unauthorized", httpmock.NewStringResponder(http.StatusUnauthorized, `{"error":"bad key"}`), "status 401"},
		{"server error", httpmock.NewStringResponder(http.StatusInternalServerError, "oops"), "status 500"},
		{"invalid json", httpmock.NewStringResponder(http.StatusOK, "not json"), "decode response"},
		{"no choices", httpmock.NewStringResponder(http.StatusOK, `{"choices":[]}`), "no choices"},
		{"empty choice", httpmock.NewStringResponder(http.StatusOK, `{"choices":[{}]}`), "no message"},
		{"message without content", httpmock.NewStringResponder(http.StatusOK, `{"choices":[{"message":{}}]}`), "no content"},
		{"text completion shape", httpmock.NewStringResponder(http.StatusOK, `{"choices":[{"text":"hi"}]}`), "no message"},
		{"null message", httpmock.NewStringResponder(http.StatusOK, `{"choices":[{"message":null}]}`), "no message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder(http.MethodPost, testEndpoint, tt.responder)

			got := testClient().Summarize(context.Background(), "text")

			assert.True(t, strings.HasPrefix(got, "LLM summary failed: "), got)
			assert.Contains(t, got, tt.contains)
			assert.True(t, IsFailure(got))
		})
	}
}

func TestClient_Summarize_MissingKey(t *testing.T) {
	setupHTTPMock(t)

	client := NewClient(config.SummaryConfig{APIURL: testEndpoint})
	got := client.Summarize(context.Background(), "text")

	assert.Equal(t, "LLM summary failed: missing summary api key", got)
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestClient_Request_ReturnsError(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewStringResponder(http.StatusBadGateway, "upstream down"))

	_, err := testClient().Request(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestClient_Request_EmptyContentIsNotAFailure(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewStringResponder(http.StatusOK, `{"choices":[{"message":{"content":""}}]}`))

	got, err := testClient().Request(context.Background(), "text")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "abc", truncate([]byte("abc"), 5))
	assert.Equal(t, "ab", truncate([]byte("abcd"), 2))
	// "é" is two bytes, cutting at 2 would split it
	assert.Equal(t, "a", truncate([]byte("aé"), 2))
	assert.True(t, utf8.ValidString(truncate([]byte(strings.Repeat("ü", 300)), maxErrorBody)))
}

func TestClient_Summarize_LongMultibyteErrorBody(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewStringResponder(http.StatusBadGateway, "x"+strings.Repeat("é", 400)))

	got := testClient().Summarize(context.Background(), "text")
	assert.True(t, IsFailure(got))
	assert.True(t, utf8.ValidString(got), got)
}

type countingSummarizer struct {
	calls int
	out   string
}

func (c *countingSummarizer) Summarize(context.Context, string) string {
	c.calls++
	return c.out
}

type memoryCache struct {
	entries map[string]string
}

func (m *memoryCache) Get(_ context.Context, model, text string) (string, bool, error) {
	v, ok := m.entries[cache.SummaryKey(model, text)]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, model, text, summary string) error {
	m.entries[cache.SummaryKey(model, text)] = summary
	return nil
}

func (m *memoryCache) InvalidateAll(context.Context) error {
	m.entries = map[string]string{}
	return nil
}

func (m *memoryCache) Close() error {
	return nil
}

func TestCachedSummarizer(t *testing.T) {
	next := &countingSummarizer{out: "all good"}
	s := NewCachedSummarizer(next, &memoryCache{entries: map[string]string{}}, "m")

	assert.Equal(t, "all good", s.Summarize(context.Background(), "reviews"))
	assert.Equal(t, "all good", s.Summarize(context.Background(), "reviews"))
	assert.Equal(t, 1, next.calls)
}

func TestCachedSummarizer_DoesNotCacheFailures(t *testing.T) {
	next := &countingSummarizer{out: FailureMessage(errors.New("timeout"))}
	s := NewCachedSummarizer(next, &memoryCache{entries: map[string]string{}}, "m")

	s.Summarize(context.Background(), "reviews")
	s.Summarize(context.Background(), "reviews")
	assert.Equal(t, 2, next.calls)
}

func TestBatchReviewText(t *testing.T) {
	reviews := make([]domain.EnrichedReview, 60)
	for i := range reviews {
		reviews[i].Text = "r"
	}

	assert.Equal(t, 50, len(strings.Split(BatchReviewText(reviews, 0), "\n")))
	assert.Equal(t, "r\nr", BatchReviewText(reviews, 2))
	assert.Equal(t, "", BatchReviewText(nil, 10))
}
