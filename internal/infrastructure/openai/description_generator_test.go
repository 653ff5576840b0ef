package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaptext/internal/infrastructure/metrics"
)

type capturedRequest struct {
	Model               string  `json:"model"`
	Temperature         float64 `json:"temperature"`
	TopP                float64 `json:"top_p"`
	MaxCompletionTokens int     `json:"max_completion_tokens"`
	ResponseFormat      struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL struct {
				URL string `json:"url"`
			} `json:"image_url"`
		} `json:"content"`
	} `json:"messages"`
}

func newServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGenerator(srv *httptest.Server) *DescriptionGenerator {
	return NewDescriptionGenerator(Config{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1",
		Timeout: 5 * time.Second,
	})
}

func TestGenerateSendsImagesWithFixedSampling(t *testing.T) {
	var captured capturedRequest
	srv := newServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [
			{"index": 0, "message": {"role": "assistant", "content": "<h1>Silk top</h1>"}, "finish_reason": "stop"},
			{"index": 1, "message": {"role": "assistant", "content": "<h1>Other</h1>"}, "finish_reason": "stop"}
		]
	}`, &captured)

	before := testutil.ToFloat64(metrics.DescriptionGenerations.WithLabelValues("success"))

	urls := []string{"https://img.example/a.png", "https://img.example/b.png"}
	description, ok := newGenerator(srv).Generate(context.Background(), "users/u1/abc", urls)

	require.True(t, ok)
	assert.Equal(t, "<h1>Silk top</h1>", description)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DescriptionGenerations.WithLabelValues("success")))

	assert.Equal(t, "gpt-4o-mini", captured.Model)
	assert.Equal(t, 1.0, captured.Temperature)
	assert.Equal(t, 1.0, captured.TopP)
	assert.Equal(t, 2048, captured.MaxCompletionTokens)
	assert.Equal(t, "text", captured.ResponseFormat.Type)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	require.Len(t, captured.Messages[0].Content, 1)
	assert.Contains(t, captured.Messages[0].Content[0].Text, "140 characters max")
	assert.Contains(t, captured.Messages[0].Content[0].Text, "up to 13 tags")

	assert.Equal(t, "user", captured.Messages[1].Role)
	require.Len(t, captured.Messages[1].Content, 2)
	for i, part := range captured.Messages[1].Content {
		assert.Equal(t, "image_url", part.Type)
		assert.Equal(t, urls[i], part.ImageURL.URL)
	}
}

func TestGenerateNoChoices(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`, nil)
	before := testutil.ToFloat64(metrics.DescriptionGenerations.WithLabelValues("empty"))

	description, ok := newGenerator(srv).Generate(context.Background(), "users/u1/abc", []string{"https://img.example/a.png"})

	assert.False(t, ok)
	assert.Empty(t, description)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DescriptionGenerations.WithLabelValues("empty")))
}

func TestGenerateAPIErrorIsSwallowed(t *testing.T) {
	srv := newServer(t, http.StatusBadRequest, `{"error": {"message": "Invalid image URL", "type": "invalid_request_error", "code": "invalid_image_url"}}`, nil)
	before := testutil.ToFloat64(metrics.DescriptionGenerations.WithLabelValues("error"))

	description, ok := newGenerator(srv).Generate(context.Background(), "users/u1/abc", []string{"https://img.example/a.png"})

	assert.False(t, ok)
	assert.Empty(t, description)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DescriptionGenerations.WithLabelValues("error")))
}

func TestGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	gen := NewDescriptionGenerator(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Timeout: 50 * time.Millisecond})

	description, ok := gen.Generate(context.Background(), "users/u1/abc", []string{"https://img.example/a.png"})

	assert.False(t, ok)
	assert.Empty(t, description)
}

func TestNewDescriptionGeneratorDefaults(t *testing.T) {
	gen := NewDescriptionGenerator(Config{APIKey: "sk-test", Model: "", MaxCompletionTokens: 0})

	assert.Equal(t, DefaultModel, gen.model)
	assert.Equal(t, DefaultMaxCompletionTokens, gen.maxTokens)
}
