package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pigeonhole-ngx/pigeonhole/internal/common"
)

func TestNewOpenAIClient_RequiresAPIKey(t *testing.T) {
	_, err := newOpenAIClient(Config{Provider: "openai"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestOpenAIClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)

		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`)
	}))
	t.Cleanup(server.Close)

	client := &openAIClient{
		apiKey:      "test-key",
		model:       "gpt-4o-mini",
		baseURL:     server.URL,
		temperature: 0.2,
		maxTokens:   256,
		httpClient:  &http.Client{Timeout: time.Second},
	}

	content, err := client.Complete(context.Background(), "classify this")

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, content)
}

func TestOpenAIClient_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited"}}`)
	}))
	t.Cleanup(server.Close)

	client := &openAIClient{
		apiKey:     "test-key",
		model:      "gpt-4o-mini",
		baseURL:    server.URL,
		httpClient: &http.Client{Timeout: time.Second},
	}

	_, err := client.Complete(context.Background(), "classify this")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRateLimit)
	assert.Contains(t, err.Error(), "status 429")
}

func TestOpenAIClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	t.Cleanup(server.Close)

	client := &openAIClient{
		apiKey:     "test-key",
		model:      "gpt-4o-mini",
		baseURL:    server.URL,
		httpClient: &http.Client{Timeout: time.Second},
	}

	_, err := client.Complete(context.Background(), "classify this")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no completion choices")
}
