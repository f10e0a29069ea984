package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeflow/internal/config"
	"resumeflow/internal/generation"
	"resumeflow/internal/generation/openai"
	"resumeflow/internal/port"
)

func newTestGenerator(url string) *openai.Generator {
	return openai.NewGeneratorWithEndpoint(&config.GenerationProviderConfig{
		Provider:     "openai",
		APIKey:       "test-key",
		DefaultModel: "llama-3.3-70b-versatile",
		TimeoutSecs:  5,
	}, url)
}

func TestOpenAIGenerator_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
		assert.Equal(t, float64(500), body["max_tokens"])
		assert.Equal(t, map[string]interface{}{"type": "json_object"}, body["response_format"])

		messages := body["messages"].([]interface{})
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
		assert.Equal(t, "is this a resume?", messages[1].(map[string]interface{})["content"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "llama-3.3-70b-versatile",
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": `{"is_resume":true}`}, "finish_reason": "stop"},
			},
		})
	}))
	defer server.Close()

	out, err := newTestGenerator(server.URL).Complete(context.Background(), port.CompletionRequest{
		System:    "be terse",
		Prompt:    "is this a resume?",
		MaxTokens: 500,
		JSON:      true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"is_resume":true}`, out.Text)
	assert.Equal(t, "llama-3.3-70b-versatile", out.ModelUsed)
}

func TestOpenAIGenerator_Complete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Complete(context.Background(), port.CompletionRequest{Prompt: "hi"})

	var rlErr *generation.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, 12*time.Second, rlErr.RetryAfter)
}

func TestOpenAIGenerator_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Complete(context.Background(), port.CompletionRequest{Prompt: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestOpenAIGenerator_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Complete(context.Background(), port.CompletionRequest{Prompt: "hi"})

	assert.ErrorContains(t, err, "no choices")
}
