package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenAIClient_GenerateResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "[{\"a\": 1}]"}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5}
		}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(&Config{
		Endpoint: server.URL,
		Model:    "test-model",
		APIKey:   "test-key",
	}, zap.NewNop())
	require.NoError(t, err)

	content, err := client.GenerateResponse(context.Background(), "map these", "you are a mapper", 0.1)
	require.NoError(t, err)
	assert.Equal(t, `[{"a": 1}]`, content)
}

func TestOpenAIClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(&Config{
		Endpoint: server.URL,
		Model:    "test-model",
		APIKey:   "bad-key",
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.GenerateResponse(context.Background(), "map these", "system", 0.1)
	require.Error(t, err)
}

func TestOpenAIClient_Accessors(t *testing.T) {
	client, err := NewOpenAIClient(&Config{
		Endpoint: "https://api.openai.com/v1",
		Model:    "gpt-4o-mini",
		APIKey:   "k",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", client.GetModel())
	assert.Equal(t, "https://api.openai.com/v1", client.GetEndpoint())
}
