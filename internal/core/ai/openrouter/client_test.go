package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"brew-recipe-generator/internal/infrastructure/config"
	"brew-recipe-generator/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func testClient(t *testing.T, handler http.Handler, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		OpenRouter: config.OpenRouterConfig{
			APIKey:    "test-api-key",
			Model:     "google/gemini-2.0-flash-001",
			MaxTokens: 1500,
			Timeout:   timeout,
			Referer:   "https://brew-recipe-generator.com",
			Title:     "Brew Recipe Generator",
		},
	}
	c := NewClient(cfg)
	// 測試時把端點指向本地服務器
	c.client.SetBaseURL(srv.URL)
	return c
}

func TestCompleteSuccess(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "Brew Recipe Generator", r.Header.Get("X-Title"))

		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			MaxTokens int `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "google/gemini-2.0-flash-001", payload.Model)
		require.Len(t, payload.Messages, 1)
		assert.Equal(t, "user", payload.Messages[0].Role)
		assert.Equal(t, "請生成食譜", payload.Messages[0].Content)
		assert.Equal(t, 1500, payload.MaxTokens)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"recipes\":[]}"}}]}`))
	}), 5*time.Second)

	got, err := client.Complete(context.Background(), "請生成食譜")
	require.NoError(t, err)
	assert.Equal(t, `{"recipes":[]}`, got)
}

func TestCompleteNonOKStatus(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}), 5*time.Second)

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteEmptyChoices(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}), 5*time.Second)

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestCompleteEmptyContent(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
	}), 5*time.Second)

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
}

func TestCompleteTimeout(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
	}), 20*time.Millisecond)

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
}
