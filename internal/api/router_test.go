package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"brew-recipe-generator/internal/infrastructure/config"
	"brew-recipe-generator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:     "test",
			Debug:   false,
			Version: "1.0.0",
		},
		Supabase: config.SupabaseConfig{
			URL:        "http://localhost:9999",
			AnonKey:    "test-anon-key",
			ServiceKey: "test-service-key",
			Timeout:    time.Second,
		},
		OpenRouter: config.OpenRouterConfig{
			APIKey:  "test-api-key",
			Model:   "google/gemini-2.0-flash-001",
			Timeout: time.Second,
		},
		RateLimit:   config.RateLimitConfig{Enabled: false},
		DedupWindow: time.Second,
	}
}

func TestSetupRouterHealthEndpoints(t *testing.T) {
	router, err := SetupRouter(testRouterConfig(), nil)
	require.NoError(t, err)

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestSetupRouterRejectsUnauthenticatedGenerate(t *testing.T) {
	router, err := SetupRouter(testRouterConfig(), nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/brewing/generate",
		strings.NewReader(`{"generation_request_id":"req-1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeUnauthorized)
}

func TestSetupRouterUnknownRoute(t *testing.T) {
	router, err := SetupRouter(testRouterConfig(), nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupRouterCORSPreflight(t *testing.T) {
	router, err := SetupRouter(testRouterConfig(), nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/brewing/generate", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
