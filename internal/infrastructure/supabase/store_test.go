package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brew-recipe-generator/internal/core/brewing"
	"brew-recipe-generator/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Supabase: config.SupabaseConfig{
			URL:        srv.URL,
			AnonKey:    "test-anon-key",
			ServiceKey: "test-service-key",
			Timeout:    5 * time.Second,
		},
	}
	return NewStore(NewClient(cfg))
}

func TestGetBrewingRequestFound(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/generation_requests", r.URL.Path)
		assert.Equal(t, "eq.req-1", r.URL.Query().Get("id"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"req-1","owner_id":"user-1","brew_method_id":"m1","coffee_amount_grams":18.5,"temperature_adjustable":true}]`))
	}))

	row, err := store.GetBrewingRequest(context.Background(), "req-1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "req-1", row.ID)
	assert.Equal(t, "user-1", row.OwnerID)
	assert.Equal(t, 18.5, row.CoffeeAmountGrams)
	assert.True(t, row.TemperatureAdjustable)
}

func TestGetBrewingRequestAbsent(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))

	// 查無資料列回傳 (nil, nil)，NOT_FOUND 的轉換是協調器的責任
	row, err := store.GetBrewingRequest(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestGetBrewMethodAbsent(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))

	row, err := store.GetBrewMethod(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestInsertRecipesRoundTrip(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/recipes", r.URL.Path)

		var payload []brewing.PersistedRecipe
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload, 3)
		for _, row := range payload {
			assert.Equal(t, brewing.RecipeStatusDraft, row.Status)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(payload)
	}))

	in := []brewing.PersistedRecipe{
		{ID: "r1", Status: brewing.RecipeStatusDraft, TemperatureCelsius: 92},
		{ID: "r2", Status: brewing.RecipeStatusDraft, TemperatureCelsius: 90},
		{ID: "r3", Status: brewing.RecipeStatusDraft, TemperatureCelsius: 88},
	}
	out, err := store.InsertRecipes(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "r1", out[0].ID)
	assert.Equal(t, 92, out[0].TemperatureCelsius)
}

func TestListBrewingRequestsFiltersByOwner(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.user-1", r.URL.Query().Get("owner_id"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"req-2","owner_id":"user-1"},{"id":"req-1","owner_id":"user-1"}]`))
	}))

	rows, err := store.ListBrewingRequests(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "req-2", rows[0].ID)
}

func TestListBrewMethodsOrderedByName(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/brew_methods", r.URL.Path)
		assert.Equal(t, "name.asc", r.URL.Query().Get("order"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"m2","name":"Aeropress","slug":"aeropress"},{"id":"m1","name":"Hario V60","slug":"v60"}]`))
	}))

	rows, err := store.ListBrewMethods(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Aeropress", rows[0].Name)
}
