package brewing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"brew-recipe-generator/internal/api/middleware"
	brewingService "brew-recipe-generator/internal/core/brewing"
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

const (
	testOwnerID   = "7a9c1a39-25b2-4e44-9c09-0e4f1a6d4c11"
	testRequestID = "req-0001"
	testMethodID  = "method-v60"
	testToken     = "valid-token"
)

// stubVerifier 只接受固定令牌的身份驗證替身
type stubVerifier struct{}

func (stubVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	if token == testToken {
		return testOwnerID, nil
	}
	return "", common.ErrUnauthorized
}

// stubStore 以固定資料列回應的資料閘道替身
type stubStore struct {
	request  *brewingService.BrewingRequest
	method   *brewingService.BrewMethod
	inserted [][]brewingService.PersistedRecipe
}

func (s *stubStore) GetBrewingRequest(ctx context.Context, id string) (*brewingService.BrewingRequest, error) {
	if s.request != nil && s.request.ID == id {
		return s.request, nil
	}
	return nil, nil
}

func (s *stubStore) GetBrewMethod(ctx context.Context, id string) (*brewingService.BrewMethod, error) {
	if s.method != nil && s.method.ID == id {
		return s.method, nil
	}
	return nil, nil
}

func (s *stubStore) InsertBrewingRequest(ctx context.Context, row brewingService.BrewingRequest) (*brewingService.BrewingRequest, error) {
	saved := row
	return &saved, nil
}

func (s *stubStore) InsertRecipes(ctx context.Context, rows []brewingService.PersistedRecipe) ([]brewingService.PersistedRecipe, error) {
	s.inserted = append(s.inserted, rows)
	return rows, nil
}

func (s *stubStore) ListBrewingRequests(ctx context.Context, ownerID string) ([]brewingService.BrewingRequest, error) {
	return []brewingService.BrewingRequest{}, nil
}

func (s *stubStore) ListBrewMethods(ctx context.Context) ([]brewingService.BrewMethod, error) {
	if s.method != nil {
		return []brewingService.BrewMethod{*s.method}, nil
	}
	return []brewingService.BrewMethod{}, nil
}

// stubModel 永遠回傳同一份補全內容
type stubModel struct {
	response string
	calls    int
}

func (m *stubModel) Complete(ctx context.Context, prompt string) (string, error) {
	m.calls++
	return m.response, nil
}

const distinctResponse = `{"recipes":[` +
	`{"coffee_amount_grams":18.5,"water_amount_grams":270,"ratio_coffee":1,"ratio_water":15,"temperature_celsius":92,"assistant_tip":"a"},` +
	`{"coffee_amount_grams":18.5,"water_amount_grams":280,"ratio_coffee":1,"ratio_water":16,"temperature_celsius":90,"assistant_tip":"b"},` +
	`{"coffee_amount_grams":18.5,"water_amount_grams":290,"ratio_coffee":1,"ratio_water":17,"temperature_celsius":88,"assistant_tip":"c"}]}`

func newTestRouter(store *stubStore, model *stubModel) *gin.Engine {
	svc := brewingService.NewService(store, model, nil)
	handler := NewHandler(svc)

	r := gin.New()
	group := r.Group("/api/v1/brewing")
	group.Use(middleware.RequireAuth(stubVerifier{}))
	group.POST("/requests", handler.HandleCreateRequest)
	group.GET("/requests", handler.HandleListRequests)
	group.GET("/methods", handler.HandleListMethods)
	group.POST("/generate", handler.HandleGenerate)
	return r
}

func defaultStore() *stubStore {
	return &stubStore{
		request: &brewingService.BrewingRequest{
			ID:                    testRequestID,
			OwnerID:               testOwnerID,
			BrewMethodID:          testMethodID,
			CoffeeAmountGrams:     18.5,
			TemperatureAdjustable: true,
		},
		method: &brewingService.BrewMethod{
			ID:   testMethodID,
			Name: "Hario V60",
			Slug: "v60",
		},
	}
}

func doRequest(router *gin.Engine, method, path, body string, authed bool) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestHandleGenerateSuccess(t *testing.T) {
	store := defaultStore()
	model := &stubModel{response: distinctResponse}
	router := newTestRouter(store, model)

	w := doRequest(router, http.MethodPost, "/api/v1/brewing/generate",
		`{"generation_request_id":"`+testRequestID+`"}`, true)

	require.Equal(t, http.StatusOK, w.Code)

	var result brewingService.GenerationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.Request)
	assert.Equal(t, testRequestID, result.Request.ID)
	require.Len(t, result.Recipes, 3)
	for _, r := range result.Recipes {
		assert.Equal(t, brewingService.RecipeStatusDraft, r.Status)
		assert.Equal(t, testOwnerID, r.OwnerID)
	}
}

func TestHandleGenerateMissingAuth(t *testing.T) {
	store := defaultStore()
	model := &stubModel{response: distinctResponse}
	router := newTestRouter(store, model)

	w := doRequest(router, http.MethodPost, "/api/v1/brewing/generate",
		`{"generation_request_id":"`+testRequestID+`"}`, false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeUnauthorized)
	// 驗證失敗時不得觸發任何模型呼叫
	assert.Zero(t, model.calls)
}

func TestHandleGenerateMissingRequestID(t *testing.T) {
	router := newTestRouter(defaultStore(), &stubModel{response: distinctResponse})

	w := doRequest(router, http.MethodPost, "/api/v1/brewing/generate", `{}`, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeInvalidRequest)
}

func TestHandleGenerateUnknownRequest(t *testing.T) {
	router := newTestRouter(defaultStore(), &stubModel{response: distinctResponse})

	w := doRequest(router, http.MethodPost, "/api/v1/brewing/generate",
		`{"generation_request_id":"missing"}`, true)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeNotFound)
}

func TestHandleGenerateNotOwner(t *testing.T) {
	store := defaultStore()
	store.request.OwnerID = "someone-else"
	model := &stubModel{response: distinctResponse}
	router := newTestRouter(store, model)

	w := doRequest(router, http.MethodPost, "/api/v1/brewing/generate",
		`{"generation_request_id":"`+testRequestID+`"}`, true)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeForbidden)
	assert.Zero(t, model.calls)
}

func TestHandleGenerateInvalidModelOutput(t *testing.T) {
	store := defaultStore()
	router := newTestRouter(store, &stubModel{response: "抱歉，我無法生成食譜。"})

	w := doRequest(router, http.MethodPost, "/api/v1/brewing/generate",
		`{"generation_request_id":"`+testRequestID+`"}`, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeModelOutputInvalid)
	assert.Empty(t, store.inserted)
}

func TestHandleCreateRequest(t *testing.T) {
	router := newTestRouter(defaultStore(), &stubModel{})

	w := doRequest(router, http.MethodPost, "/api/v1/brewing/requests",
		`{"brew_method_id":"`+testMethodID+`","coffee_amount":18.5,"can_adjust_temperature":true,"user_comment":"淺焙豆"}`, true)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Request brewingService.BrewingRequest `json:"generation_request"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testOwnerID, resp.Request.OwnerID)
	assert.Equal(t, 18.5, resp.Request.CoffeeAmountGrams)
	assert.NotEmpty(t, resp.Request.ID)
}

func TestHandleCreateRequestValidation(t *testing.T) {
	router := newTestRouter(defaultStore(), &stubModel{})

	cases := []struct {
		name string
		body string
	}{
		{"缺少沖煮方式", `{"coffee_amount":18.5,"can_adjust_temperature":true}`},
		{"粉量為零", `{"brew_method_id":"` + testMethodID + `","coffee_amount":0,"can_adjust_temperature":true}`},
		{"缺少調溫欄位", `{"brew_method_id":"` + testMethodID + `","coffee_amount":18.5}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/v1/brewing/requests", tc.body, true)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleListMethods(t *testing.T) {
	router := newTestRouter(defaultStore(), &stubModel{})

	w := doRequest(router, http.MethodGet, "/api/v1/brewing/methods", "", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hario V60")
}

func TestHandleListRequests(t *testing.T) {
	router := newTestRouter(defaultStore(), &stubModel{})

	w := doRequest(router, http.MethodGet, "/api/v1/brewing/requests", "", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "generation_requests")
}
