package brewing

import (
	"context"
	"fmt"
	"math"

	"brew-recipe-generator/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 資料列閘道，由 infrastructure 層實作
// 查無資料列時回傳 (nil, nil)，由協調器轉換成 NOT_FOUND
type Store interface {
	GetBrewingRequest(ctx context.Context, id string) (*BrewingRequest, error)
	GetBrewMethod(ctx context.Context, id string) (*BrewMethod, error)
	InsertBrewingRequest(ctx context.Context, row BrewingRequest) (*BrewingRequest, error)
	InsertRecipes(ctx context.Context, rows []PersistedRecipe) ([]PersistedRecipe, error)
	ListBrewingRequests(ctx context.Context, ownerID string) ([]BrewingRequest, error)
	ListBrewMethods(ctx context.Context) ([]BrewMethod, error)
}

// ModelProvider 模型補全閘道，超時控制在閘道內部完成
type ModelProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ReferenceCache 參考資料快取，任何錯誤一律視為未命中
type ReferenceCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Service 食譜生成協調器
// 每次呼叫都是獨立的單趟流程，不在呼叫之間保留任何狀態
type Service struct {
	store Store
	model ModelProvider
	cache ReferenceCache
}

// NewService 創建生成協調器
func NewService(store Store, model ModelProvider, cache ReferenceCache) *Service {
	return &Service{
		store: store,
		model: model,
		cache: cache,
	}
}

// Generate 為指定的沖煮請求生成並持久化 3 份草稿食譜
// 流程：載入請求與沖煮方式 → 組指令 → 呼叫模型 → 解析 → 正規化 → 相異性檢查
// （重複時恰好重試一次）→ 批次寫入 → 回傳請求與食譜
func (s *Service) Generate(ctx context.Context, ownerID, requestID string) (*GenerationResult, error) {
	// 載入沖煮請求
	req, err := s.store.GetBrewingRequest(ctx, requestID)
	if err != nil {
		return nil, common.ErrInternalError.WithDetail(err)
	}
	if req == nil {
		return nil, common.ErrRequestNotFound
	}

	// 擁有者檢查：失敗時不得觸發任何模型呼叫
	if req.OwnerID != ownerID {
		return nil, common.ErrNotRequestOwner
	}

	// 載入沖煮方式
	method, err := s.loadBrewMethod(ctx, req.BrewMethodID)
	if err != nil {
		return nil, err
	}

	// 生成候選食譜，候選重複時恰好重試一次
	accepted, err := s.generateCandidates(ctx, req, method)
	if err != nil {
		return nil, err
	}

	// 批次寫入草稿食譜
	rows := make([]PersistedRecipe, 0, GeneratedCount)
	now := common.NowUTC()
	for _, c := range accepted {
		rows = append(rows, PersistedRecipe{
			ID:                 common.GenerateUUID(),
			OwnerID:            ownerID,
			BrewingRequestID:   req.ID,
			BrewMethodID:       req.BrewMethodID,
			CoffeeAmountGrams:  c.CoffeeAmountGrams,
			WaterAmountGrams:   c.WaterAmountGrams,
			RatioCoffee:        c.RatioCoffee,
			RatioWater:         c.RatioWater,
			TemperatureCelsius: c.TemperatureCelsius,
			AssistantTip:       c.AssistantTip,
			Status:             RecipeStatusDraft,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}

	saved, err := s.store.InsertRecipes(ctx, rows)
	if err != nil {
		return nil, common.ErrPersistenceFailure.WithDetail(err)
	}
	if len(saved) != GeneratedCount {
		return nil, common.ErrPersistenceFailure.WithDetail(
			fmt.Errorf("insert returned %d rows, expected %d", len(saved), GeneratedCount))
	}

	common.LogInfo("食譜生成完成",
		zap.String("generation_request_id", req.ID),
		zap.String("brew_method", method.Slug),
		zap.Int("recipes", len(saved)),
	)

	return &GenerationResult{
		Request: req,
		Recipes: saved,
	}, nil
}

// generateCandidates 執行生成迴圈
// 明確的兩輪迴圈：只有相異性檢查失敗會觸發第二輪，解析或數量錯誤直接失敗
func (s *Service) generateCandidates(ctx context.Context, req *BrewingRequest, method *BrewMethod) ([]CandidateRecipe, error) {
	for attempt := 0; attempt < 2; attempt++ {
		var prompt string
		if attempt == 0 {
			prompt = BuildPrompt(method.Name, req.CoffeeAmountGrams, req.TemperatureAdjustable, req.UserComment)
		} else {
			prompt = BuildRetryPrompt(method.Name, req.CoffeeAmountGrams, req.TemperatureAdjustable, req.UserComment)
		}

		raw, err := s.model.Complete(ctx, prompt)
		if err != nil {
			return nil, common.ErrInternalError.WithDetail(fmt.Errorf("model call failed: %w", err))
		}

		candidates, ok := ParseCandidates(raw)
		if !ok {
			return nil, common.ErrModelOutputInvalid.WithDetail(fmt.Errorf("model response is not valid candidate JSON"))
		}
		if len(candidates) != GeneratedCount {
			return nil, common.ErrModelOutputInvalid.WithDetail(
				fmt.Errorf("model returned %d candidates, expected %d", len(candidates), GeneratedCount))
		}

		normalized := NormalizeCandidates(candidates, req.TemperatureAdjustable)
		if len(normalized) != GeneratedCount {
			return nil, common.ErrModelOutputInvalid.WithDetail(
				fmt.Errorf("%d of %d candidates survived normalization", len(normalized), GeneratedCount))
		}

		if AreDistinct(normalized) {
			return normalized, nil
		}

		if attempt == 0 {
			common.LogWarn("候選食譜參數重複，重新生成一次",
				zap.String("generation_request_id", req.ID),
			)
		}
	}

	return nil, common.ErrModelOutputInvalid.WithDetail(
		fmt.Errorf("candidates are not distinct after retry"))
}

// loadBrewMethod 先查快取，未命中再回源查資料列
func (s *Service) loadBrewMethod(ctx context.Context, id string) (*BrewMethod, error) {
	key := "brew_method:" + id
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, key); err == nil && val != "" {
			var m BrewMethod
			if err := common.ParseJSON(val, &m); err == nil {
				return &m, nil
			}
		}
	}

	method, err := s.store.GetBrewMethod(ctx, id)
	if err != nil {
		return nil, common.ErrInternalError.WithDetail(err)
	}
	if method == nil {
		return nil, common.ErrBrewMethodNotFound
	}

	if s.cache != nil {
		if data, err := common.ToJSON(method); err == nil {
			_ = s.cache.Set(ctx, key, data)
		}
	}
	return method, nil
}

// CreateRequest 建立沖煮請求（生成的前置操作）
func (s *Service) CreateRequest(ctx context.Context, ownerID, brewMethodID string, coffeeAmountGrams float64, temperatureAdjustable bool, userComment string) (*BrewingRequest, error) {
	// 沖煮方式必須存在
	if _, err := s.loadBrewMethod(ctx, brewMethodID); err != nil {
		return nil, err
	}

	row := BrewingRequest{
		ID:                    common.GenerateUUID(),
		OwnerID:               ownerID,
		BrewMethodID:          brewMethodID,
		CoffeeAmountGrams:     math.Round(coffeeAmountGrams*10) / 10, // 保留 1 位小數
		TemperatureAdjustable: temperatureAdjustable,
		UserComment:           userComment,
		CreatedAt:             common.NowUTC(),
	}

	saved, err := s.store.InsertBrewingRequest(ctx, row)
	if err != nil {
		return nil, common.ErrPersistenceFailure.WithDetail(err)
	}
	if saved == nil {
		return nil, common.ErrPersistenceFailure.WithDetail(fmt.Errorf("insert returned no row"))
	}
	return saved, nil
}

// ListRequests 列出呼叫者自己的沖煮請求
func (s *Service) ListRequests(ctx context.Context, ownerID string) ([]BrewingRequest, error) {
	rows, err := s.store.ListBrewingRequests(ctx, ownerID)
	if err != nil {
		return nil, common.ErrInternalError.WithDetail(err)
	}
	return rows, nil
}

// ListMethods 列出所有沖煮方式
func (s *Service) ListMethods(ctx context.Context) ([]BrewMethod, error) {
	rows, err := s.store.ListBrewMethods(ctx)
	if err != nil {
		return nil, common.ErrInternalError.WithDetail(err)
	}
	return rows, nil
}
