package brewing

import (
	"time"
)

// 資料列集合名稱
const (
	TableGenerationRequests = "generation_requests"
	TableBrewMethods        = "brew_methods"
	TableRecipes            = "recipes"
)

// RecipeStatusDraft 剛產生的食譜一律為草稿狀態，後續狀態轉換由客戶端負責
const RecipeStatusDraft = "draft"

// GeneratedCount 每次生成必須恰好存活的候選數量
const GeneratedCount = 3

// BrewingRequest 沖煮請求，建立後不可變，僅作為生成輸入
type BrewingRequest struct {
	ID                    string    `json:"id"`
	OwnerID               string    `json:"owner_id"`
	BrewMethodID          string    `json:"brew_method_id"`
	CoffeeAmountGrams     float64   `json:"coffee_amount_grams"`
	TemperatureAdjustable bool      `json:"temperature_adjustable"`
	UserComment           string    `json:"user_comment,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// BrewMethod 沖煮方式，唯讀參考資料
type BrewMethod struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// CandidateRecipe 正規化後的候選食譜，持久化之前不存在於任何資料列
type CandidateRecipe struct {
	CoffeeAmountGrams  float64 `json:"coffee_amount_grams"`
	WaterAmountGrams   float64 `json:"water_amount_grams"`
	RatioCoffee        int     `json:"ratio_coffee"`
	RatioWater         int     `json:"ratio_water"`
	TemperatureCelsius int     `json:"temperature_celsius"`
	AssistantTip       string  `json:"assistant_tip,omitempty"`
}

// PersistedRecipe 已寫入的食譜資料列
type PersistedRecipe struct {
	ID                 string    `json:"id"`
	OwnerID            string    `json:"owner_id"`
	BrewingRequestID   string    `json:"brewing_request_id"`
	BrewMethodID       string    `json:"brew_method_id"`
	CoffeeAmountGrams  float64   `json:"coffee_amount_grams"`
	WaterAmountGrams   float64   `json:"water_amount_grams"`
	RatioCoffee        int       `json:"ratio_coffee"`
	RatioWater         int       `json:"ratio_water"`
	TemperatureCelsius int       `json:"temperature_celsius"`
	AssistantTip       string    `json:"assistant_tip,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// GenerationResult 生成成功的完整回應
type GenerationResult struct {
	Request *BrewingRequest   `json:"generation_request"`
	Recipes []PersistedRecipe `json:"recipes"`
}
