package brewing

import (
	"brew-recipe-generator/internal/pkg/common"
)

// RawCandidate 模型回傳的未驗證候選食譜
// 數值欄位使用指標以區分「缺漏」與「零值」，缺漏的欄位交由正規化階段淘汰
type RawCandidate struct {
	CoffeeAmountGrams  *float64 `json:"coffee_amount_grams"`
	WaterAmountGrams   *float64 `json:"water_amount_grams"`
	RatioCoffee        *float64 `json:"ratio_coffee"`
	RatioWater         *float64 `json:"ratio_water"`
	TemperatureCelsius *float64 `json:"temperature_celsius"`
	AssistantTip       string   `json:"assistant_tip"`
}

// candidatePayload 模型回應的外層結構
type candidatePayload struct {
	Recipes []RawCandidate `json:"recipes"`
}

// ParseCandidates 從模型原始回應中擷取候選食譜列表
// 解析失敗一律回傳 (nil, false)，呼叫端必須視為無效回應，不得讓錯誤越過此邊界
func ParseCandidates(raw string) ([]RawCandidate, bool) {
	text := common.StripCodeFence(raw)
	text = common.ExtractJSONObject(text)
	if text == "" {
		return nil, false
	}

	var payload candidatePayload
	if err := common.ParseJSON(text, &payload); err != nil {
		return nil, false
	}
	if payload.Recipes == nil {
		return nil, false
	}
	return payload.Recipes, true
}
