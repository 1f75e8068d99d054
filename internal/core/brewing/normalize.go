package brewing

import (
	"math"
)

// ForcedTemperature 不可調溫設備的固定水溫
const ForcedTemperature = 100

// NormalizeCandidates 驗證並修正每份候選食譜的數值欄位
// 欄位缺漏、非有限值或超出領域合法範圍的候選直接淘汰（非致命，僅過濾）
// 回傳的數量永遠不會超過輸入數量；是否恰好 3 份由協調器把關
func NormalizeCandidates(raw []RawCandidate, temperatureAdjustable bool) []CandidateRecipe {
	out := make([]CandidateRecipe, 0, len(raw))
	for _, c := range raw {
		if !allFinite(c.CoffeeAmountGrams, c.WaterAmountGrams, c.RatioCoffee, c.RatioWater, c.TemperatureCelsius) {
			continue
		}

		coffee := *c.CoffeeAmountGrams
		water := *c.WaterAmountGrams
		// 比例與水溫一律截斷為整數
		ratioCoffee := int(math.Trunc(*c.RatioCoffee))
		ratioWater := int(math.Trunc(*c.RatioWater))
		temperature := int(math.Trunc(*c.TemperatureCelsius))

		// 請求不允許調溫時，無論模型提出什麼水溫都強制設為固定值
		if !temperatureAdjustable {
			temperature = ForcedTemperature
		}

		if coffee < 0 || water < 0 {
			continue
		}
		if ratioCoffee < 1 || ratioWater < 1 {
			continue
		}
		if temperature < 0 || temperature > 100 {
			continue
		}

		out = append(out, CandidateRecipe{
			CoffeeAmountGrams:  coffee,
			WaterAmountGrams:   water,
			RatioCoffee:        ratioCoffee,
			RatioWater:         ratioWater,
			TemperatureCelsius: temperature,
			AssistantTip:       c.AssistantTip,
		})
	}
	return out
}

// allFinite 檢查所有欄位皆存在且為有限數值
func allFinite(values ...*float64) bool {
	for _, v := range values {
		if v == nil {
			return false
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return false
		}
	}
	return true
}
