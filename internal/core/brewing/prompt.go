package brewing

import (
	"fmt"
	"strings"
)

// BuildPrompt 將沖煮請求參數轉換為模型指令
// 純函式：相同輸入必定產生相同字串
func BuildPrompt(methodName string, coffeeAmountGrams float64, temperatureAdjustable bool, userComment string) string {
	var sb strings.Builder
	sb.WriteString("你是一位專業的手沖咖啡師，請為使用者設計咖啡沖煮食譜。\n")
	sb.WriteString(fmt.Sprintf("沖煮方式：%s\n", methodName))
	sb.WriteString(fmt.Sprintf("咖啡粉量：%.1f 克\n", coffeeAmountGrams))
	if strings.TrimSpace(userComment) != "" {
		sb.WriteString(fmt.Sprintf("使用者備註：%s\n", strings.TrimSpace(userComment)))
	}
	sb.WriteString("要求：\n")
	sb.WriteString("1. 必須提供恰好 3 份食譜：第 1 份是標準基準食譜，第 2、3 份是明顯不同的替代方案\n")
	sb.WriteString("2. 每份替代方案至少要有一個參數與基準食譜不同\n")
	sb.WriteString("3. ratio_coffee 與 ratio_water 必須是不小於 1 的整數\n")
	sb.WriteString("4. temperature_celsius 必須是 0 到 100 之間的整數\n")
	if !temperatureAdjustable {
		sb.WriteString("5. 使用者的設備不能調整水溫，所有食譜的 temperature_celsius 一律填 100\n")
	}
	sb.WriteString("只回傳單一 JSON 物件，不要包含其他文字或程式碼區塊標記，格式如下（僅作為範例，請勿直接複製內容）：\n")
	sb.WriteString(`{"recipes":[{"coffee_amount_grams":18.0,"water_amount_grams":270.0,"ratio_coffee":1,"ratio_water":15,"temperature_celsius":92,"assistant_tip":"給使用者的沖煮建議"},{...},{...}]}`)
	sb.WriteString("\n")
	return sb.String()
}

// BuildRetryPrompt 重新生成時使用的指令，額外要求三份食譜參數組合互不相同
func BuildRetryPrompt(methodName string, coffeeAmountGrams float64, temperatureAdjustable bool, userComment string) string {
	var sb strings.Builder
	sb.WriteString(BuildPrompt(methodName, coffeeAmountGrams, temperatureAdjustable, userComment))
	sb.WriteString("注意：上一次生成的三份食譜參數完全相同，不符合要求。\n")
	sb.WriteString("這次三份食譜的參數組合（粉量、水量、比例、水溫）必須互不相同，至少要有一個欄位不同。\n")
	return sb.String()
}
