package brewing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func candidate(coffee, water float64, ratioCoffee, ratioWater, temp int) CandidateRecipe {
	return CandidateRecipe{
		CoffeeAmountGrams:  coffee,
		WaterAmountGrams:   water,
		RatioCoffee:        ratioCoffee,
		RatioWater:         ratioWater,
		TemperatureCelsius: temp,
	}
}

func TestAreDistinct(t *testing.T) {
	base := candidate(18.5, 270, 1, 15, 92)

	t.Run("全部互異", func(t *testing.T) {
		assert.True(t, AreDistinct([]CandidateRecipe{
			base,
			candidate(18.5, 280, 1, 16, 90),
			candidate(18.5, 290, 1, 17, 88),
		}))
	})

	t.Run("兩份相同", func(t *testing.T) {
		assert.False(t, AreDistinct([]CandidateRecipe{
			base,
			base,
			candidate(18.5, 280, 1, 16, 90),
		}))
	})

	t.Run("三份相同", func(t *testing.T) {
		assert.False(t, AreDistinct([]CandidateRecipe{base, base, base}))
	})

	t.Run("僅單一欄位不同即視為相異", func(t *testing.T) {
		onlyTemp := base
		onlyTemp.TemperatureCelsius = 93
		onlyWater := base
		onlyWater.WaterAmountGrams = 271
		assert.True(t, AreDistinct([]CandidateRecipe{base, onlyTemp, onlyWater}))
	})

	t.Run("建議文字不影響相異性", func(t *testing.T) {
		a := base
		a.AssistantTip = "A"
		b := base
		b.AssistantTip = "B"
		assert.False(t, AreDistinct([]CandidateRecipe{a, b}))
	})

	t.Run("空列表", func(t *testing.T) {
		assert.True(t, AreDistinct(nil))
	})
}
