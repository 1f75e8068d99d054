package brewing

// signature 候選食譜的五欄參數組
// 完全相等才算重複，任何一個欄位差一個單位即視為不同
type signature struct {
	coffee      float64
	water       float64
	ratioCoffee int
	ratioWater  int
	temperature int
}

// AreDistinct 檢查候選食譜的參數組是否兩兩相異
func AreDistinct(candidates []CandidateRecipe) bool {
	seen := make(map[signature]struct{}, len(candidates))
	for _, c := range candidates {
		seen[signature{
			coffee:      c.CoffeeAmountGrams,
			water:       c.WaterAmountGrams,
			ratioCoffee: c.RatioCoffee,
			ratioWater:  c.RatioWater,
			temperature: c.TemperatureCelsius,
		}] = struct{}{}
	}
	return len(seen) == len(candidates)
}
