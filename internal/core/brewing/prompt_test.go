package brewing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptDeterministic(t *testing.T) {
	a := BuildPrompt("Hario V60", 18.5, true, "淺焙豆")
	b := BuildPrompt("Hario V60", 18.5, true, "淺焙豆")
	assert.Equal(t, a, b)
}

func TestBuildPromptContents(t *testing.T) {
	p := BuildPrompt("Hario V60", 18.5, true, "淺焙豆")
	assert.Contains(t, p, "Hario V60")
	assert.Contains(t, p, "18.5")
	assert.Contains(t, p, "淺焙豆")
	assert.Contains(t, p, `"recipes"`)
	assert.Contains(t, p, "恰好 3 份")
}

func TestBuildPromptOmitsEmptyComment(t *testing.T) {
	p := BuildPrompt("Hario V60", 18.5, true, "   ")
	assert.NotContains(t, p, "使用者備註")
}

func TestBuildPromptFixedTemperatureDirective(t *testing.T) {
	adjustable := BuildPrompt("Hario V60", 18.5, true, "")
	fixed := BuildPrompt("Hario V60", 18.5, false, "")
	assert.NotContains(t, adjustable, "一律填 100")
	assert.Contains(t, fixed, "一律填 100")
}

func TestBuildRetryPromptExtendsBasePrompt(t *testing.T) {
	base := BuildPrompt("Hario V60", 18.5, true, "")
	retry := BuildRetryPrompt("Hario V60", 18.5, true, "")
	assert.True(t, strings.HasPrefix(retry, base))
	assert.Contains(t, retry, "互不相同")
}
