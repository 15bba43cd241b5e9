package cartoons

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_WithUserText(t *testing.T) {
	prompt := BuildPrompt("a fluffy maltese chasing a ball", "birthday party")

	assert.True(t, strings.HasPrefix(prompt, "Create a 4-panel comic strip in a single image based on this description: a fluffy maltese chasing a ball"))
	assert.Contains(t, prompt, "- 2x2 grid layout")
	assert.Contains(t, prompt, "- bright cheerful colors")
	assert.Contains(t, prompt, "User's story theme: birthday party")
	assert.NotContains(t, prompt, "heartwarming daily adventure")
}

func TestBuildPrompt_DefaultTheme(t *testing.T) {
	prompt := BuildPrompt("a sleepy corgi", "")

	assert.Contains(t, prompt, "Create a heartwarming daily adventure story.")
	assert.NotContains(t, prompt, "User's story theme")
}

func TestBuildPrompt_BlankUserTextFallsBack(t *testing.T) {
	prompt := BuildPrompt("a sleepy corgi", "   ")
	assert.Contains(t, prompt, "Create a heartwarming daily adventure story.")
}
