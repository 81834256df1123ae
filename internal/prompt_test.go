package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePromptData = PromptData{
	VideoURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	VideoID:     "dQw4w9WgXcQ",
	Style:       "short",
	Instruction: StyleShort.Instruction(),
}

func TestCreatePromptUsesEmbeddedTemplates(t *testing.T) {
	pm := NewPromptManager("", "")

	structured, err := pm.CreatePrompt(StrategyStructured, samplePromptData)
	require.NoError(t, err)
	assert.Contains(t, structured, "TRANSCRIPT:")
	assert.Contains(t, structured, "SUMMARY:")
	assert.Contains(t, structured, samplePromptData.VideoURL)
	assert.Contains(t, structured, samplePromptData.Instruction)

	simple, err := pm.CreatePrompt(StrategySimple, samplePromptData)
	require.NoError(t, err)
	assert.NotContains(t, simple, "TRANSCRIPT:")
	assert.Contains(t, simple, samplePromptData.VideoURL)
	assert.Contains(t, simple, samplePromptData.Instruction)
}

func TestCreatePromptPrefersConfigDirTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompt.txt"), []byte("structured {{.VideoID}}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompt_simple.txt"), []byte("simple {{.Style}}"), 0644))

	pm := NewPromptManager(dir, "")

	structured, err := pm.CreatePrompt(StrategyStructured, samplePromptData)
	require.NoError(t, err)
	assert.Equal(t, "structured dQw4w9WgXcQ", structured)

	simple, err := pm.CreatePrompt(StrategySimple, samplePromptData)
	require.NoError(t, err)
	assert.Equal(t, "simple short", simple)
}

func TestCustomPromptOverridesStructuredOnly(t *testing.T) {
	pm := NewPromptManager(t.TempDir(), "Summarize {{.VideoURL}} please")

	structured, err := pm.CreatePrompt(StrategyStructured, samplePromptData)
	require.NoError(t, err)
	assert.Equal(t, "Summarize https://www.youtube.com/watch?v=dQw4w9WgXcQ please", structured)

	simple, err := pm.CreatePrompt(StrategySimple, samplePromptData)
	require.NoError(t, err)
	assert.NotEqual(t, structured, simple)
}

func TestCustomPromptFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file: {{.Instruction}}"), 0644))

	prompt, err := NewPromptManager("", path).CreatePrompt(StrategyStructured, samplePromptData)
	require.NoError(t, err)
	assert.Equal(t, "from file: "+StyleShort.Instruction(), prompt)
}

func TestCreatePromptRejectsBrokenTemplate(t *testing.T) {
	_, err := NewPromptManager("", "Summarize {{.VideoURL").CreatePrompt(StrategyStructured, samplePromptData)
	assert.Error(t, err)
}

func TestIsLikelyFilePath(t *testing.T) {
	assert.True(t, IsLikelyFilePath("./prompt.txt"))
	assert.True(t, IsLikelyFilePath("prompt.tmpl"))
	assert.False(t, IsLikelyFilePath("Summarize this video"))
}
