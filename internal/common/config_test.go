package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 12000, cfg.Extraction.MaxPromptChars)
	assert.True(t, cfg.Extraction.FallbackEnabled)
	assert.True(t, cfg.Export.BySupplierSheets)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
llm:
  model: gpt-4o-mini
  temperature: 0.5
extraction:
  max_prompt_chars: 8000
  fallback_enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.InDelta(t, 0.5, float64(cfg.LLM.Temperature), 0.001)
	assert.Equal(t, 8000, cfg.Extraction.MaxPromptChars)
	assert.False(t, cfg.Extraction.FallbackEnabled)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  model: from-file\n"), 0o644))

	t.Setenv("OPENAI_MODEL", "from-env")
	t.Setenv("OPENAI_TIMEOUT", "90s")
	t.Setenv("EXTRACT_MAX_PROMPT_CHARS", "500")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.LLM.Model)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 500, cfg.Extraction.MaxPromptChars)
}

func TestLoadConfigMissingFileIsFine(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestValidate(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	cfg.LLM.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())

	cfg.LLM.APIKey = ""
	assert.Error(t, cfg.Validate())

	cfg.LLM.APIKey = "sk-test"
	cfg.Extraction.MaxPromptChars = 0
	assert.Error(t, cfg.Validate())
}
