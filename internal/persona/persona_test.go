package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileFallsBack(t *testing.T) {
	spec, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultSystem, spec.System)
	assert.Zero(t, spec.Style.Temperature)
	assert.Zero(t, spec.Style.MaxTokens)
}

func TestLoadParsesSpecFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
system: |
  You are a helpful test persona.
style:
  temperature: 0.5
  max_tokens: 128
`), 0o644))

	spec, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, spec.System, "helpful test persona")
	assert.Equal(t, 0.5, spec.Style.Temperature)
	assert.Equal(t, 128, spec.Style.MaxTokens)
}

func TestLoadEmptySystemFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte("style:\n  max_tokens: 64\n"), 0o644))

	spec, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultSystem, spec.System)
	assert.Equal(t, 64, spec.Style.MaxTokens)
}

func TestLoadMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte("system: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
