package ankitab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NotEmpty(t, cfg.SearchPaths)
	assert.Equal(t, "collection.anki2", cfg.Filename)
	assert.Equal(t, 4, cfg.MaxDepth)
}

func TestLoadConfigDefaultsOnly(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ankitab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
search_paths:
  - /data/anki
user: alice
max_depth: 2
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/anki"}, cfg.SearchPaths)
	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, 2, cfg.MaxDepth)
	// Unset keys keep their defaults.
	assert.Equal(t, "collection.anki2", cfg.Filename)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ANKITAB_USER", "bob")
	t.Setenv("ANKITAB_MAX_DEPTH", "6")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.User)
	assert.Equal(t, 6, cfg.MaxDepth)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("ANKITAB_MAX_DEPTH", "0")
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
