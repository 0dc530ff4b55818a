package ankitab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touchCollection(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "collection.anki2")
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	return path
}

func searchConfig(roots ...string) Config {
	return Config{SearchPaths: roots, MaxDepth: 4, Filename: "collection.anki2"}
}

func TestFindDatabaseSingleProfile(t *testing.T) {
	root := t.TempDir()
	want := touchCollection(t, filepath.Join(root, "User 1"))

	got, err := FindDatabase(searchConfig(root), "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindDatabaseNoMatch(t *testing.T) {
	_, err := FindDatabase(searchConfig(t.TempDir()), "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindDatabaseAmbiguousProfilesFail(t *testing.T) {
	root := t.TempDir()
	touchCollection(t, filepath.Join(root, "alice"))
	touchCollection(t, filepath.Join(root, "bob"))

	_, err := FindDatabase(searchConfig(root), "")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "alice")
	assert.Contains(t, err.Error(), "bob")
}

func TestFindDatabaseUserSelectsProfile(t *testing.T) {
	root := t.TempDir()
	touchCollection(t, filepath.Join(root, "alice"))
	want := touchCollection(t, filepath.Join(root, "bob"))

	got, err := FindDatabase(searchConfig(root), "bob")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = FindDatabase(searchConfig(root), "carol")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindDatabaseSkipsMissingRoots(t *testing.T) {
	root := t.TempDir()
	want := touchCollection(t, filepath.Join(root, "User 1"))

	missing := filepath.Join(root, "does-not-exist")
	got, err := FindDatabase(searchConfig(missing, root), "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindDatabaseRespectsMaxDepth(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b", "c", "d", "e", "f")
	touchCollection(t, deep)

	cfg := searchConfig(root)
	cfg.MaxDepth = 2
	_, err := FindDatabase(cfg, "")
	require.ErrorIs(t, err, ErrNotFound)

	cfg.MaxDepth = 8
	got, err := FindDatabase(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(deep, "collection.anki2"), got)
}
