package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "treesweep.toml"))

	require.NoError(t, store.Load())

	assert.Equal(t, 10, store.GetInt("treesweep.user_activity_points", 0))
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treesweep.toml")
	content := `
[treesweep]
user_activity_points = 3

[cleanup_compress]
enabled = false
title = "Squash directory"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store := NewStore(path)
	require.NoError(t, store.Load())

	assert.Equal(t, 3, store.GetInt("treesweep.user_activity_points", 0))
	assert.False(t, store.GetBool("cleanup_compress.enabled", true))
	assert.Equal(t, "Squash directory", store.GetString("cleanup_compress.title", ""))
}

func TestGettersFallBackToDefault(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "treesweep.toml"))
	require.NoError(t, store.Load())

	assert.Equal(t, "fallback", store.GetString("missing.key", "fallback"))
	assert.True(t, store.GetBool("missing.key", true))
	assert.Equal(t, 42, store.GetInt("missing.key", 42))
	assert.False(t, store.Has("missing.key"))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "treesweep.toml")

	store := NewStore(path)
	require.NoError(t, store.Load())
	require.NoError(t, store.Set("cleanup_make_clean.enabled", false))
	require.NoError(t, store.Set("cleanup_make_clean.command", "make distclean"))
	require.NoError(t, store.Save())

	reloaded := NewStore(path)
	require.NoError(t, reloaded.Load())

	assert.False(t, reloaded.GetBool("cleanup_make_clean.enabled", true))
	assert.Equal(t, "make distclean", reloaded.GetString("cleanup_make_clean.command", ""))
}

func TestLoadBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treesweep.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0644))

	store := NewStore(path)
	assert.Error(t, store.Load())
}
