package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := ResolvePath("")
		assert.Error(t, err)
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		got, err := ResolvePath("some/relative/dir")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := ResolvePath("~/stuff")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "stuff"), got)
	})
}

func TestEnsureDir(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "a", "b", "c")

	require.NoError(t, EnsureDir(dir))
	assert.DirExists(t, dir)

	// idempotent
	require.NoError(t, EnsureDir(dir))
}

func TestEnsureParent(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "x", "y", "file.txt")

	require.NoError(t, EnsureParent(path))
	assert.DirExists(t, filepath.Join(tmp, "x", "y"))
}

func TestDirExistsAndFileExists(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, DirExists(tmp))
	assert.False(t, DirExists(file))
	assert.True(t, FileExists(file))
	assert.False(t, FileExists(tmp))
	assert.False(t, FileExists(filepath.Join(tmp, "nope")))
}
