package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".atlas", "token")
	fs := NewFileStore(path)

	assert.Empty(t, fs.Read(), "fresh store must read empty")

	require.NoError(t, fs.Write("tok-123"))
	assert.Equal(t, "tok-123", fs.Read())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, fs.Clear())
	assert.Empty(t, fs.Read())
}

func TestFileStore_ClearMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "token"))
	assert.NoError(t, fs.Clear())
}

func TestFileStore_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("tok-123\n"), 0600))

	fs := NewFileStore(path)
	assert.Equal(t, "tok-123", fs.Read())
}

func TestFileStore_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	fs := NewFileStore(path)
	require.NoError(t, fs.Write("file-tok"))

	t.Setenv(EnvToken, "env-tok")
	assert.Equal(t, "env-tok", fs.Read(), "env var must win over the file")

	// Clear still targets the file, so the override persists until unset.
	require.NoError(t, fs.Clear())
	assert.Equal(t, "env-tok", fs.Read())
}
