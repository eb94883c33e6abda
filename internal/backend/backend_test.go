package backend_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFAGaming/quick-yaml.db/internal/backend"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")

	assert.False(t, backend.Exists(path))

	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o644))
	assert.True(t, backend.Exists(path))

	// Directories are not regular files.
	assert.False(t, backend.Exists(dir))
}

func TestReplaceWritesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("old: true\n"), 0o644))

	require.NoError(t, backend.Replace(path, []byte("new: true\n")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new: true\n", string(content))
}

func TestReplaceLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	require.NoError(t, backend.Replace(path, []byte("k: v\n")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.yaml", entries[0].Name())
}

func TestReplaceFailsInMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "doc.yaml")
	err := backend.Replace(path, []byte("k: v\n"))
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\nb: 2\n"), 0o644))

	require.NoError(t, backend.Truncate(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, content)
}
