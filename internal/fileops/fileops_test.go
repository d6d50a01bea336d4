package fileops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
)

func TestReplaceIfChanged_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")

	changed, err := ReplaceIfChanged(path, []byte("hello"))
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestReplaceIfChanged_IdenticalKeepsMtime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte("same"), 0o600))
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	changed, err := ReplaceIfChanged(path, []byte("same"))
	require.NoError(t, err)
	assert.False(t, changed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "mtime changed: %v", info.ModTime())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestReplaceIfChanged_DifferentReplacesAndKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	changed, err := ReplaceIfChanged(path, []byte("new"))
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReplaceIfChanged_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "page.html")
	_, err := ReplaceIfChanged(path, []byte("x"))
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryFileSystem))
}
