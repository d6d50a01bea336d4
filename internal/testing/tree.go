package testing

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree creates files (slash-separated relative path -> content) under
// dir, creating parent directories as needed.
func WriteTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		WriteFile(t, filepath.Join(dir, filepath.FromSlash(name)), body)
	}
}

// TempTree is WriteTree into a fresh t.TempDir, which it returns.
func TempTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	WriteTree(t, dir, files)
	return dir
}

// WriteFile writes body to path, creating parent directories.
func WriteFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), testDirPermissions); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(body), testFilePermissions); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
