package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// FileAssertions asserts on files below a base directory.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a FileAssertions rooted at baseDir.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// AssertFileExists validates that a file exists.
func (fa *FileAssertions) AssertFileExists(rel string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(rel)); err != nil {
		fa.t.Errorf("Expected file to exist: %s (%v)", fa.path(rel), err)
	}
	return fa
}

// AssertFileNotExists validates that a file does not exist.
func (fa *FileAssertions) AssertFileNotExists(rel string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(rel)); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", fa.path(rel))
	}
	return fa
}

// AssertFileContains validates that a file contains expected.
func (fa *FileAssertions) AssertFileContains(rel, expected string) *FileAssertions {
	fa.t.Helper()
	content, ok := fa.read(rel)
	if ok && !strings.Contains(content, expected) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s", rel, expected, content)
	}
	return fa
}

// AssertFileNotContains validates that a file does not contain unexpected.
func (fa *FileAssertions) AssertFileNotContains(rel, unexpected string) *FileAssertions {
	fa.t.Helper()
	content, ok := fa.read(rel)
	if ok && strings.Contains(content, unexpected) {
		fa.t.Errorf("Expected file %s not to contain %q", rel, unexpected)
	}
	return fa
}

// AssertOnlyEntries validates that dir holds exactly the named entries.
func (fa *FileAssertions) AssertOnlyEntries(rel string, names ...string) *FileAssertions {
	fa.t.Helper()
	entries, err := os.ReadDir(fa.path(rel))
	if err != nil {
		fa.t.Errorf("Failed to read directory %s: %v", fa.path(rel), err)
		return fa
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	for _, e := range entries {
		if !want[e.Name()] {
			fa.t.Errorf("Unexpected entry %s in %s", e.Name(), rel)
		}
		delete(want, e.Name())
	}
	for n := range want {
		fa.t.Errorf("Missing entry %s in %s", n, rel)
	}
	return fa
}

// ModTime returns the modification time of a file, failing the test when it
// cannot be read.
func (fa *FileAssertions) ModTime(rel string) time.Time {
	fa.t.Helper()
	info, err := os.Stat(fa.path(rel))
	if err != nil {
		fa.t.Fatalf("stat %s: %v", fa.path(rel), err)
	}
	return info.ModTime()
}

func (fa *FileAssertions) read(rel string) (string, bool) {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(rel))
	if err != nil {
		fa.t.Errorf("Failed to read file %s: %v", fa.path(rel), err)
		return "", false
	}
	return string(content), true
}
