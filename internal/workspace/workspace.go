package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/ndocs/internal/logfields"
)

const defaultPrefix = "ndocs-"

// Manager handles a single scratch directory.
type Manager struct {
	baseDir string
	prefix  string
	tempDir string
}

// NewManager creates a manager whose directory will live under baseDir
// (os.TempDir() when empty).
func NewManager(baseDir string) *Manager {
	return NewManagerWithPrefix(baseDir, defaultPrefix)
}

// NewManagerWithPrefix is NewManager with a custom directory name prefix.
func NewManagerWithPrefix(baseDir, prefix string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Manager{baseDir: baseDir, prefix: prefix}
}

// Create creates the uniquely named workspace directory.
func (m *Manager) Create() error {
	if m.tempDir != "" {
		return fmt.Errorf("workspace already created: %s", m.tempDir)
	}
	dir, err := os.MkdirTemp(m.baseDir, m.prefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	m.tempDir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// GetPath returns the path to the workspace directory, or "" before Create.
func (m *Manager) GetPath() string {
	return m.tempDir
}

// File returns the path of name inside the workspace.
func (m *Manager) File(name string) string {
	return filepath.Join(m.tempDir, name)
}

// Cleanup removes the workspace directory and everything in it. It is safe to
// call more than once.
func (m *Manager) Cleanup() error {
	if m.tempDir == "" {
		return nil
	}
	if err := os.RemoveAll(m.tempDir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.tempDir))
	m.tempDir = ""
	return nil
}

// Within creates a workspace, runs fn inside it and removes the workspace
// afterwards, whether or not fn fails. fn's error takes precedence over a
// cleanup error.
func Within(baseDir, prefix string, fn func(m *Manager) error) (err error) {
	m := NewManagerWithPrefix(baseDir, prefix)
	if err := m.Create(); err != nil {
		return err
	}
	defer func() {
		if cerr := m.Cleanup(); cerr != nil {
			if err == nil {
				err = cerr
			} else {
				slog.Warn("Failed to cleanup workspace", logfields.Path(m.GetPath()), logfields.Error(cerr))
			}
		}
	}()
	return fn(m)
}
