// Package fileops holds the write discipline shared by the generators:
// content goes to a temporary file next to its target and only replaces the
// target when the bytes differ, so unchanged outputs keep their modification
// time.
package fileops

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
)

const defaultFileMode fs.FileMode = 0o644

// ReplaceIfChanged writes data to a temporary file in path's directory and
// compares it with the current content of path. When they are identical the
// temporary is discarded and path is left untouched; otherwise the temporary
// is renamed over path. A missing path counts as changed. The result reports
// whether path was replaced.
func ReplaceIfChanged(path string, data []byte) (bool, error) {
	mode := defaultFileMode
	original, err := os.ReadFile(path)
	switch {
	case err == nil:
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode().Perm()
		}
	case errors.Is(err, fs.ErrNotExist):
		original = nil
	default:
		return false, derrors.WrapError(err, derrors.CategoryFileSystem, "cannot read file").
			WithContext("file", path).
			Fatal().
			Build()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, derrors.WrapError(err, derrors.CategoryFileSystem, "cannot create temporary file").
			WithContext("file", path).
			Fatal().
			Build()
	}
	tmpName := tmp.Name()
	discard := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		discard()
		return false, writeError(err, path)
	}
	if err := tmp.Close(); err != nil {
		discard()
		return false, writeError(err, path)
	}

	// Compare what actually landed on disk, not the input buffer.
	written, err := os.ReadFile(tmpName)
	if err != nil {
		discard()
		return false, writeError(err, path)
	}
	if original != nil && bytes.Equal(written, original) {
		discard()
		return false, nil
	}

	if err := os.Chmod(tmpName, mode); err != nil {
		discard()
		return false, writeError(err, path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		discard()
		return false, derrors.WrapError(err, derrors.CategoryFileSystem, "cannot replace file").
			WithContext("file", path).
			Fatal().
			Build()
	}
	return true, nil
}

func writeError(err error, path string) error {
	return derrors.WrapError(err, derrors.CategoryFileSystem, "cannot write temporary file").
		WithContext("file", path).
		Fatal().
		Build()
}
