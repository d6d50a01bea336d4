package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyDir        = "dir"
	KeyIndex      = "index"
	KeyOld        = "old"
	KeyNew        = "new"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Index(i int) slog.Attr           { return slog.Int(KeyIndex, i) }
func Old(s string) slog.Attr          { return slog.String(KeyOld, s) }
func New(s string) slog.Attr          { return slog.String(KeyNew, s) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
