// Package watch re-runs generation steps when their inputs change on disk.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/logfields"
)

// DefaultDebounce is the quiet period after the last event before a re-run.
const DefaultDebounce = 500 * time.Millisecond

// Target is one re-runnable step and the inputs it depends on.
type Target struct {
	Name string
	// Dirs are watched non-recursively.
	Dirs []string
	// Match reports whether a changed path is an input of this target. Nil
	// matches everything in Dirs.
	Match func(path string) bool
	// Run receives the changed paths in event order, or nil for a full run.
	Run func(ctx context.Context, changed []string) error
}

// Watcher dispatches debounced file events to targets. Targets run one at a
// time on the goroutine that called Run.
type Watcher struct {
	fsw      *fsnotify.Watcher
	targets  []Target
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a Watcher. A debounce of zero selects DefaultDebounce.
func New(debounce time.Duration, logger *slog.Logger, targets ...Target) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	return &Watcher{fsw: fsw, targets: targets, debounce: debounce, logger: logger}, nil
}

// Run performs one full pass over all targets, then re-runs targets as their
// inputs change until ctx is canceled. Target failures are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	watched := map[string]bool{}
	for _, t := range w.targets {
		for _, dir := range t.Dirs {
			abs, err := filepath.Abs(dir)
			if err != nil {
				abs = dir
			}
			if watched[abs] {
				continue
			}
			if err := w.fsw.Add(abs); err != nil {
				return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to watch directory").
					WithContext("dir", abs).
					Build()
			}
			watched[abs] = true
		}
	}
	w.logger.Info("Watching for changes", logfields.Count(len(watched)))

	for i := range w.targets {
		w.runTarget(ctx, i, nil)
	}

	pending := map[int][]string{}
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watcher")
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.collect(event.Name, pending) {
				continue
			}
			w.logger.Debug("Change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		case <-fire:
			fire = nil
			for i := range w.targets {
				if changed, ok := pending[i]; ok {
					w.runTarget(ctx, i, changed)
				}
			}
			clear(pending)
		}
	}
}

// collect records name against every target it belongs to.
func (w *Watcher) collect(name string, pending map[int][]string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		abs = name
	}
	dir := filepath.Dir(abs)
	hit := false
	for i, t := range w.targets {
		if !t.watches(dir) {
			continue
		}
		if t.Match != nil && !t.Match(abs) {
			continue
		}
		if !slices.Contains(pending[i], abs) {
			pending[i] = append(pending[i], abs)
		}
		hit = true
	}
	return hit
}

func (t Target) watches(dir string) bool {
	for _, d := range t.Dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			abs = d
		}
		if abs == dir {
			return true
		}
	}
	return false
}

func (w *Watcher) runTarget(ctx context.Context, i int, changed []string) {
	t := w.targets[i]
	start := time.Now()
	if err := t.Run(ctx, changed); err != nil {
		// The watcher keeps going either way; only fatal failures log as errors.
		level := slog.LevelError
		if ce, ok := derrors.AsClassified(err); ok && !ce.IsFatal() {
			level = slog.LevelWarn
		}
		w.logger.LogAttrs(ctx, level, "Re-run failed", logfields.Stage(t.Name),
			slog.String("category", string(derrors.GetCategory(err))),
			logfields.Error(err))
		return
	}
	w.logger.Info("Re-run complete", logfields.Stage(t.Name),
		logfields.Count(len(changed)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}
