package prevnext

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/ndocs/internal/fileops"
	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/logfields"
	"git.home.luguber.info/inful/ndocs/internal/metrics"
)

// Option configures a Stitcher.
type Option func(*Stitcher)

// WithLogger sets the logger (slog.Default() otherwise).
func WithLogger(l *slog.Logger) Option {
	return func(s *Stitcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDryRun computes results without writing any file.
func WithDryRun(dryRun bool) Option {
	return func(s *Stitcher) { s.dryRun = dryRun }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Stitcher) {
		if r != nil {
			s.recorder = r
		}
	}
}

// Stitcher writes navigation anchors into the pages of a topic list.
type Stitcher struct {
	logger   *slog.Logger
	dryRun   bool
	recorder metrics.Recorder
}

// NewStitcher creates a Stitcher.
func NewStitcher(opts ...Option) *Stitcher {
	s := &Stitcher{logger: slog.Default(), recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FileResult is the outcome for one page.
type FileResult struct {
	Name    string
	State   State
	Changed bool
}

// Report lists page names by outcome, each in topic order.
type Report struct {
	Changed       []string
	Unchanged     []string
	MissingMarker []string
}

func (r *Report) add(res FileResult) {
	switch {
	case res.State == StateSeeking:
		r.MissingMarker = append(r.MissingMarker, res.Name)
	case res.Changed:
		r.Changed = append(r.Changed, res.Name)
	default:
		r.Unchanged = append(r.Unchanged, res.Name)
	}
}

// Total is the number of pages the report covers.
func (r Report) Total() int {
	return len(r.Changed) + len(r.Unchanged) + len(r.MissingMarker)
}

// StitchDir reads the topic list in dir and stitches the pages it names.
func (s *Stitcher) StitchDir(dir, listName string) (Report, error) {
	ordered, err := ReadTopicOrder(dir, listName)
	if err != nil {
		return Report{}, err
	}
	return s.Stitch(dir, ordered)
}

// Stitch processes ordered[0..n-1] in dir, strictly in order. A page that
// cannot be read stops the run; pages already rewritten stay rewritten and
// appear in the returned report.
func (s *Stitcher) Stitch(dir string, ordered []string) (Report, error) {
	var report Report
	if err := checkOrder(ordered); err != nil {
		return report, err
	}

	start := time.Now()
	defer func() { s.recorder.ObserveStageDuration("prevnext", time.Since(start)) }()

	for i := range ordered {
		res, err := s.StitchFile(dir, ordered, i)
		if err != nil {
			return report, err
		}
		report.add(res)
	}
	s.logger.Info("Navigation stitched",
		logfields.Dir(dir),
		slog.Int("changed", len(report.Changed)),
		slog.Int("unchanged", len(report.Unchanged)),
		slog.Int("missing_marker", len(report.MissingMarker)),
		slog.Bool("dry_run", s.dryRun))
	return report, nil
}

// StitchFile processes the page at position index of ordered.
func (s *Stitcher) StitchFile(dir string, ordered []string, index int) (FileResult, error) {
	if index < 0 || index >= len(ordered) {
		return FileResult{}, derrors.InternalError("topic index out of range").
			WithContext("index", index).
			WithContext("count", len(ordered)).
			Build()
	}
	name := ordered[index]
	res := FileResult{Name: name, State: StateSeeking}
	path := filepath.Join(dir, name)
	s.logger.Debug("Processing page", logfields.Index(index), logfields.File(name))

	content, err := os.ReadFile(path)
	if err != nil {
		return res, derrors.WrapError(err, derrors.CategoryNavigation, "cannot open listed file").
			WithContext("file", path).
			Fatal().
			Build()
	}

	marker, state := Locate(content)
	if state == StateSeeking {
		s.logger.Warn("No prevnext section found", logfields.File(name))
		s.recorder.IncNavFile(metrics.NavMissingMarker)
		return res, nil
	}
	s.logger.Debug("Found prevnext section", logfields.File(name),
		slog.Int("start", marker.Start), slog.Int("end", marker.End))

	stitched := marker.Replace(content, Anchors(ordered, index))
	res.State = StateReplaced

	if s.dryRun {
		res.Changed = !bytes.Equal(stitched, content)
	} else {
		res.Changed, err = fileops.ReplaceIfChanged(path, stitched)
		if err != nil {
			return res, err
		}
	}

	if res.Changed {
		s.logger.Info("Page changed", logfields.File(name), slog.Bool("dry_run", s.dryRun))
		s.recorder.IncNavFile(metrics.NavChanged)
	} else {
		s.logger.Debug("No changes", logfields.File(name))
		s.recorder.IncNavFile(metrics.NavUnchanged)
	}
	return res, nil
}
