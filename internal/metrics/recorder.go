package metrics

import "time"

// NavResult labels the outcome of stitching one navigation file.
type NavResult string

const (
	NavChanged       NavResult = "changed"
	NavUnchanged     NavResult = "unchanged"
	NavMissingMarker NavResult = "missing_marker"
)

// Recorder defines observability hooks for conversion and navigation runs.
type Recorder interface {
	IncDocumentsConverted()
	AddLinksRewritten(n int)
	IncNavFile(result NavResult)
	ObserveStageDuration(stage string, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDocumentsConverted()                    {}
func (NoopRecorder) AddLinksRewritten(int)                     {}
func (NoopRecorder) IncNavFile(NavResult)                      {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
