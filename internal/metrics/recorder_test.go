package metrics

import "time"

type testRecorder struct {
	documents      int
	links          int
	navFiles       map[NavResult]int
	stageDurations map[string]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{navFiles: map[NavResult]int{}, stageDurations: map[string]int{}}
}

func (t *testRecorder) IncDocumentsConverted()      { t.documents++ }
func (t *testRecorder) AddLinksRewritten(n int)     { t.links += n }
func (t *testRecorder) IncNavFile(result NavResult) { t.navFiles[result]++ }
func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}

// Compile-time checks.
var (
	_ Recorder = (*testRecorder)(nil)
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
