// Package metrics records conversion and navigation counters.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	stitcher := prevnext.NewStitcher(prevnext.WithRecorder(recorder))
//
// PrometheusRecorder backs the interface with client_golang collectors in the
// "ndocs" namespace. The CLI has no long-running server, so the registry is
// dumped with WriteTextfile to the path named by the metrics_file setting,
// ready for the node_exporter textfile collector.
package metrics
