// Package workspace manages scratch directories for external renderer runs.
//
// Each Manager owns one uniquely named directory (e.g. ndocs-render-1234567)
// so that concurrent invocations never share a hand-off file. Within keeps the
// directory for the duration of a callback and removes it on every exit path.
package workspace
