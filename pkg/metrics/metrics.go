// Package metrics records per-test and per-session outcomes of
// probe sessions.
package metrics

import "time"

// Recorder defines the interface for recording session metrics.
type Recorder interface {
	// RecordTest records one test of a suite with its outcome,
	// number of cases and wall-clock duration.
	RecordTest(suite, test string, passed bool, cases int, d time.Duration)

	// RecordSession records the final counters of a closed
	// session.
	RecordSession(suite string, total, passed int)
}

// NoopRecorder is a no-op implementation of Recorder useful when
// metrics collection is disabled.
type NoopRecorder struct{}

func (NoopRecorder) RecordTest(_, _ string, _ bool, _ int, _ time.Duration) {}
func (NoopRecorder) RecordSession(_ string, _, _ int)                       {}
