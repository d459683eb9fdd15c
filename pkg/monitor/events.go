// Package monitor collects session events and streams them live to
// WebSocket clients.
package monitor

import "time"

// EventType represents the type of session event.
type EventType string

const (
	EventSessionOpened EventType = "session_opened"
	EventTestPassed    EventType = "test_passed"
	EventTestFailed    EventType = "test_failed"
	EventSessionClosed EventType = "session_closed"
)

// Event is emitted by a session as tests run.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Suite     string    `json:"suite,omitempty"`
	Test      string    `json:"test,omitempty"`

	// Cases is the number of cases of a test event.
	Cases int `json:"cases,omitempty"`

	// FailedCase, Actual and Expected describe the first failing
	// case of a test_failed event.
	FailedCase int    `json:"failed_case,omitempty"`
	Actual     string `json:"actual,omitempty"`
	Expected   string `json:"expected,omitempty"`

	// Total and Passed carry the counters of a session_closed
	// event.
	Total  int `json:"total,omitempty"`
	Passed int `json:"passed,omitempty"`

	Duration  time.Duration `json:"duration,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
