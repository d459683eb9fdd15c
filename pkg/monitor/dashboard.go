package monitor

import (
	"sync"
	"time"
)

// SessionState is the live state of one session.
type SessionState struct {
	ID          string     `json:"id"`
	Suite       string     `json:"suite"`
	Open        bool       `json:"open"`
	Total       int        `json:"total"`
	Passed      int        `json:"passed"`
	Failed      int        `json:"failed"`
	LastFailure string     `json:"last_failure,omitempty"`
	OpenedAt    *time.Time `json:"opened_at,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

// DashboardState is a point-in-time copy of the dashboard.
type DashboardState struct {
	Sessions map[string]SessionState `json:"sessions"`
	Tests    int                     `json:"tests"`
	Passed   int                     `json:"passed"`
	PassRate float64                 `json:"pass_rate"`
}

// Dashboard aggregates events into per-session state. It is safe
// for concurrent use.
type Dashboard struct {
	mu       sync.RWMutex
	sessions map[string]SessionState
}

// NewDashboard creates an empty Dashboard.
func NewDashboard() *Dashboard {
	return &Dashboard{sessions: make(map[string]SessionState)}
}

// UpdateFromEvent folds one event into the dashboard.
func (d *Dashboard) UpdateFromEvent(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	state, exists := d.sessions[event.SessionID]
	if !exists {
		state = SessionState{ID: event.SessionID, Suite: event.Suite}
	}

	switch event.Type {
	case EventSessionOpened:
		state = SessionState{
			ID: event.SessionID, Suite: event.Suite,
			Open: true, OpenedAt: &ts,
		}
	case EventTestPassed:
		state.Total++
		state.Passed++
	case EventTestFailed:
		state.Total++
		state.Failed++
		state.LastFailure = event.Test
	case EventSessionClosed:
		state.Open = false
		state.ClosedAt = &ts
	}

	d.sessions[event.SessionID] = state
}

// Snapshot returns a copy of the current state.
func (d *Dashboard) Snapshot() DashboardState {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := DashboardState{
		Sessions: make(map[string]SessionState, len(d.sessions)),
	}
	for id, s := range d.sessions {
		snap.Sessions[id] = s
		snap.Tests += s.Total
		snap.Passed += s.Passed
	}
	if snap.Tests > 0 {
		snap.PassRate = float64(snap.Passed) / float64(snap.Tests) * 100
	}
	return snap
}
