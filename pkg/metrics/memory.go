package metrics

import (
	"sync"
	"time"
)

// SessionTotals is the recorded outcome of one closed session.
type SessionTotals struct {
	Suite  string `json:"suite"`
	Total  int    `json:"total"`
	Passed int    `json:"passed"`
}

// InMemory implements Recorder with counters kept in memory. It is
// safe for concurrent use.
type InMemory struct {
	mu        sync.Mutex
	tests     map[string]int
	cases     map[string]int
	durations map[string][]time.Duration
	sessions  []SessionTotals
}

// NewInMemory creates an empty InMemory recorder.
func NewInMemory() *InMemory {
	return &InMemory{
		tests:     make(map[string]int),
		cases:     make(map[string]int),
		durations: make(map[string][]time.Duration),
	}
}

func statusOf(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

func (m *InMemory) RecordTest(
	suite, test string, passed bool, cases int, d time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tests[suite+":"+statusOf(passed)]++
	m.cases[suite] += cases
	m.durations[suite+":"+test] = append(m.durations[suite+":"+test], d)
}

func (m *InMemory) RecordSession(suite string, total, passed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = append(m.sessions, SessionTotals{
		Suite: suite, Total: total, Passed: passed,
	})
}

// TestCount returns the number of tests of suite recorded with the
// given outcome.
func (m *InMemory) TestCount(suite string, passed bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tests[suite+":"+statusOf(passed)]
}

// CaseCount returns the number of cases evaluated in suite.
func (m *InMemory) CaseCount(suite string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cases[suite]
}

// Durations returns the recorded durations of one test.
func (m *InMemory) Durations(suite, test string) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.durations[suite+":"+test]
	out := make([]time.Duration, len(d))
	copy(out, d)
	return out
}

// AverageDuration returns the mean duration of one test, or zero
// if it was never recorded.
func (m *InMemory) AverageDuration(suite, test string) time.Duration {
	d := m.Durations(suite, test)
	if len(d) == 0 {
		return 0
	}
	var total time.Duration
	for _, x := range d {
		total += x
	}
	return total / time.Duration(len(d))
}

// Sessions returns the recorded session totals in close order.
func (m *InMemory) Sessions() []SessionTotals {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SessionTotals, len(m.sessions))
	copy(out, m.sessions)
	return out
}
