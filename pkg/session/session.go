// Package session runs probes as named tests, reports one line
// per test and keeps pass/total counters between Open and Close.
//
// A Session replaces process-wide counters with an explicit
// object:
//
//	s, err := session.Open(os.Stdout, "my suite")
//	if err != nil { ... }
//	defer s.Close()
//
//	s.Test("multiply", probe.ByValue(mul).
//		Expect(args.Pack(1, 2, 3), 6).
//		Expect(args.Pack(2, 3, 4), 24))
//
// Tests run while the session is closed are still reported but
// leave the counters untouched.
package session

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"digital.vasic.probe/pkg/comparator"
	"digital.vasic.probe/pkg/config"
	"digital.vasic.probe/pkg/logging"
	"digital.vasic.probe/pkg/metrics"
	"digital.vasic.probe/pkg/monitor"
	"digital.vasic.probe/pkg/probe"
	"digital.vasic.probe/pkg/report"
)

// EventSink receives session events.
type EventSink interface {
	Emit(event monitor.Event)
}

// Session is a test environment. The zero value is not usable;
// create one with New or Open.
type Session struct {
	mu sync.Mutex

	id       string
	cfg      *config.Config
	registry *comparator.Registry
	reporter report.Reporter
	logger   logging.Logger
	metrics  metrics.Recorder
	events   EventSink
	fallback comparator.Comparator

	open   bool
	suite  string
	total  int
	passed int
}

// New creates a closed session writing to w. The configuration
// is validated and an error is returned if it is invalid.
func New(w io.Writer, opts ...Option) (*Session, error) {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}

	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.registry == nil {
		s.registry = comparator.Default
	}
	if err := s.cfg.Validate(s.registry); err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}

	fallback, err := s.registry.Get(s.cfg.Comparator)
	if err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}
	s.fallback = fallback

	if s.reporter == nil {
		r, err := report.New(w, s.cfg)
		if err != nil {
			return nil, fmt.Errorf("session reporter: %w", err)
		}
		s.reporter = r
	}
	if s.logger == nil {
		s.logger = logging.NullLogger{}
	}
	if s.metrics == nil {
		s.metrics = metrics.NoopRecorder{}
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.logger = s.logger.WithFields(logging.StringField("session", s.id))
	return s, nil
}

// Open creates a session writing to w and opens it for suite.
func Open(w io.Writer, suite string, opts ...Option) (*Session, error) {
	s, err := New(w, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Open(suite); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// IsOpen reports whether the session is open.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Counters returns the number of tests run and passed since Open.
// Both are zero while the session is closed.
func (s *Session) Counters() (total, passed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total, s.passed
}

// Open prints the banner for suite, resets the counters and marks
// the session active. An empty suite falls back to the configured
// one. Opening an open session starts over.
func (s *Session) Open(suite string) error {
	if suite == "" {
		suite = s.cfg.Suite
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		s.logger.Warn("session reopened",
			logging.StringField("suite", s.suite),
			logging.IntField("total", s.total),
		)
	}
	s.open = true
	s.suite = suite
	s.total, s.passed = 0, 0

	s.logger.Info("session opened", logging.StringField("suite", suite))
	s.emit(monitor.Event{Type: monitor.EventSessionOpened, Suite: suite})

	if err := s.reporter.Banner(suite); err != nil {
		return fmt.Errorf("write banner: %w", err)
	}
	return nil
}

// Close prints the summary, resets the counters and marks the
// session inactive. It is valid on a session that was never
// opened, in which case the summary reports that no tests ran.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := report.Totals{Suite: s.suite, Total: s.total, Passed: s.passed}

	s.logger.Info("session closed",
		logging.StringField("suite", s.suite),
		logging.IntField("total", totals.Total),
		logging.IntField("passed", totals.Passed),
	)
	s.metrics.RecordSession(s.suite, totals.Total, totals.Passed)
	s.emit(monitor.Event{
		Type:   monitor.EventSessionClosed,
		Suite:  s.suite,
		Total:  totals.Total,
		Passed: totals.Passed,
	})

	s.open = false
	s.suite = ""
	s.total, s.passed = 0, 0

	if err := s.reporter.Summary(totals); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// Test runs p, reports one line named name and, while the session
// is open, updates the counters. It returns Pass when every case
// satisfied the comparator and Fail otherwise.
//
// A probe that cannot be run (no cases, argument or result type
// mismatch, failed construction) is a defect in the test itself:
// Test panics with the wrapped error. Panics raised by the
// function under test propagate unchanged.
func (s *Session) Test(name string, p *probe.Probe) Outcome {
	start := time.Now()
	res, err := p.RunWith(s.fallback)
	if err != nil {
		panic(fmt.Errorf("test %q: %w", name, err))
	}
	elapsed := time.Since(start)

	rec := report.Record{
		Name:     name,
		Passed:   res.OK(),
		Cases:    res.Total,
		Duration: elapsed,
	}
	if f, failed := res.Failure(); failed {
		rec.FailedCase = f.Index
		rec.Args = f.Args
		rec.Actual = f.Actual
		rec.Expected = f.Expected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Suite = s.suite
	if s.open {
		s.total++
		if rec.Passed {
			s.passed++
		}
	}

	s.logCases(name, res)
	s.metrics.RecordTest(s.suite, name, rec.Passed, rec.Cases, elapsed)
	s.emit(testEvent(rec))

	if err := s.reporter.Line(rec); err != nil {
		s.logger.Error("write report line",
			logging.StringField("test", name),
			logging.ErrorField(err),
		)
	}

	if rec.Passed {
		return Pass
	}
	return Fail
}

func (s *Session) logCases(name string, res probe.Result) {
	log := s.logger.WithFields(logging.StringField("test", name))
	for _, c := range res.Cases {
		log.Debug("case evaluated",
			logging.IntField("case", c.Index),
			logging.StringField("args", c.Args),
			logging.StringField("actual", report.FormatValue(c.Actual)),
			logging.StringField("expected", report.FormatValue(c.Expected)),
			logging.BoolField("passed", c.Passed),
		)
	}
	if f, failed := res.Failure(); failed {
		log.Warn("test failed",
			logging.IntField("case", f.Index),
			logging.IntField("passed_cases", res.Passed),
			logging.IntField("cases", res.Total),
		)
	}
}

// emit must be called with s.mu held.
func (s *Session) emit(e monitor.Event) {
	if s.events == nil {
		return
	}
	e.SessionID = s.id
	if e.Suite == "" {
		e.Suite = s.suite
	}
	s.events.Emit(e)
}

func testEvent(rec report.Record) monitor.Event {
	e := monitor.Event{
		Type:     monitor.EventTestPassed,
		Test:     rec.Name,
		Cases:    rec.Cases,
		Duration: rec.Duration,
	}
	if !rec.Passed {
		e.Type = monitor.EventTestFailed
		e.FailedCase = rec.FailedCase
		e.Actual = report.FormatValue(rec.Actual)
		e.Expected = report.FormatValue(rec.Expected)
	}
	return e
}

// Assert runs p with the default comparator and reports whether
// every case passed. Nothing is printed and no counters change.
// Like Session.Test it panics on a probe that cannot be run.
func Assert(p *probe.Probe) bool {
	res, err := p.Run()
	if err != nil {
		panic(fmt.Errorf("assert: %w", err))
	}
	return res.OK()
}
