// Package report renders probe session output: the opening
// banner, one line per test and the closing summary.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"digital.vasic.probe/pkg/config"
)

// Record is the outcome of one test as seen by a reporter.
type Record struct {
	Suite    string        `json:"suite,omitempty"`
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Cases    int           `json:"cases"`
	Duration time.Duration `json:"duration"`

	// FailedCase is the 1-based index of the first failing case,
	// or 0 when the test passed.
	FailedCase int    `json:"failed_case,omitempty"`
	Args       string `json:"args,omitempty"`
	Actual     any    `json:"-"`
	Expected   any    `json:"-"`
}

// Totals are the counters of a session at close time.
type Totals struct {
	Suite  string `json:"suite,omitempty"`
	Total  int    `json:"total"`
	Passed int    `json:"passed"`
}

// Percent returns the pass percentage. The boolean is false when
// no test was run, in which case no percentage is defined.
func (t Totals) Percent() (float64, bool) {
	if t.Total == 0 {
		return 0, false
	}
	return float64(t.Passed) * 100 / float64(t.Total), true
}

// Reporter renders session output.
type Reporter interface {
	// Banner announces an opened suite.
	Banner(suite string) error

	// Line reports one test.
	Line(rec Record) error

	// Summary reports the totals of a closing session.
	Summary(t Totals) error
}

// FailureMessage describes the first failing case of rec, e.g.
// "test case 2: 24 returned instead of 20".
func FailureMessage(rec Record) string {
	return fmt.Sprintf(
		"test case %d: %s returned instead of %s",
		rec.FailedCase, FormatValue(rec.Actual), FormatValue(rec.Expected),
	)
}

// FormatValue renders a compared value. Strings are quoted so
// that empty and whitespace-only values stay visible.
func FormatValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

// ColorEnabled resolves a color mode for w. In auto mode colors
// are used only for terminals and only when NO_COLOR is unset.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// New builds the reporter selected by cfg.Format writing to w.
func New(w io.Writer, cfg *config.Config) (Reporter, error) {
	switch cfg.Format {
	case config.FormatText, "":
		return NewText(w, cfg.NameWidth, ColorEnabled(cfg.Color, w)), nil
	case config.FormatJSON:
		return NewJSON(w), nil
	}
	return nil, fmt.Errorf("unknown report format: %q", cfg.Format)
}
