package report

import (
	"encoding/json"
	"io"
	"time"
)

// jsonEvent is one line of JSON report output.
type jsonEvent struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Suite     string    `json:"suite,omitempty"`
	*Record
	Actual   string   `json:"actual,omitempty"`
	Expected string   `json:"expected,omitempty"`
	Totals   *Totals  `json:"totals,omitempty"`
	Percent  *float64 `json:"percent,omitempty"`
}

// JSONReporter writes one JSON object per line.
type JSONReporter struct {
	enc *json.Encoder
	now func() time.Time
}

// NewJSON creates a JSONReporter writing to w.
func NewJSON(w io.Writer) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(w), now: time.Now}
}

// Banner emits an "open" event.
func (r *JSONReporter) Banner(suite string) error {
	return r.enc.Encode(jsonEvent{
		Event: "open", Timestamp: r.now(), Suite: suite,
	})
}

// Line emits a "test" event. Compared values are rendered as
// strings since they may not be JSON-encodable.
func (r *JSONReporter) Line(rec Record) error {
	ev := jsonEvent{
		Event: "test", Timestamp: r.now(), Suite: rec.Suite, Record: &rec,
	}
	if !rec.Passed {
		ev.Actual = FormatValue(rec.Actual)
		ev.Expected = FormatValue(rec.Expected)
	}
	return r.enc.Encode(ev)
}

// Summary emits a "summary" event; percent is omitted when no
// test was run.
func (r *JSONReporter) Summary(t Totals) error {
	ev := jsonEvent{Event: "summary", Timestamp: r.now(), Totals: &t}
	if pct, ok := t.Percent(); ok {
		ev.Percent = &pct
	}
	return r.enc.Encode(ev)
}
