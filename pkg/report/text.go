package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TextReporter writes the human-scannable console format:
//
//	Test probing the return type............................ passed
//	Test failing test....................................... failed
//	(test case 2: 24 returned instead of 20)
type TextReporter struct {
	w       io.Writer
	width   int
	printer *message.Printer

	label, pass, fail, summary *color.Color
}

// NewText creates a TextReporter with a name column of width
// display cells.
func NewText(w io.Writer, width int, colored bool) *TextReporter {
	r := &TextReporter{
		w:       w,
		width:   width,
		printer: message.NewPrinter(language.English),
		label:   color.New(color.FgHiBlack),
		pass:    color.New(color.FgGreen, color.Bold),
		fail:    color.New(color.FgRed, color.Bold),
		summary: color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{r.label, r.pass, r.fail, r.summary} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *TextReporter) rule(fill string) string {
	return strings.Repeat(fill, r.width+6)
}

// Banner writes the suite name between two rules.
func (r *TextReporter) Banner(suite string) error {
	_, err := fmt.Fprintf(
		r.w, "\n%s\n%s\n%s\n", r.rule("_"), suite, r.rule("~"),
	)
	return err
}

// Line writes the status line of one test, followed on failure by
// the first failing case and, for multi-line strings, a diff.
func (r *TextReporter) Line(rec Record) error {
	name := r.header(rec.Name)
	dots := strings.Repeat(".", r.width-runewidth.StringWidth(name)+3)

	var sb strings.Builder
	sb.WriteString(r.label.Sprint("Test"))
	sb.WriteString(strings.TrimPrefix(name, "Test"))
	sb.WriteString(dots)
	sb.WriteString(" ")

	if rec.Passed {
		sb.WriteString(r.pass.Sprint("passed"))
		sb.WriteString("\n")
	} else {
		sb.WriteString(r.fail.Sprint("failed"))
		sb.WriteString("\n")
		sb.WriteString(r.fail.Sprintf("(%s)", FailureMessage(rec)))
		sb.WriteString("\n")
		if diff := stringDiff(rec.Expected, rec.Actual); diff != "" {
			sb.WriteString(diff)
		}
	}

	_, err := io.WriteString(r.w, sb.String())
	return err
}

// header prefixes name with "Test " and cuts it to the column
// width, leaving three cells for an ellipsis.
func (r *TextReporter) header(name string) string {
	h := "Test " + name
	if runewidth.StringWidth(h) > r.width {
		h = runewidth.Truncate(h, r.width, "...")
	}
	return h
}

// Summary writes passed/total with the pass percentage, or "no
// tests run" when nothing was counted.
func (r *TextReporter) Summary(t Totals) error {
	var line string
	if pct, ok := t.Percent(); ok {
		line = r.printer.Sprintf(
			"%d/%d (%.2f%%) of the tests passed",
			t.Passed, t.Total, pct,
		)
	} else {
		line = "no tests run"
	}

	_, err := fmt.Fprintf(
		r.w, "%s\nSummary: %s\n%s\n\n",
		r.rule("~"), r.summary.Sprint(line), r.rule(`"`),
	)
	return err
}

// stringDiff returns a unified diff when both values are strings
// spanning several lines, and "" otherwise.
func stringDiff(expected, actual any) string {
	e, ok1 := expected.(string)
	a, ok2 := actual.(string)
	if !ok1 || !ok2 || e == a {
		return ""
	}
	if !strings.Contains(e, "\n") && !strings.Contains(a, "\n") {
		return ""
	}
	return textdiff.Unified("expected", "actual", e, a)
}
