package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.probe/pkg/report"
	"digital.vasic.probe/pkg/session"
)

type lines struct{ recs []report.Record }

func (l *lines) Banner(string) error          { return nil }
func (l *lines) Line(rec report.Record) error { l.recs = append(l.recs, rec); return nil }
func (l *lines) Summary(report.Totals) error  { return nil }

func TestRun(t *testing.T) {
	rep := &lines{}
	s, err := session.Open(nil, Suite, session.WithReporter(rep))
	require.NoError(t, err)

	failed := Run(s)

	assert.Equal(t, 1, failed)
	total, passed := s.Counters()
	assert.Equal(t, 7, total)
	assert.Equal(t, 6, passed)

	require.Len(t, rep.recs, 7)
	for _, rec := range rep.recs {
		if rec.Name == "failing test" {
			assert.False(t, rec.Passed)
			assert.Equal(t, 2, rec.FailedCase)
			assert.Equal(t, 24, rec.Actual)
			assert.Equal(t, 20, rec.Expected)
			continue
		}
		assert.True(t, rec.Passed, rec.Name)
	}
}

func TestFunctions(t *testing.T) {
	assert.Equal(t, 24, Multiply(2, 3, 4))
	assert.Equal(t, 6, Scale(2)(3))
	assert.Equal(t, 20, Quadruple[int64](5))
	assert.Equal(t, 2, NewFoo(5).Bar(10))

	v := 2
	Triple(&v)
	assert.Equal(t, 6, v)
}
