package probe

// CaseResult records the outcome of one case.
type CaseResult struct {
	// Index is the 1-based position of the case in the batch.
	Index int `json:"index"`

	// Args is the rendered argument list the case was invoked
	// with.
	Args string `json:"args"`

	// Actual is the produced value (return value or the watched
	// variable read after the call).
	Actual any `json:"actual"`

	// Expected is the expected value after conversion to the
	// actual's type.
	Expected any `json:"expected"`

	// Passed indicates whether the comparator held.
	Passed bool `json:"passed"`
}

// Result is the fold of every case in a probe.
type Result struct {
	// Total is the number of cases.
	Total int `json:"total"`

	// Passed is the number of cases whose comparator held.
	Passed int `json:"passed"`

	// FirstFailure is the 1-based index of the first failing
	// case scanning left to right, or 0 if every case passed.
	FirstFailure int `json:"first_failure"`

	// Actual and Expected belong to the first failing case. When
	// every case passed they hold the last evaluated pair.
	Actual   any `json:"actual"`
	Expected any `json:"expected"`

	// Cases holds the per-case outcomes in evaluation order.
	Cases []CaseResult `json:"cases"`
}

// OK returns true if every case passed.
func (r Result) OK() bool {
	return r.Total > 0 && r.Passed == r.Total
}

// Failure returns the first failing case and true, or a zero
// CaseResult and false if every case passed.
func (r Result) Failure() (CaseResult, bool) {
	if r.FirstFailure == 0 {
		return CaseResult{}, false
	}
	return r.Cases[r.FirstFailure-1], true
}

// fold reduces per-case outcomes: every case counts towards
// Passed and the earliest failure is reported.
func fold(cases []CaseResult) Result {
	r := Result{Total: len(cases), Cases: cases}
	for _, c := range cases {
		if c.Passed {
			r.Passed++
			continue
		}
		if r.FirstFailure == 0 {
			r.FirstFailure = c.Index
			r.Actual, r.Expected = c.Actual, c.Expected
		}
	}
	if r.FirstFailure == 0 && len(cases) > 0 {
		last := cases[len(cases)-1]
		r.Actual, r.Expected = last.Actual, last.Expected
	}
	return r
}
