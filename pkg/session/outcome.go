package session

// Outcome is the status of one test: Pass (0) or Fail (1). The
// integer values are suitable for aggregating an exit code.
type Outcome int

const (
	Pass Outcome = 0
	Fail Outcome = 1
)

// String returns "passed" or "failed".
func (o Outcome) String() string {
	if o == Pass {
		return "passed"
	}
	return "failed"
}
