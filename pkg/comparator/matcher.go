package comparator

import "github.com/onsi/gomega/types"

// Matcher adapts a gomega matcher factory into a Comparator. The
// factory receives the expected value and returns the matcher
// applied to the actual value, e.g.
//
//	comparator.Matcher(func(exp any) types.GomegaMatcher {
//		return gomega.BeNumerically("~", exp, 0.01)
//	})
//
// A matcher error counts as a failed comparison.
func Matcher(factory func(expected any) types.GomegaMatcher) Comparator {
	return func(actual, expected any) bool {
		ok, err := factory(expected).Match(actual)
		return err == nil && ok
	}
}
