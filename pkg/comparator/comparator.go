// Package comparator provides binary predicates used to judge an
// actual result against an expected value, plus a registry that
// resolves comparators by name.
package comparator

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// Comparator reports whether actual satisfies expected.
type Comparator func(actual, expected any) bool

// Equal reports whether actual == expected. Values of
// non-comparable types fall back to reflect.DeepEqual.
func Equal(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == expected
	}
	ta, te := reflect.TypeOf(actual), reflect.TypeOf(expected)
	if ta == te && ta.Comparable() {
		return safeEqual(actual, expected)
	}
	return reflect.DeepEqual(actual, expected)
}

// safeEqual compares interface values whose dynamic type is
// comparable but may still hold non-comparable fields through
// interface-typed members.
func safeEqual(actual, expected any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(actual, expected)
		}
	}()
	return actual == expected
}

// NotEqual is the negation of Equal.
func NotEqual(actual, expected any) bool {
	return !Equal(actual, expected)
}

// exportAll lets go-cmp descend into unexported struct fields
// instead of panicking on them.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// DeepEqual compares with go-cmp, which also honours Equal
// methods on the compared types.
func DeepEqual(actual, expected any) bool {
	return cmp.Equal(actual, expected, exportAll)
}

// Less reports whether actual < expected. Both values must be of
// the same ordered kind; otherwise the comparison fails.
func Less(actual, expected any) bool {
	c, ok := order(actual, expected)
	return ok && c < 0
}

// LessOrEqual reports whether actual <= expected.
func LessOrEqual(actual, expected any) bool {
	c, ok := order(actual, expected)
	return ok && c <= 0
}

// Greater reports whether actual > expected.
func Greater(actual, expected any) bool {
	c, ok := order(actual, expected)
	return ok && c > 0
}

// GreaterOrEqual reports whether actual >= expected.
func GreaterOrEqual(actual, expected any) bool {
	c, ok := order(actual, expected)
	return ok && c >= 0
}

// Not returns a comparator that negates c.
func Not(c Comparator) Comparator {
	return func(actual, expected any) bool {
		return !c(actual, expected)
	}
}
