// Package demo holds the illustrative suite run by probe-demo. It
// exercises every call shape: plain return values, a custom
// comparator, a deliberately failing test, a parameterized
// function, a mutated argument, a generic function and a method
// on a constructed instance.
package demo

import (
	"digital.vasic.probe/pkg/args"
	"digital.vasic.probe/pkg/comparator"
	"digital.vasic.probe/pkg/probe"
	"digital.vasic.probe/pkg/session"
)

// Suite is the default suite name.
const Suite = "probe demo"

// Foo divides by a divisor fixed at construction.
type Foo struct {
	divisor int
}

// NewFoo returns a Foo dividing by d.
func NewFoo(d int) Foo { return Foo{divisor: d} }

// Bar returns arg divided by the divisor.
func (f Foo) Bar(arg int) int { return arg / f.divisor }

// Multiply returns the product of its arguments.
func Multiply(a, b, c int) int { return a * b * c }

// Scale returns a function multiplying its argument by factor.
func Scale(factor uint) func(uint) int {
	return func(arg uint) int { return int(arg * factor) }
}

// Triple multiplies the variable arg points to by three.
func Triple(arg *int) { *arg *= 3 }

// Quadruple returns four times arg.
func Quadruple[T ~int | ~int32 | ~int64](arg T) int { return int(arg) * 4 }

// Run executes the demo suite in s and returns the number of
// failed tests. "failing test" fails on purpose.
func Run(s *session.Session) int {
	v := 3

	outcomes := []session.Outcome{
		s.Test("probing the return type", probe.ByValue(Multiply).
			Expect(args.Pack(1, 2, 3), 6).
			Expect(args.Pack(2, 3, 4), 24)),

		s.Test("'not equal'", probe.ByValue(Multiply).
			Compare(comparator.NotEqual).
			Expect(args.Pack(1, 2, 3), 5).
			Expect(args.Pack(2, 3, 4), 20)),

		s.Test("failing test", probe.ByValue(Multiply).
			Expect(args.Pack(1, 2, 3), 6).
			Expect(args.Pack(2, 3, 4), 20)),

		// The argument type matters: 2 would be an int.
		s.Test("parameterized function", probe.ByValue(Scale(2)).
			Expect(args.Pack(uint(2)), 4).
			Expect(args.Pack(uint(3)), 6)),

		s.Test("call-by-reference assertion", probe.ByReference(Triple).
			ExpectRef(args.Pack(&v), &v, 9).
			ExpectRef(args.Pack(&v), &v, 27)),

		s.Test("generic function", probe.ByValue(Quadruple[int]).
			Expect(args.Pack(4), 16).
			Expect(args.Pack(5), 20)),

		s.Test("class member function", probe.Method(NewFoo, args.Pack(5), Foo.Bar).
			Expect(args.Pack(5), 1).
			Expect(args.Pack(6), 1).
			Expect(args.Pack(10), 2)),
	}

	failed := 0
	for _, o := range outcomes {
		if o == session.Fail {
			failed++
		}
	}
	return failed
}
