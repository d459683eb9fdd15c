// Package probe invokes a function under test over a batch of
// cases, compares every produced value against its expected value
// and folds the comparisons into a single Result.
//
// Three call shapes are supported and chosen explicitly by the
// caller: ByValue compares the function's single return value,
// ByReference compares a watched variable read after each call,
// and Method/BoundMethod compare the return value of a method on
// one constructed instance.
//
// Every case is always invoked, in order, so side effects of
// earlier cases are visible to later ones. The first failing case
// (left to right) is the one reported.
package probe

import (
	"errors"
	"fmt"
	"reflect"

	"digital.vasic.probe/pkg/args"
	"digital.vasic.probe/pkg/binder"
	"digital.vasic.probe/pkg/callable"
	"digital.vasic.probe/pkg/comparator"
)

var (
	// ErrNoCases is returned when a probe is run without cases.
	ErrNoCases = errors.New("probe has no cases")

	// ErrShape is returned when a case does not fit the probe's
	// call shape, e.g. a watched variable on a ByValue probe.
	ErrShape = errors.New("case does not match call shape")
)

// Shape identifies how a probe obtains the value it compares.
type Shape int

const (
	// ShapeByValue compares the return value.
	ShapeByValue Shape = iota
	// ShapeByReference compares a watched variable after the
	// call.
	ShapeByReference
	// ShapeBoundMethod compares the return value of a method on
	// a constructed instance.
	ShapeBoundMethod
)

// String returns the name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeByValue:
		return "by_value"
	case ShapeByReference:
		return "by_reference"
	case ShapeBoundMethod:
		return "bound_method"
	default:
		return "unknown"
	}
}

// Case pairs one argument bundle with its expected value. Watch
// is only used by ByReference probes and must be a pointer or an
// args.Reference.
type Case struct {
	Args     args.Bundle
	Watch    any
	Expected any
}

// Probe is a function under test together with its comparator
// and cases. Build one with ByValue, ByReference, Method or
// BoundMethod and chain Expect/ExpectRef calls.
type Probe struct {
	shape   Shape
	target  any
	bind    func() (*binder.Binding, error)
	compare comparator.Comparator
	cases   []Case
}

// ByValue probes fn, which must return exactly one value.
func ByValue(fn any) *Probe {
	return &Probe{shape: ShapeByValue, target: fn}
}

// ByReference probes fn through variables it mutates. Its return
// values, if any, are ignored.
func ByReference(fn any) *Probe {
	return &Probe{shape: ShapeByReference, target: fn}
}

// Method probes a method on an instance built by ctor from
// ctorArgs. A fresh instance is constructed on every Run and is
// shared by all cases of that run. See binder.Bind for the
// accepted ctor and method forms.
func Method(ctor any, ctorArgs args.Bundle, method any) *Probe {
	return &Probe{
		shape: ShapeBoundMethod,
		bind: func() (*binder.Binding, error) {
			return binder.Bind(ctor, ctorArgs, method)
		},
	}
}

// BoundMethod probes the method of an existing binding. Every Run
// reuses the binding's instance.
func BoundMethod(b *binder.Binding) *Probe {
	return &Probe{
		shape: ShapeBoundMethod,
		bind: func() (*binder.Binding, error) {
			return b, nil
		},
	}
}

// Compare sets the comparator. The default is comparator.Equal.
func (p *Probe) Compare(c comparator.Comparator) *Probe {
	p.compare = c
	return p
}

// Expect appends a case expecting fn(b...) to satisfy the
// comparator against expected.
func (p *Probe) Expect(b args.Bundle, expected any) *Probe {
	p.cases = append(p.cases, Case{Args: b, Expected: expected})
	return p
}

// ExpectRef appends a case that, after calling fn(b...), compares
// the variable watch points to against expected.
func (p *Probe) ExpectRef(b args.Bundle, watch, expected any) *Probe {
	p.cases = append(p.cases, Case{
		Args: b, Watch: watch, Expected: expected,
	})
	return p
}

// Shape returns the probe's call shape.
func (p *Probe) Shape() Shape { return p.shape }

// Len returns the number of cases.
func (p *Probe) Len() int { return len(p.cases) }

// Run validates every case, then invokes them in order and folds
// the comparisons. Validation errors are test-authoring defects
// and are returned before anything is invoked.
func (p *Probe) Run() (Result, error) {
	return p.RunWith(comparator.Equal)
}

// RunWith is Run with fallback used as the comparator when none
// was set with Compare.
func (p *Probe) RunWith(fallback comparator.Comparator) (Result, error) {
	if len(p.cases) == 0 {
		return Result{}, ErrNoCases
	}

	fn, err := p.resolve()
	if err != nil {
		return Result{}, err
	}

	plan, err := p.plan(fn)
	if err != nil {
		return Result{}, err
	}

	compare := p.compare
	if compare == nil {
		compare = fallback
	}
	if compare == nil {
		compare = comparator.Equal
	}

	outcomes := make([]CaseResult, len(plan))
	for i, s := range plan {
		rendered := s.args.String()
		actual := s.invoke()
		outcomes[i] = CaseResult{
			Index:    i + 1,
			Args:     rendered,
			Actual:   actual,
			Expected: s.expected,
			Passed:   compare(actual, s.expected),
		}
	}
	return fold(outcomes), nil
}

// step is a validated, ready-to-invoke case.
type step struct {
	args     args.Bundle
	expected any
	invoke   func() any
}

func (p *Probe) resolve() (*callable.Func, error) {
	if p.shape == ShapeBoundMethod {
		b, err := p.bind()
		if err != nil {
			return nil, err
		}
		return b.Callable(), nil
	}
	return callable.New(p.target)
}

func (p *Probe) plan(fn *callable.Func) ([]step, error) {
	var result reflect.Type
	if p.shape != ShapeByReference {
		rt, err := fn.ResultType()
		if err != nil {
			return nil, err
		}
		result = rt
	}

	steps := make([]step, len(p.cases))
	for i, c := range p.cases {
		if err := fn.Check(c.Args); err != nil {
			return nil, fmt.Errorf("case %d: %w", i+1, err)
		}

		s, err := p.planCase(fn, c, result)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i+1, err)
		}
		steps[i] = s
	}
	return steps, nil
}

func (p *Probe) planCase(
	fn *callable.Func,
	c Case,
	result reflect.Type,
) (step, error) {
	b := c.Args

	if p.shape != ShapeByReference {
		if c.Watch != nil {
			return step{}, fmt.Errorf(
				"%w: watched variable on %s probe",
				ErrShape, p.shape,
			)
		}
		exp, err := callable.ConvertExpected(c.Expected, result)
		if err != nil {
			return step{}, err
		}
		return step{
			args:     b,
			expected: exp.Interface(),
			invoke: func() any {
				return fn.Call(b)[0].Interface()
			},
		}, nil
	}

	watch, err := watched(c.Watch)
	if err != nil {
		return step{}, err
	}
	exp, err := callable.ConvertExpected(c.Expected, watch.Type().Elem())
	if err != nil {
		return step{}, err
	}
	return step{
		args:     b,
		expected: exp.Interface(),
		invoke: func() any {
			fn.Call(b)
			return watch.Elem().Interface()
		},
	}, nil
}

func watched(w any) (reflect.Value, error) {
	switch x := w.(type) {
	case nil:
		return reflect.Value{}, fmt.Errorf(
			"%w: %s case without watched variable",
			ErrShape, ShapeByReference,
		)
	case args.Reference:
		if !x.Pointer().IsValid() {
			return reflect.Value{}, fmt.Errorf(
				"%w: zero args.Reference", ErrShape,
			)
		}
		return x.Pointer(), nil
	}
	v := reflect.ValueOf(w)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, fmt.Errorf(
			"%w: watched value %T is not a non-nil pointer",
			ErrShape, w,
		)
	}
	return v, nil
}
