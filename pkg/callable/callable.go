// Package callable wraps arbitrary Go function values so they can
// be validated against argument bundles before any invocation and
// then called uniformly.
package callable

import (
	"fmt"
	"reflect"

	"digital.vasic.probe/pkg/args"
)

// Func is a validated function value.
type Func struct {
	name string
	fn   reflect.Value
}

// New wraps fn, which must be a non-nil function.
func New(fn any) (*Func, error) {
	if fn == nil {
		return nil, fmt.Errorf("callable: %w: <nil>", ErrNotFunc)
	}
	return FromValue(reflect.ValueOf(fn), fmt.Sprintf("%T", fn))
}

// Must is like New but panics on error.
func Must(fn any) *Func {
	f, err := New(fn)
	if err != nil {
		panic(err)
	}
	return f
}

// FromValue wraps an already reflected function value. The name
// is used in error messages only.
func FromValue(v reflect.Value, name string) (*Func, error) {
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf(
			"callable %s: %w", name, ErrNotFunc,
		)
	}
	return &Func{name: name, fn: v}, nil
}

// Name returns the descriptive name of the function.
func (f *Func) Name() string { return f.name }

// Type returns the function's type.
func (f *Func) Type() reflect.Type { return f.fn.Type() }

// ResultType returns the single result type of the function. It
// returns ErrResultShape when the function does not have exactly
// one result.
func (f *Func) ResultType() (reflect.Type, error) {
	t := f.fn.Type()
	if t.NumOut() != 1 {
		return nil, fmt.Errorf(
			"callable %s: %w: want 1 result, have %d",
			f.name, ErrResultShape, t.NumOut(),
		)
	}
	return t.Out(0), nil
}

// Check reports whether b can be passed to the function: the
// arity must match (variadic aware) and every value must be
// assignable to its parameter without coercion.
func (f *Func) Check(b args.Bundle) error {
	t := f.fn.Type()
	n := b.Len()

	if t.IsVariadic() {
		if n < t.NumIn()-1 {
			return fmt.Errorf(
				"callable %s: %w: want at least %d, have %d",
				f.name, ErrArity, t.NumIn()-1, n,
			)
		}
	} else if n != t.NumIn() {
		return fmt.Errorf(
			"callable %s: %w: want %d, have %d",
			f.name, ErrArity, t.NumIn(), n,
		)
	}

	for i := 0; i < n; i++ {
		param := paramType(t, i)
		if !assignable(b.At(i), param) {
			return fmt.Errorf(
				"callable %s: %w: argument %d is %s, want %s",
				f.name, ErrArgType, i+1,
				describe(b.At(i)), param,
			)
		}
	}
	return nil
}

// Call invokes the function with b and returns its results.
// Call assumes Check succeeded; panics raised by the function
// propagate to the caller.
func (f *Func) Call(b args.Bundle) []reflect.Value {
	t := f.fn.Type()
	in := make([]reflect.Value, b.Len())
	for i := range in {
		in[i] = argValue(b.At(i), paramType(t, i))
	}
	return f.fn.Call(in)
}

func paramType(t reflect.Type, i int) reflect.Type {
	if t.IsVariadic() && i >= t.NumIn()-1 {
		return t.In(t.NumIn() - 1).Elem()
	}
	return t.In(i)
}

func assignable(v any, param reflect.Type) bool {
	switch x := v.(type) {
	case nil:
		return nillable(param)
	case args.Reference:
		pt := x.Pointer().Type()
		return pt.AssignableTo(param) ||
			pt.Elem().AssignableTo(param)
	}
	return reflect.TypeOf(v).AssignableTo(param)
}

func argValue(v any, param reflect.Type) reflect.Value {
	switch x := v.(type) {
	case nil:
		return reflect.Zero(param)
	case args.Reference:
		if x.Pointer().Type().AssignableTo(param) {
			return x.Pointer()
		}
		// Element parameters see the variable as it is now.
		return x.Elem()
	}
	return reflect.ValueOf(v)
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map,
		reflect.Slice, reflect.Func, reflect.Chan,
		reflect.UnsafePointer:
		return true
	}
	return false
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case args.Reference:
		return "reference to " + x.Pointer().Type().Elem().String()
	}
	return reflect.TypeOf(v).String()
}
