// Package args packs heterogeneous values into ordered argument
// bundles that are handed to a function under test in a single
// invocation.
package args

import (
	"fmt"
	"reflect"
	"strings"
)

// Bundle is an ordered, fixed-arity sequence of argument values.
// A Bundle is consumed by exactly one invocation; values it holds
// are passed through without coercion.
type Bundle struct {
	values []any
}

// Pack returns a Bundle holding values in the given order.
func Pack(values ...any) Bundle {
	b := Bundle{values: make([]any, len(values))}
	copy(b.values, values)
	return b
}

// Empty returns a Bundle with no arguments.
func Empty() Bundle { return Bundle{} }

// Len returns the number of values in the bundle.
func (b Bundle) Len() int { return len(b.values) }

// At returns the i-th value. It panics if i is out of range.
func (b Bundle) At(i int) any { return b.values[i] }

// Values returns a copy of the bundled values.
func (b Bundle) Values() []any {
	out := make([]any, len(b.values))
	copy(out, b.values)
	return out
}

// String renders the bundle as a parenthesised argument list,
// e.g. "(1, 2, 3)". References render as "&<current value>".
func (b Bundle) String() string {
	parts := make([]string, len(b.values))
	for i, v := range b.values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Reference is a mutable alias to a caller-owned variable. It is
// created with Ref.
type Reference struct {
	ptr reflect.Value
}

// Ref captures ptr, which must be a non-nil pointer, as a mutable
// alias rather than a copy. When the receiving parameter is a
// pointer the pointer itself is passed; when it is the element
// type, the variable's value is read at invocation time.
//
// Ref panics if ptr is not a non-nil pointer.
func Ref(ptr any) Reference {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		panic(fmt.Sprintf("args.Ref: expected non-nil pointer, got %T", ptr))
	}
	return Reference{ptr: v}
}

// Pointer returns the captured pointer value.
func (r Reference) Pointer() reflect.Value { return r.ptr }

// Elem returns the current value of the referenced variable.
func (r Reference) Elem() reflect.Value { return r.ptr.Elem() }

// Get returns the current value of the referenced variable as an
// interface value.
func (r Reference) Get() any { return r.ptr.Elem().Interface() }

// String renders the reference as "&" followed by the current
// value of the referenced variable.
func (r Reference) String() string {
	return fmt.Sprintf("&%v", r.Get())
}
