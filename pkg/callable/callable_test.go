package callable

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.probe/pkg/args"
)

func mul3(a, b, c int) int { return a * b * c }

func sum(base int, rest ...int) int {
	for _, r := range rest {
		base += r
	}
	return base
}

func double(x int) int { return 2 * x }

func triple(x *int) { *x *= 3 }

func length(s []int) int { return len(s) }

func TestNew(t *testing.T) {
	f, err := New(mul3)
	require.NoError(t, err)
	assert.Equal(t, "func(int, int, int) int", f.Name())
	assert.Equal(t, reflect.TypeOf(mul3), f.Type())

	_, err = New(nil)
	assert.ErrorIs(t, err, ErrNotFunc)

	_, err = New(42)
	assert.ErrorIs(t, err, ErrNotFunc)

	var nilFn func()
	_, err = New(nilFn)
	assert.ErrorIs(t, err, ErrNotFunc)

	assert.Panics(t, func() { Must("nope") })
	assert.NotPanics(t, func() { Must(mul3) })
}

func TestResultType(t *testing.T) {
	rt, err := Must(mul3).ResultType()
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(0), rt)

	_, err = Must(triple).ResultType()
	assert.ErrorIs(t, err, ErrResultShape)

	_, err = Must(func() (int, error) { return 0, nil }).ResultType()
	assert.ErrorIs(t, err, ErrResultShape)
}

func TestCheck(t *testing.T) {
	v := 3
	tests := []struct {
		name string
		fn   any
		b    args.Bundle
		want error
	}{
		{"exact", mul3, args.Pack(1, 2, 3), nil},
		{"too few", mul3, args.Pack(1, 2), ErrArity},
		{"too many", mul3, args.Pack(1, 2, 3, 4), ErrArity},
		{"wrong type", mul3, args.Pack(1, 2, "3"), ErrArgType},
		{"no coercion", mul3, args.Pack(1, 2, int64(3)), ErrArgType},
		{"variadic bare", sum, args.Pack(1), nil},
		{"variadic extra", sum, args.Pack(1, 2, 3), nil},
		{"variadic missing", sum, args.Empty(), ErrArity},
		{"variadic wrong type", sum, args.Pack(1, "x"), ErrArgType},
		{"nil slice", length, args.Pack(nil), nil},
		{"nil int", double, args.Pack(nil), ErrArgType},
		{"reference as pointer", triple, args.Pack(args.Ref(&v)), nil},
		{"reference as value", double, args.Pack(args.Ref(&v)), nil},
		{"plain pointer", triple, args.Pack(&v), nil},
		{"reference wrong type", length, args.Pack(args.Ref(&v)), ErrArgType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Must(tt.fn).Check(tt.b)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCall(t *testing.T) {
	out := Must(mul3).Call(args.Pack(2, 3, 4))
	require.Len(t, out, 1)
	assert.Equal(t, 24, out[0].Interface())

	out = Must(sum).Call(args.Pack(1, 2, 3))
	assert.Equal(t, 6, out[0].Interface())

	out = Must(length).Call(args.Pack(nil))
	assert.Equal(t, 0, out[0].Interface())
}

func TestCall_Reference(t *testing.T) {
	v := 3
	r := args.Ref(&v)

	Must(triple).Call(args.Pack(r))
	assert.Equal(t, 9, v)

	// Element parameters read the variable at call time.
	v = 5
	out := Must(double).Call(args.Pack(r))
	assert.Equal(t, 10, out[0].Interface())
}

func TestCall_PanicPropagates(t *testing.T) {
	f := Must(func(int) int { panic("boom") })
	assert.PanicsWithValue(t, "boom", func() {
		f.Call(args.Pack(1))
	})
}

func TestFromValue(t *testing.T) {
	f, err := FromValue(reflect.ValueOf(double), "double")
	require.NoError(t, err)
	assert.Equal(t, "double", f.Name())

	_, err = FromValue(reflect.Value{}, "invalid")
	assert.ErrorIs(t, err, ErrNotFunc)
}
