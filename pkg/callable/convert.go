package callable

import (
	"fmt"
	"reflect"
)

// ConvertExpected converts an expected value to type to so that it
// can be compared against an actual result of that type. Values
// already assignable are returned unchanged (boxed into to), nil
// becomes the zero value of a nillable type, and other values are
// converted with Go conversion rules. Integer to string
// conversions are rejected since they produce a rune rather than a
// numeral.
func ConvertExpected(
	expected any,
	to reflect.Type,
) (reflect.Value, error) {
	if expected == nil {
		if nillable(to) {
			return reflect.Zero(to), nil
		}
		return reflect.Value{}, fmt.Errorf(
			"%w: nil to %s", ErrNotConvertible, to,
		)
	}

	v := reflect.ValueOf(expected)
	from := v.Type()

	if from.AssignableTo(to) {
		out := reflect.New(to).Elem()
		out.Set(v)
		return out, nil
	}

	if isInteger(from.Kind()) && to.Kind() == reflect.String {
		return reflect.Value{}, fmt.Errorf(
			"%w: %s to %s", ErrNotConvertible, from, to,
		)
	}

	if from.Kind() == reflect.Slice && v.Len() < arrayLen(to) {
		return reflect.Value{}, fmt.Errorf(
			"%w: slice of length %d to %s",
			ErrNotConvertible, v.Len(), to,
		)
	}

	if !from.ConvertibleTo(to) {
		return reflect.Value{}, fmt.Errorf(
			"%w: %s to %s", ErrNotConvertible, from, to,
		)
	}
	return v.Convert(to), nil
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64, reflect.Uint,
		reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// arrayLen returns the length of an array type or of the array a
// pointer type points to, and 0 otherwise.
func arrayLen(t reflect.Type) int {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Array {
		return t.Len()
	}
	return 0
}
