package comparator

import (
	"cmp"
	"math"
	"reflect"
)

// order returns -1, 0 or +1 for two values of the same ordered
// kind. The boolean is false when the values cannot be ordered,
// including NaN operands.
func order(a, b any) (int, bool) {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Kind() != vb.Kind() {
		return 0, false
	}

	switch va.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return cmp.Compare(va.Int(), vb.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(va.Uint(), vb.Uint()), true
	case reflect.Float32, reflect.Float64:
		x, y := va.Float(), vb.Float()
		if math.IsNaN(x) || math.IsNaN(y) {
			return 0, false
		}
		return cmp.Compare(x, y), true
	case reflect.String:
		return cmp.Compare(va.String(), vb.String()), true
	}
	return 0, false
}
