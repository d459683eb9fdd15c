package callable

import "errors"

// Sentinel errors describing test-authoring defects. They are
// always returned wrapped with context; compare with errors.Is.
var (
	// ErrNotFunc is returned when the supplied value is not a
	// non-nil function.
	ErrNotFunc = errors.New("not a function")

	// ErrArity is returned when a bundle's length does not match
	// the function's parameter count.
	ErrArity = errors.New("argument count mismatch")

	// ErrArgType is returned when a bundled value is not
	// assignable to the corresponding parameter.
	ErrArgType = errors.New("argument type mismatch")

	// ErrResultShape is returned when the function's results do
	// not fit the requested call shape.
	ErrResultShape = errors.New("unsupported result shape")

	// ErrNotConvertible is returned when an expected value cannot
	// be converted to the type it is compared against.
	ErrNotConvertible = errors.New("expected value not convertible")
)
