// Package binder constructs an instance of a type under test and
// exposes one of its methods as a plain callable, so method calls
// can be probed the same way as free functions.
//
// One Binding owns exactly one instance. Every call made through
// the Binding's callable reaches that same instance, so side
// effects accumulate across calls in call order. A Binding is not
// safe for concurrent use.
package binder

import (
	"errors"
	"fmt"
	"reflect"

	"digital.vasic.probe/pkg/args"
	"digital.vasic.probe/pkg/callable"
)

var (
	// ErrConstruct is returned when the constructor reports an
	// error.
	ErrConstruct = errors.New("constructor failed")

	// ErrNoMethod is returned when the named method does not
	// exist on the constructed instance.
	ErrNoMethod = errors.New("method not found")

	// ErrReceiver is returned when a method expression's
	// receiver does not accept the constructed instance.
	ErrReceiver = errors.New("receiver type mismatch")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Binding is a constructed instance together with a callable that
// forwards to one of its methods.
type Binding struct {
	instance reflect.Value
	method   *callable.Func
}

// Bind calls ctor with ctorArgs to build one instance, then binds
// method to it. ctor must return T or (T, error). method is either
// a method expression such as (*Counter).Add or a method name.
func Bind(
	ctor any,
	ctorArgs args.Bundle,
	method any,
) (*Binding, error) {
	c, err := callable.New(ctor)
	if err != nil {
		return nil, fmt.Errorf("bind constructor: %w", err)
	}
	if err := c.Check(ctorArgs); err != nil {
		return nil, fmt.Errorf("bind constructor: %w", err)
	}

	t := c.Type()
	withErr := t.NumOut() == 2 && t.Out(1) == errorType
	if t.NumOut() != 1 && !withErr {
		return nil, fmt.Errorf(
			"bind constructor %s: %w: want T or (T, error)",
			c.Name(), callable.ErrResultShape,
		)
	}

	out := c.Call(ctorArgs)
	if withErr && !out[1].IsNil() {
		return nil, fmt.Errorf(
			"bind %s: %w: %w",
			c.Name(), ErrConstruct, out[1].Interface().(error),
		)
	}

	instance := addressable(out[0])

	var bound *callable.Func
	switch m := method.(type) {
	case string:
		bound, err = byName(instance, m)
	default:
		bound, err = byExpression(instance, m)
	}
	if err != nil {
		return nil, err
	}

	return &Binding{instance: instance, method: bound}, nil
}

// MustBind is like Bind but panics on error.
func MustBind(ctor any, ctorArgs args.Bundle, method any) *Binding {
	b, err := Bind(ctor, ctorArgs, method)
	if err != nil {
		panic(err)
	}
	return b
}

// Callable returns the callable forwarding to the bound method.
func (b *Binding) Callable() *callable.Func { return b.method }

// Instance returns the owned instance. Constructors returning a
// non-pointer value have it stored behind a pointer so that
// pointer-receiver methods observe and keep mutations.
func (b *Binding) Instance() any { return b.instance.Interface() }

// addressable moves non-pointer, non-interface values behind a
// fresh pointer.
func addressable(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p
}

func byName(instance reflect.Value, name string) (*callable.Func, error) {
	m := instance.MethodByName(name)
	if !m.IsValid() {
		return nil, fmt.Errorf(
			"bind %s.%s: %w",
			instance.Type(), name, ErrNoMethod,
		)
	}
	return callable.FromValue(m, instance.Type().String()+"."+name)
}

func byExpression(instance reflect.Value, expr any) (*callable.Func, error) {
	mf, err := callable.New(expr)
	if err != nil {
		return nil, fmt.Errorf("bind method: %w", err)
	}
	mt := mf.Type()
	if mt.NumIn() == 0 {
		return nil, fmt.Errorf(
			"bind %s: %w: no receiver parameter",
			mf.Name(), ErrReceiver,
		)
	}

	recv, ok := receiver(instance, mt.In(0))
	if !ok {
		return nil, fmt.Errorf(
			"bind %s: %w: %s does not accept %s",
			mf.Name(), ErrReceiver, mt.In(0), instance.Type(),
		)
	}

	in := make([]reflect.Type, mt.NumIn()-1)
	for i := range in {
		in[i] = mt.In(i + 1)
	}
	out := make([]reflect.Type, mt.NumOut())
	for i := range out {
		out[i] = mt.Out(i)
	}

	fv := reflect.ValueOf(expr)
	ft := reflect.FuncOf(in, out, mt.IsVariadic())
	bound := reflect.MakeFunc(ft, func(params []reflect.Value) []reflect.Value {
		full := append([]reflect.Value{recv()}, params...)
		if mt.IsVariadic() {
			return fv.CallSlice(full)
		}
		return fv.Call(full)
	})

	return callable.FromValue(bound, mf.Name())
}

// receiver picks the pointer or the pointed-to value depending on
// what the method expression expects. Value receivers are read
// through the pointer on every call so they see the current state.
func receiver(
	instance reflect.Value,
	want reflect.Type,
) (func() reflect.Value, bool) {
	if instance.Type().AssignableTo(want) {
		return func() reflect.Value { return instance }, true
	}
	if instance.Kind() == reflect.Pointer &&
		instance.Type().Elem().AssignableTo(want) {
		return func() reflect.Value { return instance.Elem() }, true
	}
	return nil, false
}
