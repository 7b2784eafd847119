package store

import (
	"context"
	"fmt"
	"reflect"

	"github.com/ozanturksever/reaktiv-go/action"
	"github.com/ozanturksever/reaktiv-go/reactivity"
)

// Accessor is the capability a Module's logic (and the middleware chain)
// is given to interact with the rest of the store: dispatch further
// actions, and resolve another module's state or logic by type (spec
// §4.6). It is the type-erased surface behind the package-level generic
// helpers SelectState and SelectLogic.
type Accessor interface {
	// Dispatch enqueues act the same way the store's own Dispatch does.
	Dispatch(act action.Envelope) error

	// selectStateAny resolves the reactive cell for the module whose state
	// type matches discriminator, briefly holding the state-mutation lock
	// to look it up and clone a subscription (spec §4.6); the lock is not
	// held during observation.
	selectStateAny(discriminator string) (reactivity.Subscription[any], error)

	// selectLogicAny resolves the logic value for the module whose logic
	// type matches discriminator.
	selectLogicAny(discriminator string) (Logic, error)
}

// typeKey derives the stable string discriminator used to index a module's
// state or logic type: its reflect.Type's String() form. Two distinct
// named types with identical underlying structure get different keys when
// their names differ; String() qualifies a name by package name only, not
// import path, so same-named types in two packages of the same name share
// a key.
func typeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// typedSubscription adapts a type-erased reactivity.Subscription[any] into
// a reactivity.Subscription[T], asserting each delivered value back to T.
// The registry only ever stores values of the module's declared state
// type in the underlying cell, so the assertion cannot fail in practice;
// it is checked anyway rather than trusted blindly.
type typedSubscription[T any] struct {
	inner reactivity.Subscription[any]
}

func (s *typedSubscription[T]) Next(ctx context.Context) (T, bool) {
	v, ok := s.inner.Next(ctx)
	if !ok {
		var zero T
		return zero, false
	}
	tv, ok := v.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return tv, true
}

func (s *typedSubscription[T]) TryNext() (T, bool) {
	v, ok := s.inner.TryNext()
	if !ok {
		var zero T
		return zero, false
	}
	tv, ok := v.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return tv, true
}

func (s *typedSubscription[T]) Dispose() error { return s.inner.Dispose() }
func (s *typedSubscription[T]) IsActive() bool { return s.inner.IsActive() }

// SelectState resolves the live, reactive subscription for the state owned
// by whichever module declared T as its state type (spec §4.6). It fails
// with action.ErrUnknownState if no module registered T.
func SelectState[T any](a Accessor) (reactivity.Subscription[T], error) {
	var zero T
	sub, err := a.selectStateAny(typeKey(zero))
	if err != nil {
		return nil, err
	}
	return &typedSubscription[T]{inner: sub}, nil
}

// SelectLogic resolves the logic value of type T, whichever module
// constructed it via CreateLogic. It fails with action.ErrUnknownLogic if
// no module's logic has type T.
func SelectLogic[T Logic](a Accessor) (T, error) {
	var zero T
	l, err := a.selectLogicAny(typeKey(zero))
	if err != nil {
		return zero, err
	}
	typed, ok := l.(T)
	if !ok {
		return zero, fmt.Errorf("%w: logic registered under this type does not implement the requested interface", action.ErrUnknownLogic)
	}
	return typed, nil
}
