// Package store implements the Reaktiv runtime: a registry of modules,
// a two-tier priority dispatcher, a right-to-left middleware chain, typed
// state/logic selection, and the external-state override and persistence
// surfaces built on top of them.
package store

import (
	"context"

	"github.com/ozanturksever/reaktiv-go/action"
	"github.com/ozanturksever/reaktiv-go/persistence"
	"github.com/ozanturksever/reaktiv-go/reactivity"
)

// Module owns one typed state slice, its pure reducer, and the logic that
// reacts to committed actions. A store is built from a fixed set of
// Modules; each contributes exactly one state type and one logic type to
// the registry.
type Module interface {
	// Tag returns the module's routing identity. Actions whose RoutingTag
	// matches this value are dispatched to this module's reducer.
	Tag() string

	// InitialState returns the module's state before any action has been
	// applied. Called once, at build time.
	InitialState() any

	// Reduce computes the next state from the current state and an
	// incoming action. It must be a pure function: no I/O, no blocking,
	// no mutation of state outside its return value (spec §3 invariant 1).
	Reduce(state any, act action.Envelope) any

	// CreateLogic constructs the module's logic value, given an accessor
	// scoped to the store it is being registered into. Called once, after
	// every module's state has been registered (spec §4.5 step 4).
	CreateLogic(accessor Accessor) Logic
}

// Logic is the asynchronous counterpart to a Module's reducer: invoked
// after every commit to that module's state, on the store's scope,
// fire-and-forget with respect to the dispatch that triggered it.
type Logic interface {
	Handle(ctx context.Context, act action.Envelope) error
}

// Merger is an optional capability a Module may implement to control how
// an externally supplied state value is combined with the module's current
// state during ApplyExternalStates (spec §4.8). A Module that does not
// implement Merger has its external state replace the current value
// outright.
type Merger interface {
	Merge(local, incoming any) any
}

// TypeRegistrar is an optional capability a Module may implement to
// register nested polymorphic types with the store's persistence codec
// beyond its own top-level state type (spec §6).
type TypeRegistrar interface {
	RegisterTypes(codec *persistence.Codec)
}

// moduleInfo is the registry's per-module triple: the module itself, the
// reactive cell backing its state, and its constructed logic value,
// indexed by both its state type and its logic type (spec §3).
type moduleInfo struct {
	tag       string
	module    Module
	cell      *reactivity.ReactiveCell[any]
	logic     Logic
	stateType string
	logicType string
}
