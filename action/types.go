// Package action defines the value dispatched through a store: the Action
// envelope, its routing/priority markers, dispatch options, the observer
// event taxonomy used for logic tracing, and the package's sentinel errors.
package action

import (
	"time"

	"github.com/google/uuid"
)

// ActionType is a typed, named action identifier. A Module that owns
// ActionType[T] values is expected to produce Actions whose ModuleTag
// equals the module's registered identity and whose Type equals one of its
// ActionTypes' Name.
type ActionType[T any] struct {
	Name string
}

// DefineAction creates a new ActionType. Name should be unique within the
// application; it is not validated here, the same way the store's
// duplicate-state check is a build-time, not a define-time, concern.
func DefineAction[T any](name string) ActionType[T] {
	return ActionType[T]{Name: name}
}

// Action is the value dispatched to a store. ModuleTag is the routing key
// the dispatcher uses to find the owning module (spec §4.1); it is
// ordinarily the module's registered identity. HighPriority actions are
// drained ahead of every normal-priority action (spec §3 invariant 6).
type Action[T any] struct {
	Type          string
	ModuleTag     string
	Payload       T
	Meta          map[string]any
	Time          time.Time
	Source        string
	TraceID       string
	CorrelationID string
	HighPriority  bool
}

// Envelope is implemented by any concrete action value a store can route:
// Action[T] satisfies it for every T, but application code may also define
// its own action structs as long as they implement Envelope.
type Envelope interface {
	RoutingTag() string
	IsHighPriority() bool
	Correlation() string
}

// RoutingTag returns the module tag used to route this action.
func (a Action[T]) RoutingTag() string { return a.ModuleTag }

// IsHighPriority reports whether this action must be drained ahead of
// normal-priority actions.
func (a Action[T]) IsHighPriority() bool { return a.HighPriority }

// Correlation returns the action's correlation id, used to tie together
// observer events for the logic invocation this action triggers.
func (a Action[T]) Correlation() string { return a.CorrelationID }

// New builds an Action for actionType's payload, tagged for module and
// stamped with a fresh correlation id.
func New[T any](actionType ActionType[T], module string, payload T, opts ...DispatchOption) Action[T] {
	cfg := dispatchOptions{context: Context{Meta: make(map[string]any), Time: time.Now()}}
	for _, o := range opts {
		o.applyDispatch(&cfg)
	}
	return Action[T]{
		Type:          actionType.Name,
		ModuleTag:     module,
		Payload:       payload,
		Meta:          cfg.context.Meta,
		Time:          cfg.context.Time,
		Source:        cfg.context.Source,
		TraceID:       cfg.context.TraceID,
		CorrelationID: uuid.NewString(),
		HighPriority:  cfg.highPriority,
	}
}

// Context carries cross-cutting dispatch metadata (scope, trace id, source,
// arbitrary key/value pairs) alongside an Action.
type Context struct {
	Scope   string
	Meta    map[string]any
	Time    time.Time
	TraceID string
	Source  string
}

// MetaWith returns a copy of c with key set to value. The receiver is left
// unmodified.
func (c Context) MetaWith(key string, value any) Context {
	newMeta := make(map[string]any, len(c.Meta)+1)
	for k, v := range c.Meta {
		newMeta[k] = v
	}
	newMeta[key] = value
	return Context{Scope: c.Scope, Meta: newMeta, Time: c.Time, TraceID: c.TraceID, Source: c.Source}
}

// MetaValue looks up key in c.Meta.
func (c Context) MetaValue(key string) (any, bool) {
	if c.Meta == nil {
		return nil, false
	}
	v, ok := c.Meta[key]
	return v, ok
}
