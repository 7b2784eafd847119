package store

import "github.com/ozanturksever/reaktiv-go/action"

// Next advances an action through the remainder of the middleware chain.
// Passed act (the same value a middleware received) continues on toward
// the base handler and returns that action owner's post-commit state.
// Passed a different action, act is re-dispatched through the full
// pipeline from the top, and Next still returns the current state of the
// original action's module, not the new action's (spec §4.4).
type Next func(act action.Envelope) (any, error)

// Middleware wraps the dispatch of every action passing through the store.
// getStates returns a snapshot of every module's current state, keyed by
// routing tag, letting a middleware make cross-module decisions without
// itself becoming a module. Middlewares run single-threaded, in the order
// they were registered, with at most one action in flight through the
// chain at a time (spec §4.4 invariant).
type Middleware func(act action.Envelope, getStates func() map[string]any, accessor Accessor, next Next) (any, error)

// buildChain composes mws right-to-left around base, caching the result:
// the outermost middleware is the first to see every action, and the
// innermost Next resolves to base once there are no more middlewares to
// pass through.
func (s *Store) buildChain() func(action.Envelope) (any, error) {
	h := s.baseHandler
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		mw := s.middlewares[i]
		inner := h
		h = func(original action.Envelope) (any, error) {
			next := func(act action.Envelope) (any, error) {
				if act.Correlation() == original.Correlation() {
					return inner(act)
				}
				if err := s.enqueue(act); err != nil {
					return nil, err
				}
				info, ok := s.registry.lookupTag(original.RoutingTag())
				if !ok {
					return nil, unknownModuleErr(original.RoutingTag())
				}
				return info.cell.Get(), nil
			}
			return mw(original, s.snapshotStates, s.accessor, next)
		}
	}
	return h
}
