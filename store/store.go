package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ozanturksever/reaktiv-go/action"
	"github.com/ozanturksever/reaktiv-go/internal/rlog"
	"github.com/ozanturksever/reaktiv-go/persistence"
	"github.com/ozanturksever/reaktiv-go/reactivity"
)

// Store is a running Reaktiv runtime: a fixed module registry, a
// two-lane priority dispatcher draining into a cached middleware chain,
// and the reactive cells each module's state lives in.
type Store struct {
	registry    *registry
	middlewares []Middleware
	persist     *persistence.Manager
	codec       *persistence.Codec

	mu    sync.RWMutex // state-mutation lock (spec §5)
	scope *reactivity.Scope

	queues         *priorityQueues
	chain          func(action.Envelope) (any, error)
	dispatcherDone chan struct{}
	cancelDispatch context.CancelFunc
	rootCtx        context.Context

	accessor Accessor

	initialized reactivity.Signal[bool]
	closed      reactivity.Signal[bool]

	logger        rlog.Logger
	queueWarnSize int
}

// Dispatch enqueues act onto the appropriate priority lane. It is
// non-blocking and returns once the action has been queued, not once it
// has run (spec §4.1). Returns action.ErrStoreClosed after Cleanup.
func (s *Store) Dispatch(act action.Envelope) error {
	return s.enqueue(act)
}

// Accessor returns the same capability handed to every module's logic and
// middleware, for use with the package-level SelectState/SelectLogic
// helpers from application code outside the store package.
func (s *Store) Accessor() Accessor {
	return s.accessor
}

// SaveState persists every module's current state via the configured
// backend. Returns action.ErrNoPersistence if the store was built without
// one.
func (s *Store) SaveState() error {
	if s.persist == nil {
		return action.ErrNoPersistence
	}
	s.mu.RLock()
	states := make(map[string]any, len(s.registry.order))
	for _, info := range s.registry.order {
		states[info.stateType] = info.cell.Get()
	}
	s.mu.RUnlock()
	return s.persist.Save(states)
}

// LoadState reads persisted state via the configured backend and commits
// it into each matching module's cell. Modules with no corresponding entry
// in the persisted layout keep their current state. Returns
// action.ErrNoPersistence if the store was built without a backend.
func (s *Store) LoadState() error {
	if s.persist == nil {
		return action.ErrNoPersistence
	}
	states, ok, err := s.persist.Load()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, info := range s.registry.order {
		if v, present := states[info.stateType]; present {
			info.cell.Commit(v)
		}
	}
	return nil
}

// HasPersistedState reports whether the configured backend has anything to
// load. Returns action.ErrNoPersistence if the store was built without
// one.
func (s *Store) HasPersistedState() (bool, error) {
	if s.persist == nil {
		return false, action.ErrNoPersistence
	}
	return s.persist.HasPersistedState()
}

func (s *Store) logDispatchError(act action.Envelope, err error) {
	s.logger.Errorf("dispatch tag=%s corr=%s: %v", act.RoutingTag(), act.Correlation(), err)
}

type accessorImpl struct {
	s *Store
}

func (a *accessorImpl) Dispatch(act action.Envelope) error {
	return a.s.enqueue(act)
}

// selectStateAny resolves a state subscription without waiting on a
// separate initialization barrier: Build runs the init protocol
// synchronously, so the registry's state half is already fully populated
// by the time any caller — post-Build application code, or a goroutine a
// module's CreateLogic spawns — can reach this method.
//
// The lock is held across both the registry lookup and the Subscribe call,
// not just the lookup: ReactiveCell.Subscribe seeds its buffer from a
// Get() and registers into the subscriber set as two separate steps, so a
// commit landing between them would be neither captured as the seed nor
// delivered via publish. baseHandler holds this same lock across its
// entire read-reduce-commit sequence, so holding it here too guarantees a
// subscription is cloned either entirely before or entirely after any
// given commit (spec §4.6).
func (a *accessorImpl) selectStateAny(discriminator string) (reactivity.Subscription[any], error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	info, ok := a.s.registry.lookupState(discriminator)
	if !ok {
		return nil, fmt.Errorf("%w: %s", action.ErrUnknownState, discriminator)
	}
	return info.cell.Subscribe(), nil
}

// selectLogicAny resolves a logic handle. Only reachable for another
// module's logic once that module's own CreateLogic has run, which the
// fixed construction order in Build already guarantees for any logic that
// exists by the time this is called from outside Build itself.
func (a *accessorImpl) selectLogicAny(discriminator string) (Logic, error) {
	a.s.mu.RLock()
	info, ok := a.s.registry.lookupLogic(discriminator)
	a.s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", action.ErrUnknownLogic, discriminator)
	}
	return info.logic, nil
}
