package store

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ozanturksever/reaktiv-go/action"
)

func unknownModuleErr(tag string) error {
	return fmt.Errorf("%w: %q", action.ErrUnknownModule, tag)
}

// enqueue pushes act onto the priority queues. Exported as Dispatch on
// Store and as the Accessor.Dispatch implementation.
func (s *Store) enqueue(act action.Envelope) error {
	if err := s.queues.push(act); err != nil {
		return err
	}
	if s.queueWarnSize > 0 {
		if depth := s.queues.len(); depth >= s.queueWarnSize {
			s.logger.Warnf("dispatch queue depth %d at or above queue_warn_size %d", depth, s.queueWarnSize)
		}
	}
	return nil
}

// runDispatcher is the store's single consumer: it pops one action at a
// time, favoring the high-priority lane, and runs it through the cached
// middleware chain. Grounded on the teacher's microtaskScheduler
// dispatcher/worker split (action/performance.go), collapsed to a single
// worker since the spec requires at most one action in flight through the
// chain at a time.
func (s *Store) runDispatcher(ctx context.Context) {
	defer close(s.dispatcherDone)
	for {
		act, ok := s.queues.pop(ctx)
		if !ok {
			return
		}
		s.handle(act)
		if !act.IsHighPriority() {
			// Cooperative yield after a normal-priority action so a
			// concurrently-enqueued high-priority action preempts the
			// next pop (spec §4.3).
			runtime.Gosched()
		}
	}
}

func (s *Store) handle(act action.Envelope) {
	if _, err := s.chain(act); err != nil {
		s.logDispatchError(act, err)
	}
}

// baseHandler is the innermost link of the middleware chain: it looks up
// the owning module, runs its reducer and commits the result under the
// state-mutation lock, then spawns the module's logic on the store's scope
// (spec §4.5 steps 5-6, invariant 2).
func (s *Store) baseHandler(act action.Envelope) (any, error) {
	info, ok := s.registry.lookupTag(act.RoutingTag())
	if !ok {
		return nil, unknownModuleErr(act.RoutingTag())
	}

	s.mu.Lock()
	current := info.cell.Get()
	next := info.module.Reduce(current, act)
	info.cell.Commit(next)
	s.mu.Unlock()

	s.scope.Go(func(ctx context.Context) error {
		s.invokeLogic(ctx, info, act)
		return nil
	})

	return next, nil
}

func (s *Store) invokeLogic(ctx context.Context, info *moduleInfo, act action.Envelope) {
	start := action.EmitLogicStart(info.logicType, "Handle", []string{act.RoutingTag()}, act.Correlation(), "")
	if err := info.logic.Handle(ctx, act); err != nil {
		action.EmitLogicFail(start, err)
		return
	}
	action.EmitLogicComplete(start, "ok")
}

// snapshotStates returns every module's current state, keyed by routing
// tag, for middleware cross-module reads.
func (s *Store) snapshotStates() map[string]any {
	out := make(map[string]any, len(s.registry.order))
	for _, info := range s.registry.order {
		out[info.tag] = info.cell.Get()
	}
	return out
}
