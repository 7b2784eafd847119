package store

import (
	"context"
	"errors"

	"github.com/ozanturksever/reaktiv-go/action"
)

// errStoreReset is the distinguished reason passed to the store scope's
// children when Reset runs (spec §4.7).
var errStoreReset = errors.New("reaktiv: store reset")

// IsInitialized reports whether the store has completed its init protocol.
// Always true for a Store returned by Builder.Build, which only returns
// once initialization has finished; useful for code holding a Store value
// that may have come from elsewhere.
func (s *Store) IsInitialized() bool {
	return s.initialized.Get()
}

// Reset cancels every running logic task with a distinguished "store
// reset" reason and restarts the dispatcher worker. Module states are left
// untouched: callers wanting a clean state replay initial-state actions or
// call ApplyExternalStates (spec §4.7).
func (s *Store) Reset() error {
	if !s.initialized.Get() {
		return action.ErrNotYetInitialized
	}

	s.scope.Reset(errStoreReset)

	s.cancelDispatch()
	<-s.dispatcherDone

	s.dispatcherDone = make(chan struct{})
	dispatchCtx, cancel := context.WithCancel(s.rootCtx)
	s.cancelDispatch = cancel
	go s.runDispatcher(dispatchCtx)

	return nil
}

// Cleanup cancels the store scope and closes the dispatch queues.
// Subsequent Dispatch calls fail with action.ErrStoreClosed. Idempotent.
func (s *Store) Cleanup() error {
	if s.closed.Get() {
		return nil
	}
	s.queues.close()
	s.cancelDispatch()
	<-s.dispatcherDone
	s.scope.Dispose()
	s.closed.Set(true)
	return nil
}

// Closed reports whether Cleanup has run.
func (s *Store) Closed() bool {
	return s.closed.Get()
}
