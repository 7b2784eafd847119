package storetest

import (
	"sync"
	"testing"
	"time"

	"github.com/ozanturksever/reaktiv-go/action"
	"github.com/ozanturksever/reaktiv-go/persistence"
	"github.com/ozanturksever/reaktiv-go/store"
)

// Harness wraps a *store.Store built against an in-memory persistence
// backend, with a completion fence middleware spliced in ahead of every
// other middleware so tests can block until the dispatcher has drained
// every action enqueued so far (spec §9: "an implementation MAY expose a
// completion fence for tests"). Grounded on the teacher's
// appmanager_test.go construct-initialize-assert shape, adapted from
// construct-a-manager-then-assert to construct-a-store-then-drain-then-assert.
type Harness struct {
	t       *testing.T
	Store   *store.Store
	Backend *persistence.MemoryBackend

	mu      sync.Mutex
	pending int
	idle    *sync.Cond
}

// NewHarness builds a Store from mods plus any extra middlewares, backed by
// an in-memory persistence.Backend, and registers store.Cleanup as a test
// cleanup.
func NewHarness(t *testing.T, mods []store.Module, extra ...store.Middleware) *Harness {
	t.Helper()

	h := &Harness{t: t, Backend: persistence.NewMemoryBackend()}
	h.idle = sync.NewCond(&h.mu)

	b := store.NewBuilder().Persistence(h.Backend).Use(h.fence)
	for _, m := range mods {
		b = b.Module(m)
	}
	for _, mw := range extra {
		b = b.Use(mw)
	}

	s, err := b.Build()
	if err != nil {
		t.Fatalf("storetest: Build: %v", err)
	}
	h.Store = s
	t.Cleanup(func() { _ = s.Cleanup() })

	return h
}

// fence counts an action as pending from the moment it enters the chain
// until baseHandler's synchronous reducer commit returns, waking any
// WaitIdle waiter once the count drops back to zero. It does not wait for
// a module's asynchronous logic to finish, only for the commit.
func (h *Harness) fence(act action.Envelope, getStates func() map[string]any, a store.Accessor, next store.Next) (any, error) {
	h.mu.Lock()
	h.pending++
	h.mu.Unlock()

	result, err := next(act)

	h.mu.Lock()
	h.pending--
	if h.pending == 0 {
		h.idle.Broadcast()
	}
	h.mu.Unlock()

	return result, err
}

// WaitIdle blocks until every dispatched action has been committed, or
// timeout elapses, in which case it fails the test.
func (h *Harness) WaitIdle(timeout time.Duration) {
	h.t.Helper()
	done := make(chan struct{})
	go func() {
		h.mu.Lock()
		for h.pending != 0 {
			h.idle.Wait()
		}
		h.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		h.t.Fatalf("storetest: WaitIdle timed out after %s", timeout)
	}
}
