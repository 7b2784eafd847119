package reactivity

import "sync"

// ReactiveCell holds one committed state value and fans every commit out to
// every currently-live Subscription. It is the single-writer/multi-reader
// holder spec'd for module state: writes only happen through Commit, which
// the store calls while holding its state-mutation lock; reads of the
// latest value never need that lock.
type ReactiveCell[T any] struct {
	mu      sync.Mutex
	signal  Signal[T]
	subs    map[*cellSubscription[T]]struct{}
}

// NewReactiveCell creates a cell holding initial.
func NewReactiveCell[T any](initial T) *ReactiveCell[T] {
	return &ReactiveCell[T]{
		signal: CreateSignal(initial),
		subs:   make(map[*cellSubscription[T]]struct{}),
	}
}

// Get returns the current value without blocking on any subscriber.
func (c *ReactiveCell[T]) Get() T {
	return c.signal.Get()
}

// Commit writes a new value and publishes it to every live subscription.
// Equal writes (per Signal's DeepEqual rule) are coalesced: no emission.
// Callers are responsible for any external locking discipline (the store's
// state-mutation lock); Commit itself only protects its own subscriber set.
func (c *ReactiveCell[T]) Commit(v T) {
	if !c.signal.Set(v) {
		return
	}
	c.mu.Lock()
	subs := make([]*cellSubscription[T], 0, len(c.subs))
	for s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()
	for _, s := range subs {
		s.publish(v)
	}
}

// Subscribe returns a restartable Subscription whose first emission is the
// value current at subscribe time, and whose later emissions are every
// subsequent commit, in commit order.
func (c *ReactiveCell[T]) Subscribe() Subscription[T] {
	s := newCellSubscription[T](c.signal.Get())
	c.mu.Lock()
	c.subs[s] = struct{}{}
	c.mu.Unlock()
	s.onDispose = func() {
		c.mu.Lock()
		delete(c.subs, s)
		c.mu.Unlock()
	}
	return s
}
