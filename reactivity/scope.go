package reactivity

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Scope is a cancellable, disposable container for child tasks and
// disposers. The store uses one root Scope for its own lifetime; spawned
// logic tasks are children of that scope's current generation, so Reset can
// cancel them as a group without tearing the scope itself down. The store's
// priority worker is not run on the scope: it has its own cancellable
// context, which the store's Reset and Cleanup cancel separately.
type Scope struct {
	mu        sync.Mutex
	parent    *Scope
	children  []*Scope
	disposers []func()
	disposed  bool

	ctx    context.Context
	cancel context.CancelCauseFunc
	group  *errgroup.Group
}

// NewScope creates a new scope with an optional parent. If parent is
// non-nil, this scope is disposed automatically when the parent is.
func NewScope(parent *Scope) *Scope {
	s := &Scope{parent: parent}
	s.newGeneration(context.Background())
	if parent != nil {
		parent.mu.Lock()
		parent.children = append(parent.children, s)
		parent.mu.Unlock()
	}
	return s
}

func (s *Scope) newGeneration(base context.Context) {
	ctx, cancel := context.WithCancelCause(base)
	group, gctx := errgroup.WithContext(ctx)
	s.ctx = gctx
	s.cancel = cancel
	s.group = group
}

// Context returns the scope's current-generation context. Cancelled on
// Reset or Dispose.
func (s *Scope) Context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Go spawns fn as a child task of this scope's current generation. fn
// receives the generation's context and should return promptly after it is
// cancelled.
func (s *Scope) Go(fn func(ctx context.Context) error) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	group, ctx := s.group, s.ctx
	s.mu.Unlock()
	group.Go(func() error { return fn(ctx) })
}

// RegisterDisposer registers fn to run once, when the scope is disposed.
// Ignored if the scope is already disposed.
func (s *Scope) RegisterDisposer(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.disposers = append(s.disposers, fn)
}

// Reset cancels every task of the current generation with the given reason
// and starts a fresh generation. Disposers and the parent/child tree are
// untouched; the scope itself remains usable.
func (s *Scope) Reset(reason error) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	oldCancel := s.cancel
	base := context.Context(context.Background())
	if s.parent != nil {
		base = s.parent.Context()
	}
	s.newGeneration(base)
	s.mu.Unlock()
	oldCancel(reason)
}

// Dispose cancels the current generation, disposes every child scope, then
// runs this scope's disposers. Idempotent.
func (s *Scope) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	cancel := s.cancel
	children := s.children
	disposers := s.disposers
	s.children = nil
	s.disposers = nil
	s.mu.Unlock()

	cancel(ErrScopeDisposed)
	for _, c := range children {
		c.Dispose()
	}
	for _, d := range disposers {
		d()
	}
}

// IsDisposed reports whether Dispose has already run.
func (s *Scope) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// ErrScopeDisposed is the cancellation cause used by Dispose.
var ErrScopeDisposed = scopeErr("scope disposed")

type scopeErr string

func (e scopeErr) Error() string { return string(e) }
