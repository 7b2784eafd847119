package action

import "errors"

// Sentinel errors surfaced by a store's public operations (spec §7). Some
// are returned bare, others wrapped with call-site context via
// fmt.Errorf("...: %w", ...); none is carried as a richer error struct —
// callers that need to distinguish cases use errors.Is.
var (
	// ErrStoreClosed is returned by Dispatch once Cleanup has run.
	ErrStoreClosed = errors.New("reaktiv: store closed")

	// ErrUnknownModule is returned when an action's routing tag has no
	// registered module.
	ErrUnknownModule = errors.New("reaktiv: no module registered for action tag")

	// ErrUnknownState is returned by SelectState for an unregistered state type.
	ErrUnknownState = errors.New("reaktiv: no module registered for state type")

	// ErrUnknownLogic is returned by SelectLogic for an unregistered logic type.
	ErrUnknownLogic = errors.New("reaktiv: no module registered for logic type")

	// ErrDuplicateState is a builder-time failure: two modules declared the
	// same state type.
	ErrDuplicateState = errors.New("reaktiv: duplicate state registration")

	// ErrNoPersistence is returned by SaveState/HasPersistedState when no
	// backend was configured on the builder.
	ErrNoPersistence = errors.New("reaktiv: no persistence backend configured")

	// ErrNotYetInitialized is returned by Reset if called on a store whose
	// init protocol has not completed.
	ErrNotYetInitialized = errors.New("reaktiv: store not yet initialized")

	// ErrDisposed marks a disposed resource. No operation in this module
	// returns it: a disposed Subscription reports ok=false from Next and
	// TryNext, and its Dispose returns nil.
	ErrDisposed = errors.New("reaktiv: resource has been disposed")
)
