package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/ozanturksever/reaktiv-go/config"
	"github.com/ozanturksever/reaktiv-go/internal/rlog"
	"github.com/ozanturksever/reaktiv-go/persistence"
	"github.com/ozanturksever/reaktiv-go/reactivity"
)

// Builder assembles a Store from a fixed set of modules, middlewares and
// optional persistence configuration, mirroring the construct-then-
// initialize shape the teacher's AppManager used for its own subsystems.
type Builder struct {
	modules       []Module
	middlewares   []Middleware
	ctx           context.Context
	backend       persistence.Backend
	codec         *persistence.Codec
	logger        rlog.Logger
	queueWarnSize int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{codec: persistence.NewCodec(), logger: rlog.New()}
}

// Module registers m as one of the store's modules. Order matters only for
// SelectState/SelectLogic tie-breaking, which never occurs since state and
// logic types must be unique across modules (spec §4.2).
func (b *Builder) Module(m Module) *Builder {
	b.modules = append(b.modules, m)
	return b
}

// Use appends mw to the middleware chain, outermost-registered-first.
func (b *Builder) Use(mw Middleware) *Builder {
	b.middlewares = append(b.middlewares, mw)
	return b
}

// Persistence configures the backend SaveState/LoadState use. Without this
// call, those operations fail with action.ErrNoPersistence.
func (b *Builder) Persistence(backend persistence.Backend) *Builder {
	b.backend = backend
	return b
}

// Logger overrides the store's diagnostic logger. Defaults to rlog.New().
func (b *Builder) Logger(l rlog.Logger) *Builder {
	b.logger = l
	return b
}

// Context supplies the parent context for the store's dispatcher worker
// (spec §4.7); canceling it stops the worker, so queued actions are no
// longer processed. It does not cancel logic goroutines already running on
// the store's scope, and it does not close the queues; Cleanup does both.
// Defaults to context.Background().
func (b *Builder) Context(ctx context.Context) *Builder {
	b.ctx = ctx
	return b
}

// Config applies a loaded config.Config in place of the equivalent
// individual Builder calls: it sets the queue-backlog warning threshold
// and, when PersistenceBackend names one, constructs and wires the
// matching persistence.Backend (a "file" or "sqlite" strategy) so
// deployments can swap persistence by editing YAML instead of code.
func (b *Builder) Config(cfg *config.Config) (*Builder, error) {
	b.queueWarnSize = cfg.QueueWarnSize

	switch cfg.PersistenceBackend {
	case "":
		// no-op: any backend already set via Persistence is kept.
	case "file":
		b.backend = persistence.NewFileBackend(cfg.PersistencePath)
	case "sqlite":
		backend, err := persistence.NewSQLiteBackend(cfg.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("store: config sqlite backend: %w", err)
		}
		b.backend = backend
	default:
		return nil, fmt.Errorf("store: config: unknown persistence_backend %q", cfg.PersistenceBackend)
	}

	return b, nil
}

// Build runs the six-step initialization protocol (spec §4.5) and starts
// the dispatcher. A returned error means no goroutines were started and
// the Builder may be discarded.
func (b *Builder) Build() (*Store, error) {
	ctx := b.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	s := &Store{
		registry:       newRegistry(),
		middlewares:    b.middlewares,
		codec:          b.codec,
		scope:          reactivity.NewScope(nil),
		queues:         newPriorityQueues(),
		dispatcherDone: make(chan struct{}),
		rootCtx:        ctx,
		initialized:    reactivity.CreateSignal(false),
		closed:         reactivity.CreateSignal(false),
		logger:         b.logger,
		queueWarnSize:  b.queueWarnSize,
	}
	if b.backend != nil {
		s.persist = persistence.NewManager(b.codec, b.backend)
	}
	s.accessor = &accessorImpl{s: s}

	// Step 1: construct and register every module's initial state.
	for _, m := range b.modules {
		initial := m.InitialState()
		info := &moduleInfo{
			tag:       m.Tag(),
			module:    m,
			cell:      reactivity.NewReactiveCell[any](initial),
			stateType: typeKey(initial),
		}
		if err := s.registry.registerState(info); err != nil {
			return nil, err
		}
		b.codec.Register(info.stateType, reflectDecoder(initial))
		if tr, ok := m.(TypeRegistrar); ok {
			tr.RegisterTypes(b.codec)
		}
	}

	// Step 2 (implicit barrier): every module's state is now resolvable by
	// type before any logic is constructed, so a module's logic can select
	// another module's state during its own construction.
	//
	// Step 3: construct and register every module's logic.
	for _, info := range s.registry.order {
		logic := info.module.CreateLogic(s.accessor)
		if logic == nil {
			return nil, fmt.Errorf("store: module %q returned a nil Logic from CreateLogic", info.tag)
		}
		info.logic = logic
		info.logicType = typeKey(logic)
		if err := s.registry.registerLogic(info); err != nil {
			return nil, err
		}
	}

	// Step 4: the middleware chain is fixed for the store's lifetime, so it
	// is composed once here rather than on every dispatch.
	s.chain = s.buildChain()

	// Step 5: start the dispatcher.
	dispatchCtx, cancel := context.WithCancel(ctx)
	s.cancelDispatch = cancel
	go s.runDispatcher(dispatchCtx)

	// Step 6: release the init barrier. Lookups are lock-free from here on.
	s.initialized.Set(true)

	return s, nil
}

// reflectDecoder builds a persistence.Decoder for sample's concrete type
// without knowing that type at compile time: it allocates a fresh zero
// value of the same reflect.Type, unmarshals into it, then hands back the
// dereferenced value. Used at registration time, when a module's state
// type is only known as an any.
func reflectDecoder(sample any) persistence.Decoder {
	t := reflect.TypeOf(sample)
	return func(data json.RawMessage) (any, error) {
		ptr := reflect.New(t)
		if err := json.Unmarshal(data, ptr.Interface()); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	}
}
