package store

import (
	"context"
	"sync"

	"github.com/ozanturksever/reaktiv-go/action"
)

type counterState struct {
	Count int `json:"count"`
}

var (
	incType   = action.DefineAction[int]("counter/inc")
	resetType = action.DefineAction[struct{}]("counter/reset")
)

type counterLogic struct {
	mu    sync.Mutex
	calls []string
}

func (l *counterLogic) Handle(ctx context.Context, act action.Envelope) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := act.(action.Action[int]); ok {
		l.calls = append(l.calls, a.Type)
	} else {
		l.calls = append(l.calls, "other")
	}
	return nil
}

func (l *counterLogic) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

type counterModule struct {
	tag   string
	logic *counterLogic
}

func newCounterModule(tag string) *counterModule {
	return &counterModule{tag: tag, logic: &counterLogic{}}
}

func (m *counterModule) Tag() string        { return m.tag }
func (m *counterModule) InitialState() any  { return counterState{Count: 0} }
func (m *counterModule) CreateLogic(a Accessor) Logic {
	return m.logic
}

func (m *counterModule) Reduce(state any, act action.Envelope) any {
	cs := state.(counterState)
	switch a := act.(type) {
	case action.Action[int]:
		if a.Type == incType.Name {
			cs.Count += a.Payload
		}
	case action.Action[struct{}]:
		if a.Type == resetType.Name {
			cs.Count = 0
		}
	}
	return cs
}

type noopLogic struct{}

func (noopLogic) Handle(ctx context.Context, act action.Envelope) error { return nil }

// gateModule blocks its reducer on gate for the first action it sees,
// letting a test enqueue further actions while the dispatcher is busy.
type gateModule struct {
	tag  string
	gate chan struct{}
	mu   sync.Mutex
	log  []string
	once sync.Once
}

func newGateModule(tag string) *gateModule {
	return &gateModule{tag: tag, gate: make(chan struct{})}
}

func (m *gateModule) Tag() string       { return m.tag }
func (m *gateModule) InitialState() any { return []string(nil) }
func (m *gateModule) CreateLogic(a Accessor) Logic {
	return noopLogic{}
}
func (m *gateModule) Reduce(state any, act action.Envelope) any {
	m.once.Do(func() { <-m.gate })
	m.mu.Lock()
	m.log = append(m.log, tagOf(act))
	out := append([]string(nil), m.log...)
	m.mu.Unlock()
	return out
}

func tagOf(act action.Envelope) string {
	if a, ok := act.(action.Action[int]); ok {
		return a.Type
	}
	return "?"
}
