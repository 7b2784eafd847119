package action

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// EventKind distinguishes the three moments a logic invocation is observed.
type EventKind int

const (
	EventStart EventKind = iota
	EventComplete
	EventFail
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventComplete:
		return "complete"
	case EventFail:
		return "fail"
	default:
		return "unknown"
	}
}

// LogicEvent is emitted at the start, completion, or failure of a single
// logic-method invocation (spec §4.10). Params are already redacted and
// formatted by the emitter — observers never see raw arguments.
type LogicEvent struct {
	Kind           EventKind
	LogicID        string
	Method         string
	Params         []string
	CorrelationID  string
	Time           time.Time
	Source         string
	Result         string
	Duration       time.Duration
	FailureType    string
	FailureMessage string
	Stack          string
}

// Observer receives every LogicEvent emitted by any store in the process.
// Observers are called synchronously at the emission site (spec §4.10) —
// a slow observer slows down the logic invocation it is watching.
type Observer func(LogicEvent)

var (
	observersMu sync.RWMutex
	observers   = map[string]Observer{}
)

// RegisterObserver adds a process-wide observer and returns a token that
// DeregisterObserver accepts to remove it again.
func RegisterObserver(obs Observer) string {
	id := uuid.NewString()
	observersMu.Lock()
	observers[id] = obs
	observersMu.Unlock()
	return id
}

// DeregisterObserver removes a previously registered observer. Idempotent.
func DeregisterObserver(id string) {
	observersMu.Lock()
	delete(observers, id)
	observersMu.Unlock()
}

func emit(ev LogicEvent) {
	observersMu.RLock()
	defer observersMu.RUnlock()
	for _, obs := range observers {
		obs(ev)
	}
}

// EmitLogicStart emits a start event and returns it; pass the same value to
// EmitLogicComplete/EmitLogicFail to compute duration and carry identity
// fields forward.
func EmitLogicStart(logicID, method string, params []string, correlationID, source string) LogicEvent {
	ev := LogicEvent{
		Kind:          EventStart,
		LogicID:       logicID,
		Method:        method,
		Params:        params,
		CorrelationID: correlationID,
		Time:          time.Now(),
		Source:        source,
	}
	emit(ev)
	return ev
}

// EmitLogicComplete emits the completion counterpart of a prior start event.
func EmitLogicComplete(start LogicEvent, result string) {
	ev := start
	ev.Kind = EventComplete
	ev.Result = result
	ev.Duration = time.Since(start.Time)
	ev.Time = time.Now()
	emit(ev)
}

// EmitLogicFail emits the failure counterpart of a prior start event. It
// does not roll back any committed state (spec §7): the commit that
// preceded this logic invocation already happened.
func EmitLogicFail(start LogicEvent, err error) {
	ev := start
	ev.Kind = EventFail
	ev.Duration = time.Since(start.Time)
	ev.Time = time.Now()
	ev.FailureType = fmt.Sprintf("%T", err)
	ev.FailureMessage = err.Error()
	ev.Stack = string(debug.Stack())
	emit(ev)
}

// NewDevLogger returns an Observer that prints a colorized one-line summary
// of every event to stdout: green for completion, red for failure, dim for
// start. Intended for local development, the way the teacher's DevLogger
// printed DevLogEntry values for bus dispatches.
func NewDevLogger() Observer {
	start := color.New(color.Faint)
	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed, color.Bold)
	return func(ev LogicEvent) {
		switch ev.Kind {
		case EventStart:
			start.Printf("-> %s.%s [%s]\n", ev.LogicID, ev.Method, ev.CorrelationID)
		case EventComplete:
			ok.Printf("<- %s.%s [%s] %s (%s)\n", ev.LogicID, ev.Method, ev.CorrelationID, ev.Result, ev.Duration)
		case EventFail:
			fail.Printf("!! %s.%s [%s] %s: %s (%s)\n", ev.LogicID, ev.Method, ev.CorrelationID, ev.FailureType, ev.FailureMessage, ev.Duration)
		}
	}
}
