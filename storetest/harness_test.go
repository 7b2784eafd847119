package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/ozanturksever/reaktiv-go/action"
	"github.com/ozanturksever/reaktiv-go/store"
)

type counterState struct {
	Count int `json:"count"`
}

var incType = action.DefineAction[int]("counter/inc")

type counterModule struct{}

func (counterModule) Tag() string       { return "counter" }
func (counterModule) InitialState() any { return counterState{} }

func (counterModule) CreateLogic(store.Accessor) store.Logic { return noopLogic{} }
func (counterModule) Reduce(state any, act action.Envelope) any {
	cs := state.(counterState)
	if a, ok := act.(action.Action[int]); ok && a.Type == incType.Name {
		cs.Count += a.Payload
	}
	return cs
}

type noopLogic struct{}

func (noopLogic) Handle(ctx context.Context, act action.Envelope) error { return nil }

func TestHarnessWaitIdleObservesCommit(t *testing.T) {
	h := NewHarness(t, []store.Module{counterModule{}})

	if err := h.Store.Dispatch(action.New(incType, "counter", 3)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	h.WaitIdle(time.Second)

	sub, err := store.SelectState[counterState](h.Store.Accessor())
	if err != nil {
		t.Fatalf("SelectState: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, ok := sub.TryNext()
	if !ok {
		got, ok = sub.Next(ctx)
	}
	if !ok || got.Count != 3 {
		t.Errorf("Count = %+v, want 3", got)
	}
}

func TestFakeClockAdvanceFiresTimer(t *testing.T) {
	clock := NewFakeClock()
	timer := clock.Timer(10 * time.Millisecond)

	clock.Advance(5 * time.Millisecond)
	select {
	case <-timer.C:
		t.Fatal("timer fired before its deadline")
	default:
	}

	clock.Advance(10 * time.Millisecond)
	select {
	case <-timer.C:
	default:
		t.Fatal("timer did not fire after its deadline")
	}
}
