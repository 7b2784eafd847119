package store

import (
	"testing"
	"time"

	"github.com/ozanturksever/reaktiv-go/action"
	"github.com/ozanturksever/reaktiv-go/reactivity"
)

func TestResetBeforeInitFails(t *testing.T) {
	s := &Store{initialized: reactivity.CreateSignal(false)}
	if err := s.Reset(); err != action.ErrNotYetInitialized {
		t.Errorf("Reset() = %v, want ErrNotYetInitialized", err)
	}
}

func TestResetRestartsWorkerAndKeepsState(t *testing.T) {
	mod := newCounterModule("counter")
	s := mustBuild(t, NewBuilder().Module(mod))

	if err := s.Dispatch(action.New(incType, "counter", 4)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	waitForCount(t, s, 4)

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	info, _ := s.registry.lookupTag("counter")
	if info.cell.Get().(counterState).Count != 4 {
		t.Error("Reset must not touch module state")
	}

	if err := s.Dispatch(action.New(incType, "counter", 1)); err != nil {
		t.Fatalf("Dispatch after Reset: %v", err)
	}
	waitForCount(t, s, 5)
}

func TestCleanupIsIdempotent(t *testing.T) {
	mod := newCounterModule("counter")
	s, err := NewBuilder().Module(mod).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := s.Cleanup(); err != nil {
		t.Fatalf("first Cleanup: %v", err)
	}
	if err := s.Cleanup(); err != nil {
		t.Fatalf("second Cleanup: %v", err)
	}
}

func waitForCount(t *testing.T, s *Store, want int) {
	t.Helper()
	info, ok := s.registry.lookupTag("counter")
	if !ok {
		t.Fatal("no counter module registered")
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if info.cell.Get().(counterState).Count == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Count never reached %d, last = %+v", want, info.cell.Get())
}
