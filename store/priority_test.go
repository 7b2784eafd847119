package store

import (
	"context"
	"testing"
	"time"

	"github.com/ozanturksever/reaktiv-go/action"
)

func TestHighPriorityDrainsAheadOfQueuedNormal(t *testing.T) {
	mod := newGateModule("gate")
	s := mustBuild(t, NewBuilder().Module(mod))

	// First action blocks the dispatcher inside the reducer until we
	// release mod.gate, giving us a window to enqueue more actions while
	// one is in flight.
	blocker := action.DefineAction[int]("gate/first")
	normalA := action.DefineAction[int]("gate/normal-a")
	normalB := action.DefineAction[int]("gate/normal-b")
	highC := action.DefineAction[int]("gate/high-c")

	sub, err := SelectState[[]string](s.accessor)
	if err != nil {
		t.Fatalf("SelectState: %v", err)
	}

	if err := s.Dispatch(action.New(blocker, "gate", 0)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	// Give the dispatcher a moment to pick up the blocker and park on the
	// gate before we enqueue the rest.
	time.Sleep(20 * time.Millisecond)

	if err := s.Dispatch(action.New(normalA, "gate", 0)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if err := s.Dispatch(action.New(normalB, "gate", 0)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if err := s.Dispatch(action.New(highC, "gate", 0, action.High())); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	close(mod.gate)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// One emission for the initial (nil) log, then one per committed action.
	var last []string
	for i := 0; i < 5; i++ {
		v, ok := sub.Next(ctx)
		if !ok {
			t.Fatalf("Next() failed at iteration %d (log so far: %v)", i, last)
		}
		last = v
	}

	if len(last) != 4 {
		t.Fatalf("log = %v, want 4 entries", last)
	}
	if last[0] != "gate/first" {
		t.Errorf("log[0] = %q, want gate/first", last[0])
	}
	if last[1] != "gate/high-c" {
		t.Errorf("log[1] = %q, want gate/high-c (high priority should preempt already-queued normal actions)", last[1])
	}
}
