package store

import (
	"testing"

	"github.com/ozanturksever/reaktiv-go/action"
)

type mergeableState struct {
	Synced int
	Local  string
}

// mergeableModule implements Merger: an external override only ever
// updates Synced, never clobbering the locally-owned Local field.
type mergeableModule struct{}

func (m *mergeableModule) Tag() string       { return "mergeable" }
func (m *mergeableModule) InitialState() any { return mergeableState{Local: "kept"} }
func (m *mergeableModule) CreateLogic(a Accessor) Logic {
	return noopLogic{}
}
func (m *mergeableModule) Reduce(state any, act action.Envelope) any { return state }
func (m *mergeableModule) Merge(local, incoming any) any {
	l := local.(mergeableState)
	in := incoming.(mergeableState)
	return mergeableState{Synced: in.Synced, Local: l.Local}
}

func TestApplyExternalStatesReplacesByDefault(t *testing.T) {
	mod := newCounterModule("counter")
	s := mustBuild(t, NewBuilder().Module(mod))

	err := s.ApplyExternalStates(map[string]any{
		typeKey(counterState{}): counterState{Count: 42},
	})
	if err != nil {
		t.Fatalf("ApplyExternalStates: %v", err)
	}

	info, _ := s.registry.lookupTag("counter")
	got := info.cell.Get().(counterState)
	if got.Count != 42 {
		t.Errorf("Count = %d, want 42", got.Count)
	}
}

func TestApplyExternalStatesSkipsUnknownDiscriminator(t *testing.T) {
	mod := newCounterModule("counter")
	s := mustBuild(t, NewBuilder().Module(mod))

	err := s.ApplyExternalStates(map[string]any{
		"totally.Unknown": 7,
	})
	if err == nil {
		t.Fatal("expected a diagnostic error for an unknown discriminator")
	}

	info, _ := s.registry.lookupTag("counter")
	if info.cell.Get().(counterState).Count != 0 {
		t.Error("unrelated module state must be untouched by a skipped entry")
	}
}

func TestApplyExternalStatesSkipsTypeMismatch(t *testing.T) {
	mod := newCounterModule("counter")
	s := mustBuild(t, NewBuilder().Module(mod))

	err := s.ApplyExternalStates(map[string]any{
		typeKey(counterState{}): "not a counterState",
	})
	if err == nil {
		t.Fatal("expected a diagnostic error for a type mismatch")
	}
	info, _ := s.registry.lookupTag("counter")
	if info.cell.Get().(counterState).Count != 0 {
		t.Error("a type-mismatched entry must not be committed")
	}
}

func TestApplyExternalStatesUsesModuleMergeHook(t *testing.T) {
	mod := &mergeableModule{}
	s := mustBuild(t, NewBuilder().Module(mod))

	err := s.ApplyExternalStates(map[string]any{
		typeKey(mergeableState{}): mergeableState{Synced: 9, Local: "should be ignored"},
	})
	if err != nil {
		t.Fatalf("ApplyExternalStates: %v", err)
	}

	info, _ := s.registry.lookupTag("mergeable")
	got := info.cell.Get().(mergeableState)
	if got.Synced != 9 {
		t.Errorf("Synced = %d, want 9", got.Synced)
	}
	if got.Local != "kept" {
		t.Errorf("Local = %q, want the locally-owned value to survive the merge", got.Local)
	}
}
