package store

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ApplyExternalStates atomically overwrites the given state-type-keyed
// states under the state-mutation lock, bypassing actions, reducers, and
// logic entirely (spec §4.8). It is a privileged operation intended for
// developer-tools sync and test fixtures, not for normal application flow.
//
// A key with no matching module, or whose value's dynamic type does not
// match the module's registered state type, is skipped — not treated as a
// fatal error — and recorded as a diagnostic in the returned error (which
// is nil if every entry applied cleanly). A module implementing Merger has
// its incoming value passed through Merge(local, incoming) before commit,
// instead of replacing the cell outright.
func (s *Store) ApplyExternalStates(states map[string]any) error {
	var diagnostics *multierror.Error

	s.mu.Lock()
	defer s.mu.Unlock()

	for discriminator, incoming := range states {
		info, ok := s.registry.lookupState(discriminator)
		if !ok {
			diagnostics = multierror.Append(diagnostics, fmt.Errorf("external state %q: no module registered for this state type", discriminator))
			continue
		}
		if typeKey(incoming) != info.stateType {
			diagnostics = multierror.Append(diagnostics, fmt.Errorf("external state %q: incoming value has type %s, want %s", discriminator, typeKey(incoming), info.stateType))
			continue
		}

		next := incoming
		if merger, ok := info.module.(Merger); ok {
			next = merger.Merge(info.cell.Get(), incoming)
		}
		info.cell.Commit(next)
	}

	return diagnostics.ErrorOrNil()
}
