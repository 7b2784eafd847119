package persistence

// Backend stores and retrieves the encoded persisted-state layout as an
// opaque byte blob. The codec, not the backend, understands its contents.
type Backend interface {
	// Save overwrites whatever was previously persisted.
	Save(data []byte) error

	// Load reports ok=false, err=nil when nothing has ever been persisted.
	Load() (data []byte, ok bool, err error)

	// HasPersistedState reports whether Load would return ok=true, without
	// paying for a full decode.
	HasPersistedState() (bool, error)
}

// Manager pairs a Codec with a Backend, giving the store a single Save/Load
// surface over polymorphic module state (spec §6).
type Manager struct {
	codec   *Codec
	backend Backend
}

// NewManager returns a Manager over backend using codec to translate
// between the persisted byte layout and concrete module state values.
func NewManager(codec *Codec, backend Backend) *Manager {
	return &Manager{codec: codec, backend: backend}
}

// Save encodes states and writes them to the backend.
func (m *Manager) Save(states map[string]any) error {
	data, err := m.codec.Encode(states)
	if err != nil {
		return err
	}
	return m.backend.Save(data)
}

// Load reads and decodes the persisted layout. ok=false, err=nil means
// nothing has ever been persisted. Discriminators belonging to modules no
// longer in the registry are silently dropped, not an error (spec §6).
func (m *Manager) Load() (states map[string]any, ok bool, err error) {
	data, ok, err := m.backend.Load()
	if err != nil || !ok {
		return nil, ok, err
	}
	states, _, err = m.codec.Decode(data)
	if err != nil {
		return nil, true, err
	}
	return states, true, nil
}

// HasPersistedState delegates to the backend.
func (m *Manager) HasPersistedState() (bool, error) {
	return m.backend.HasPersistedState()
}
