// Package persistence implements the store's persistence contract (spec §6):
// a type-discriminated codec over polymorphic module state, and the three
// storage backends shipped with this module: a watched JSON file, a
// single-row SQLite table, and an in-memory buffer.
package persistence

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Decoder turns the raw JSON recorded for one state-type discriminator back
// into the concrete Go value a module expects from LoadState.
type Decoder func(data json.RawMessage) (any, error)

// Codec encodes and decodes the persisted state layout: an object mapping
// state-type discriminators to per-type encoded values (spec §6). A
// top-level discriminator with no registered decoder belongs to a module
// that is no longer part of the registry (it was renamed or dropped since
// the snapshot was written); Decode silently skips it rather than failing
// the whole load, per spec §6's "keys absent from the current registry are
// ignored" and testable property 6. Fail-fast on an unrecognized
// discriminator is reserved for nested polymorphic subtypes within a
// single state's own custom-type hierarchy (spec §4.9), not top-level
// module state keys.
type Codec struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewCodec returns an empty Codec.
func NewCodec() *Codec {
	return &Codec{decoders: make(map[string]Decoder)}
}

// Register associates discriminator with a decoder. Called once per module
// state type during store construction, before any Load can occur.
func (c *Codec) Register(discriminator string, decoder Decoder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decoders[discriminator] = decoder
}

// TypedDecoder builds a Decoder for a concrete state type T via
// encoding/json. Unknown JSON fields are accepted and ignored (spec §6
// forward-compatibility requirement); encoding/json already does this by
// default, so no DisallowUnknownFields wiring is needed here.
func TypedDecoder[T any]() Decoder {
	return func(data json.RawMessage) (any, error) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Encode serializes states, keyed by state-type discriminator, into the
// persisted layout.
func (c *Codec) Encode(states map[string]any) ([]byte, error) {
	raw := make(map[string]json.RawMessage, len(states))
	for discriminator, v := range states {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("persistence: encode %q: %w", discriminator, err)
		}
		raw[discriminator] = b
	}
	return json.Marshal(raw)
}

// Decode parses the persisted layout back into a map of discriminator to
// concrete state value, using the registered decoder for each entry. A
// discriminator with no registered decoder is dropped, not an error (see
// the Codec doc comment); Dropped reports every discriminator skipped this
// way, for callers that want to log or assert on it.
func (c *Codec) Decode(data []byte) (result map[string]any, dropped []string, err error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("persistence: decode layout: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	result = make(map[string]any, len(raw))
	for discriminator, b := range raw {
		dec, ok := c.decoders[discriminator]
		if !ok {
			dropped = append(dropped, discriminator)
			continue
		}
		v, err := dec(b)
		if err != nil {
			return nil, nil, fmt.Errorf("persistence: decode %q: %w", discriminator, err)
		}
		result[discriminator] = v
	}
	return result, dropped, nil
}
