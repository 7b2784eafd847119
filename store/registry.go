package store

import (
	"fmt"

	"github.com/ozanturksever/reaktiv-go/action"
)

// registry is the store's immutable module table, built once during Build
// and never mutated afterward (spec §5: "registry key lookups are safe
// without a lock once the init barrier has released"). It is indexed three
// ways: by routing tag (for dispatch), by state-type discriminator (for
// SelectState) and by logic-type discriminator (for SelectLogic).
type registry struct {
	byTag   map[string]*moduleInfo
	byState map[string]*moduleInfo
	byLogic map[string]*moduleInfo
	order   []*moduleInfo
}

func newRegistry() *registry {
	return &registry{
		byTag:   make(map[string]*moduleInfo),
		byState: make(map[string]*moduleInfo),
		byLogic: make(map[string]*moduleInfo),
	}
}

// registerState adds info under its tag and state-type indices. Called
// during step 1 of the init protocol (spec §4.5), before any module's
// logic is constructed.
func (r *registry) registerState(info *moduleInfo) error {
	if existing, exists := r.byState[info.stateType]; exists {
		return fmt.Errorf("%w: state type %q already registered by module %q", action.ErrDuplicateState, info.stateType, existing.tag)
	}
	if _, exists := r.byTag[info.tag]; exists {
		return fmt.Errorf("%w: tag %q already registered", action.ErrDuplicateState, info.tag)
	}
	r.byTag[info.tag] = info
	r.byState[info.stateType] = info
	r.order = append(r.order, info)
	return nil
}

// registerLogic adds info under its logic-type index. Called during step 3
// of the init protocol, after every module's state has been registered.
func (r *registry) registerLogic(info *moduleInfo) error {
	if existing, exists := r.byLogic[info.logicType]; exists {
		return fmt.Errorf("%w: logic type %q already registered by module %q", action.ErrDuplicateState, info.logicType, existing.tag)
	}
	r.byLogic[info.logicType] = info
	return nil
}

func (r *registry) lookupTag(tag string) (*moduleInfo, bool) {
	info, ok := r.byTag[tag]
	return info, ok
}

func (r *registry) lookupState(discriminator string) (*moduleInfo, bool) {
	info, ok := r.byState[discriminator]
	return info, ok
}

func (r *registry) lookupLogic(discriminator string) (*moduleInfo, bool) {
	info, ok := r.byLogic[discriminator]
	return info, ok
}
