// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/tray/lib/codec"
)

// Descriptor declares one menu item. Descriptors are values; the
// builder methods return modified copies so a schema reads as a single
// table:
//
//	menu.Action("quit", "quit", "", 1200).WithEffect(menu.Confirm{...})
type Descriptor struct {
	// ID is the stable logical identifier. Unique across the schema,
	// never derived from display text, never reused.
	ID string

	// LabelKey is resolved through the Localizer. Empty for separators.
	LabelKey string

	Kind Kind

	// Parent names the containing submenu. Empty means top level.
	Parent string

	// Order positions the item among its siblings (ascending). Ties
	// keep declaration order.
	Order int

	// DefaultChecked is the initial checkmark of a KindCheck item.
	DefaultChecked bool

	// Disabled makes the item start greyed out.
	Disabled bool

	// ExternalState marks items whose checked/enabled state is driven
	// by the host rather than by the schema. Such items are included
	// in rebuild snapshots even when they are not KindCheck.
	ExternalState bool

	// Rebuild requests a full menu rebuild after activation.
	Rebuild bool

	// Effect runs locally on activation. Nil behaves as NoEffect.
	Effect Effect
}

// Action declares a clickable item.
func Action(id, labelKey, parent string, order int) Descriptor {
	return Descriptor{ID: id, LabelKey: labelKey, Kind: KindAction, Parent: parent, Order: order}
}

// Check declares a checkable item.
func Check(id, labelKey, parent string, checked bool, order int) Descriptor {
	return Descriptor{ID: id, LabelKey: labelKey, Kind: KindCheck, Parent: parent, Order: order, DefaultChecked: checked}
}

// Container declares a submenu.
func Container(id, labelKey, parent string, order int) Descriptor {
	return Descriptor{ID: id, LabelKey: labelKey, Kind: KindContainer, Parent: parent, Order: order}
}

// Separator declares a divider line.
func Separator(id, parent string, order int) Descriptor {
	return Descriptor{ID: id, Kind: KindSeparator, Parent: parent, Order: order}
}

// WithEffect returns a copy of the descriptor with the given effect.
func (descriptor Descriptor) WithEffect(effect Effect) Descriptor {
	descriptor.Effect = effect
	return descriptor
}

// WithRebuild returns a copy that requests a rebuild after activation.
func (descriptor Descriptor) WithRebuild() Descriptor {
	descriptor.Rebuild = true
	return descriptor
}

// WithExternalState returns a copy whose state is preserved across
// rebuilds regardless of kind.
func (descriptor Descriptor) WithExternalState() Descriptor {
	descriptor.ExternalState = true
	return descriptor
}

// WithDisabled returns a copy that starts disabled.
func (descriptor Descriptor) WithDisabled() Descriptor {
	descriptor.Disabled = true
	return descriptor
}

// StateBearing reports whether the item's live state must survive a
// rebuild.
func (descriptor Descriptor) StateBearing() bool {
	return descriptor.Kind == KindCheck || descriptor.ExternalState
}

// Schema is a validated, immutable set of descriptors. Construct with
// [NewSchema]. Descriptors that failed validation are not part of the
// schema; [Schema.Problems] lists why.
type Schema struct {
	descriptors []Descriptor
	index       map[string]int

	// children maps a parent id ("" for top level) to indices into
	// descriptors, sorted by (Order, declaration position).
	children map[string][]int

	problems []error
}

// NewSchema validates descriptors and returns the usable schema. The
// returned schema is never nil. The error joins one *SchemaError per
// rejected descriptor; callers running in strict mode treat any error
// as fatal, others log it and continue with the remaining items.
//
// Rejection cascades: when a container is rejected, every descendant
// that names it as parent is rejected too.
func NewSchema(descriptors ...Descriptor) (*Schema, error) {
	var problems []error
	reject := func(descriptor Descriptor, field string, err error) {
		problems = append(problems, &SchemaError{ID: descriptor.ID, Field: field, Err: err})
	}

	// Local checks. First occurrence of an id wins.
	candidates := make([]Descriptor, 0, len(descriptors))
	seen := make(map[string]bool, len(descriptors))
	for _, descriptor := range descriptors {
		switch {
		case descriptor.ID == "":
			reject(descriptor, "id", ErrEmptyID)
			continue
		case seen[descriptor.ID]:
			reject(descriptor, "id", ErrDuplicateID)
			continue
		}
		seen[descriptor.ID] = true

		if !descriptor.Kind.Valid() {
			reject(descriptor, "kind", fmt.Errorf("%w: %d", ErrUnknownKind, int(descriptor.Kind)))
			continue
		}
		if descriptor.Kind != KindSeparator && descriptor.LabelKey == "" {
			reject(descriptor, "label_key", ErrMissingLabel)
			continue
		}
		if err := validateEffect(descriptor.Kind, descriptor.Effect); err != nil {
			reject(descriptor, "effect", err)
			continue
		}
		candidates = append(candidates, descriptor)
	}

	// Parent checks, repeated until no more descriptors drop out so
	// that rejecting a container also rejects its subtree.
	accepted := make(map[string]Descriptor, len(candidates))
	for _, descriptor := range candidates {
		accepted[descriptor.ID] = descriptor
	}
	for changed := true; changed; {
		changed = false
		for _, descriptor := range candidates {
			if _, alive := accepted[descriptor.ID]; !alive || descriptor.Parent == "" {
				continue
			}
			if err := checkParent(descriptor, accepted, seen); err != nil {
				reject(descriptor, "parent", err)
				delete(accepted, descriptor.ID)
				changed = true
			}
		}
	}

	schema := &Schema{
		index:    make(map[string]int, len(accepted)),
		children: make(map[string][]int),
		problems: problems,
	}
	for _, descriptor := range candidates {
		if _, alive := accepted[descriptor.ID]; !alive {
			continue
		}
		schema.index[descriptor.ID] = len(schema.descriptors)
		schema.children[descriptor.Parent] = append(schema.children[descriptor.Parent], len(schema.descriptors))
		schema.descriptors = append(schema.descriptors, descriptor)
	}
	for parent, indices := range schema.children {
		sort.SliceStable(indices, func(a, b int) bool {
			return schema.descriptors[indices[a]].Order < schema.descriptors[indices[b]].Order
		})
		schema.children[parent] = indices
	}

	return schema, errors.Join(problems...)
}

// MustSchema is NewSchema for statically declared tables. It panics
// on any validation problem, since a malformed built-in table is a
// programming error.
func MustSchema(descriptors ...Descriptor) *Schema {
	schema, err := NewSchema(descriptors...)
	if err != nil {
		panic(err)
	}
	return schema
}

// checkParent validates descriptor.Parent against the currently
// accepted set. declared holds every id that appeared in the input,
// so a parent that existed but was rejected gets a clearer message.
func checkParent(descriptor Descriptor, accepted map[string]Descriptor, declared map[string]bool) error {
	parent, ok := accepted[descriptor.Parent]
	if !ok {
		if declared[descriptor.Parent] {
			return fmt.Errorf("%w: %q was rejected", ErrDanglingParent, descriptor.Parent)
		}
		return fmt.Errorf("%w: %q", ErrDanglingParent, descriptor.Parent)
	}
	if parent.Kind != KindContainer {
		return fmt.Errorf("%w: %q is %s", ErrParentNotContainer, descriptor.Parent, parent.Kind)
	}

	// Walk up the chain. Reaching descriptor again is a cycle. A chain
	// that loops without passing through descriptor belongs to some
	// other cycle; those members are rejected on their own turn and
	// descriptor then fails as dangling.
	visited := map[string]bool{descriptor.ID: true}
	for current := parent; current.Parent != ""; {
		if current.Parent == descriptor.ID {
			return fmt.Errorf("%w: through %q", ErrParentCycle, current.ID)
		}
		if visited[current.ID] {
			break
		}
		visited[current.ID] = true
		next, ok := accepted[current.Parent]
		if !ok {
			break
		}
		current = next
	}
	return nil
}

// Len returns the number of usable descriptors.
func (schema *Schema) Len() int {
	return len(schema.descriptors)
}

// Descriptors returns the usable descriptors in declaration order.
func (schema *Schema) Descriptors() []Descriptor {
	result := make([]Descriptor, len(schema.descriptors))
	copy(result, schema.descriptors)
	return result
}

// Lookup returns the descriptor with the given id.
func (schema *Schema) Lookup(id string) (Descriptor, bool) {
	index, ok := schema.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return schema.descriptors[index], true
}

// Children returns the items under parent ("" for the top level) in
// layout order: ascending Order, ties in declaration order.
func (schema *Schema) Children(parent string) []Descriptor {
	indices := schema.children[parent]
	result := make([]Descriptor, len(indices))
	for position, index := range indices {
		result[position] = schema.descriptors[index]
	}
	return result
}

// StateBearingIDs returns the ids whose state is captured in rebuild
// snapshots, in declaration order.
func (schema *Schema) StateBearingIDs() []string {
	var ids []string
	for _, descriptor := range schema.descriptors {
		if descriptor.StateBearing() {
			ids = append(ids, descriptor.ID)
		}
	}
	return ids
}

// Problems returns the validation errors recorded by NewSchema, one
// per rejected descriptor.
func (schema *Schema) Problems() []error {
	result := make([]error, len(schema.problems))
	copy(result, schema.problems)
	return result
}

// descriptorRecord is the canonical serialized form of a descriptor.
type descriptorRecord struct {
	ID             string       `cbor:"id"`
	LabelKey       string       `cbor:"label_key,omitempty"`
	Kind           Kind         `cbor:"kind"`
	Parent         string       `cbor:"parent,omitempty"`
	Order          int          `cbor:"order"`
	DefaultChecked bool         `cbor:"default_checked,omitempty"`
	Disabled       bool         `cbor:"disabled,omitempty"`
	ExternalState  bool         `cbor:"external_state,omitempty"`
	Rebuild        bool         `cbor:"rebuild,omitempty"`
	Effect         effectRecord `cbor:"effect"`
}

// Digest returns a BLAKE3 hash of the canonical CBOR encoding of the
// usable descriptors in declaration order. Two schemas with the same
// digest compile to the same structure.
func (schema *Schema) Digest() [32]byte {
	records := make([]descriptorRecord, len(schema.descriptors))
	for index, descriptor := range schema.descriptors {
		records[index] = descriptorRecord{
			ID:             descriptor.ID,
			LabelKey:       descriptor.LabelKey,
			Kind:           descriptor.Kind,
			Parent:         descriptor.Parent,
			Order:          descriptor.Order,
			DefaultChecked: descriptor.DefaultChecked,
			Disabled:       descriptor.Disabled,
			ExternalState:  descriptor.ExternalState,
			Rebuild:        descriptor.Rebuild,
			Effect:         recordEffect(descriptor.Effect),
		}
	}
	data, err := codec.Marshal(records)
	if err != nil {
		// Every field is a plain value and every kind in a validated
		// schema has a name, so encoding cannot fail.
		panic("menu: encoding schema digest: " + err.Error())
	}
	return blake3.Sum256(data)
}

// DigestString returns the hex form of Digest.
func (schema *Schema) DigestString() string {
	digest := schema.Digest()
	return hex.EncodeToString(digest[:])
}
