// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"fmt"
	"sort"
)

// ItemState is the mutable UI state of one item.
type ItemState struct {
	Checked   bool `json:"checked"`
	Enabled   bool `json:"enabled"`
	Checkable bool `json:"checkable"`
}

// Snapshot maps logical ids to their state at the moment the snapshot
// was taken. Snapshots are plain data: they can be held across a
// rebuild and sent over the host protocol.
type Snapshot map[string]ItemState

// IDs returns the snapshot's ids sorted.
func (snapshot Snapshot) IDs() []string {
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Checked returns the live checkmark of a check item.
func (tree *Tree) Checked(id string) (bool, error) {
	node, err := tree.node(id)
	if err != nil {
		return false, err
	}
	if node.check == nil {
		return false, fmt.Errorf("%w: %q is %s", ErrNotCheckable, id, node.descriptor.Kind)
	}
	return node.check.Checked(), nil
}

// SetChecked sets the live checkmark of a check item.
func (tree *Tree) SetChecked(id string, checked bool) error {
	node, err := tree.node(id)
	if err != nil {
		return err
	}
	if node.check == nil {
		return fmt.Errorf("%w: %q is %s", ErrNotCheckable, id, node.descriptor.Kind)
	}
	node.check.SetChecked(checked)
	return nil
}

// Enabled returns whether the item's widget is enabled.
func (tree *Tree) Enabled(id string) (bool, error) {
	node, err := tree.node(id)
	if err != nil {
		return false, err
	}
	return node.widget.Enabled(), nil
}

// SetEnabled enables or disables the item's widget.
func (tree *Tree) SetEnabled(id string, enabled bool) error {
	node, err := tree.node(id)
	if err != nil {
		return err
	}
	node.widget.SetEnabled(enabled)
	return nil
}

// State returns the full state of one item.
func (tree *Tree) State(id string) (ItemState, error) {
	node, err := tree.node(id)
	if err != nil {
		return ItemState{}, err
	}
	state := ItemState{Enabled: node.widget.Enabled()}
	if node.check != nil {
		state.Checkable = true
		state.Checked = node.check.Checked()
	}
	return state, nil
}

// Snapshot reads the state of each listed id that has a live widget.
// Ids without one are omitted.
func (tree *Tree) Snapshot(ids []string) Snapshot {
	snapshot := make(Snapshot, len(ids))
	if tree == nil {
		return snapshot
	}
	for _, id := range ids {
		state, err := tree.State(id)
		if err != nil {
			continue
		}
		snapshot[id] = state
	}
	return snapshot
}

// Restore applies saved state to the live widgets, overriding the
// schema defaults they were built with. Entries whose id no longer has
// a live widget are skipped and returned in sorted order. The
// checkmark is only restored onto check widgets.
func (tree *Tree) Restore(snapshot Snapshot) []string {
	var skipped []string
	for _, id := range snapshot.IDs() {
		node, err := tree.node(id)
		if err != nil {
			skipped = append(skipped, id)
			continue
		}
		state := snapshot[id]
		node.widget.SetEnabled(state.Enabled)
		if node.check != nil && state.Checkable {
			node.check.SetChecked(state.Checked)
		}
	}
	return skipped
}
