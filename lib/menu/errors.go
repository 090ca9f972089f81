// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by SchemaError and returned by the state
// accessors. Match with errors.Is.
var (
	ErrEmptyID            = errors.New("empty item id")
	ErrDuplicateID        = errors.New("duplicate item id")
	ErrDanglingParent     = errors.New("parent does not exist")
	ErrParentNotContainer = errors.New("parent is not a container")
	ErrParentCycle        = errors.New("parent chain contains a cycle")
	ErrMissingLabel       = errors.New("label key required")
	ErrUnknownKind        = errors.New("unknown item kind")
	ErrUnknownEffect      = errors.New("unknown effect")
	ErrInvalidEffect      = errors.New("invalid effect")

	ErrUnknownItem  = errors.New("no live item with this id")
	ErrNotCheckable = errors.New("item is not a check item")
	ErrNotBuilt     = errors.New("menu has not been built")
)

// SchemaError reports a structural problem with one descriptor. The
// descriptor is excluded from the usable schema; the rest of the
// schema is unaffected.
type SchemaError struct {
	// ID is the offending descriptor's id (may be empty when the
	// problem is an empty id).
	ID string

	// Field names the descriptor field at fault ("id", "parent",
	// "label_key", "kind", "effect").
	Field string

	// Err is the sentinel cause, optionally wrapped with detail.
	Err error
}

func (e *SchemaError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("menu schema: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("menu schema: item %q: %s: %v", e.ID, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// BuildError reports that the toolkit failed to create or attach the
// widget for one item. Build errors are never fatal: the item is
// skipped and the rest of the tree is built.
type BuildError struct {
	ID  string
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("menu build: item %q: %v", e.ID, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
