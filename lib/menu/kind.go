// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"fmt"
	"strings"
)

// Kind classifies a menu item.
type Kind int

const (
	// KindAction is a plain clickable item.
	KindAction Kind = iota + 1
	// KindCheck is a clickable item with a checkmark.
	KindCheck
	// KindSeparator is a divider line. Separators carry no logical
	// identity at runtime: they are never registered and never appear
	// in events.
	KindSeparator
	// KindContainer is a submenu holding other items.
	KindContainer
)

var kindNames = map[Kind]string{
	KindAction:    "action",
	KindCheck:     "check",
	KindSeparator: "separator",
	KindContainer: "container",
}

// String returns the schema-file spelling of the kind.
func (kind Kind) String() string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(kind))
}

// ParseKind parses a schema-file kind name. "submenu" is accepted as
// an alias for "container".
func ParseKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "submenu" {
		return KindContainer, nil
	}
	for kind, kindName := range kindNames {
		if kindName == normalized {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Valid reports whether kind is one of the four defined kinds.
func (kind Kind) Valid() bool {
	_, ok := kindNames[kind]
	return ok
}

// Forwards reports whether activating an item of this kind notifies
// the host.
func (kind Kind) Forwards() bool {
	return kind == KindAction || kind == KindCheck
}

// MarshalText implements encoding.TextMarshaler so kinds serialize by
// name in schema digests and CLI output.
func (kind Kind) MarshalText() ([]byte, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	return []byte(kind.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (kind *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*kind = parsed
	return nil
}
