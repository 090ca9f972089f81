// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trayui

import (
	"fmt"
	"sync/atomic"

	"github.com/bureau-foundation/tray/lib/menu"
)

// Item is one terminal menu row. A single type serves every kind so the
// model can walk the tree without type switches; the kind decides
// which operations are meaningful.
type Item struct {
	kind     menu.Kind
	label    string
	token    menu.Token
	enabled  bool
	checked  bool
	parent   *Item
	children []*Item
}

// Token implements menu.Widget.
func (item *Item) Token() menu.Token { return item.token }

// SetEnabled implements menu.Widget.
func (item *Item) SetEnabled(enabled bool) { item.enabled = enabled }

// Enabled implements menu.Widget.
func (item *Item) Enabled() bool { return item.enabled }

// SetChecked implements menu.CheckWidget.
func (item *Item) SetChecked(checked bool) { item.checked = checked }

// Checked implements menu.CheckWidget.
func (item *Item) Checked() bool { return item.checked }

// Append implements menu.ContainerWidget.
func (item *Item) Append(child menu.Widget) error {
	if item.kind != menu.KindContainer {
		return fmt.Errorf("appending to %s item %q", item.kind, item.label)
	}
	row, ok := child.(*Item)
	if !ok {
		return fmt.Errorf("appending foreign widget %T", child)
	}
	if row.parent != nil {
		return fmt.Errorf("item %q already has a parent", row.label)
	}
	row.parent = item
	item.children = append(item.children, row)
	return nil
}

// Kind returns the item kind. The root is a container.
func (item *Item) Kind() menu.Kind { return item.kind }

// Label returns the display text. Separators have none.
func (item *Item) Label() string { return item.label }

// Parent returns the containing item, or nil for the root and for
// items that were never attached.
func (item *Item) Parent() *Item { return item.parent }

// Children returns the attached rows in display order.
func (item *Item) Children() []*Item { return item.children }

// Selectable reports whether the cursor may rest on the row.
func (item *Item) Selectable() bool {
	return item.kind != menu.KindSeparator
}

// Toolkit builds terminal menu items. Tokens come from a counter that
// never resets, so every build yields tokens no earlier build used.
type Toolkit struct {
	counter atomic.Uint64
	root    *Item
}

// NewToolkit returns a toolkit with no built tree.
func NewToolkit() *Toolkit {
	return &Toolkit{}
}

var _ menu.Toolkit = (*Toolkit)(nil)

func (toolkit *Toolkit) newItem(kind menu.Kind, label string) *Item {
	item := &Item{kind: kind, label: label, enabled: true}
	if kind != menu.KindSeparator {
		item.token = menu.Token(fmt.Sprintf("row-%d", toolkit.counter.Add(1)))
	}
	return item
}

// NewRoot implements menu.Toolkit. The new root replaces the one
// returned by Root.
func (toolkit *Toolkit) NewRoot() (menu.ContainerWidget, error) {
	toolkit.root = toolkit.newItem(menu.KindContainer, "")
	return toolkit.root, nil
}

// NewContainer implements menu.Toolkit.
func (toolkit *Toolkit) NewContainer(label string) (menu.ContainerWidget, error) {
	return toolkit.newItem(menu.KindContainer, label), nil
}

// NewAction implements menu.Toolkit.
func (toolkit *Toolkit) NewAction(label string) (menu.Widget, error) {
	return toolkit.newItem(menu.KindAction, label), nil
}

// NewCheck implements menu.Toolkit.
func (toolkit *Toolkit) NewCheck(label string, checked bool) (menu.CheckWidget, error) {
	item := toolkit.newItem(menu.KindCheck, label)
	item.checked = checked
	return item, nil
}

// NewSeparator implements menu.Toolkit.
func (toolkit *Toolkit) NewSeparator() (menu.Widget, error) {
	return toolkit.newItem(menu.KindSeparator, ""), nil
}

// Root returns the root of the most recent build, or nil.
func (toolkit *Toolkit) Root() *Item {
	return toolkit.root
}
