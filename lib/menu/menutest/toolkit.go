// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package menutest provides an in-memory toolkit and recording
// collaborators for testing code built on lib/menu.
package menutest

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bureau-foundation/tray/lib/menu"
)

// ErrInjected is returned by FakeToolkit for injected failures.
var ErrInjected = errors.New("injected toolkit failure")

// Widget is a fake native widget. One type serves every kind so tests
// can walk the tree without type switches.
type Widget struct {
	Kind     menu.Kind
	Label    string
	token    menu.Token
	enabled  bool
	checked  bool
	Children []*Widget
	Parent   *Widget

	// Root marks the top-level menu.
	Root bool

	failAppend func(child *Widget) bool
}

func (widget *Widget) Token() menu.Token      { return widget.token }
func (widget *Widget) SetEnabled(enabled bool) { widget.enabled = enabled }
func (widget *Widget) Enabled() bool           { return widget.enabled }
func (widget *Widget) SetChecked(checked bool) { widget.checked = checked }
func (widget *Widget) Checked() bool           { return widget.checked }

// Append attaches child. The toolkit's FailAppend labels make it fail.
func (widget *Widget) Append(child menu.Widget) error {
	fake, ok := child.(*Widget)
	if !ok {
		return fmt.Errorf("appending foreign widget %T", child)
	}
	if widget.failAppend != nil && widget.failAppend(fake) {
		return fmt.Errorf("appending %q: %w", fake.Label, ErrInjected)
	}
	fake.Parent = widget
	widget.Children = append(widget.Children, fake)
	return nil
}

// Find returns the first descendant with the given label, depth-first.
func (widget *Widget) Find(label string) *Widget {
	for _, child := range widget.Children {
		if child.Label == label {
			return child
		}
		if found := child.Find(label); found != nil {
			return found
		}
	}
	return nil
}

// Labels returns the labels of the direct children in order.
// Separators appear as "----".
func (widget *Widget) Labels() []string {
	labels := make([]string, len(widget.Children))
	for index, child := range widget.Children {
		if child.Kind == menu.KindSeparator {
			labels[index] = "----"
			continue
		}
		labels[index] = child.Label
	}
	return labels
}

// Outline renders the subtree as an indented label list.
func (widget *Widget) Outline() string {
	var builder strings.Builder
	widget.outline(&builder, 0)
	return builder.String()
}

func (widget *Widget) outline(builder *strings.Builder, depth int) {
	for _, child := range widget.Children {
		builder.WriteString(strings.Repeat("  ", depth))
		if child.Kind == menu.KindSeparator {
			builder.WriteString("----")
		} else {
			builder.WriteString(child.Label)
		}
		builder.WriteByte('\n')
		child.outline(builder, depth+1)
	}
}

// FakeToolkit is a menu.Toolkit that builds Widget values. Tokens are
// drawn from a counter that never resets, so every build produces
// fresh tokens like a real toolkit would.
type FakeToolkit struct {
	// FailLabels makes widget creation fail for the listed labels.
	FailLabels map[string]bool

	// FailAppendLabels makes appending a widget with the listed label
	// fail.
	FailAppendLabels map[string]bool

	// FailRoot makes NewRoot fail.
	FailRoot bool

	mutex   sync.Mutex
	counter int
	roots   []*Widget
	created int
}

// NewFakeToolkit returns a toolkit with no injected failures.
func NewFakeToolkit() *FakeToolkit {
	return &FakeToolkit{
		FailLabels:       make(map[string]bool),
		FailAppendLabels: make(map[string]bool),
	}
}

func (toolkit *FakeToolkit) NewRoot() (menu.ContainerWidget, error) {
	if toolkit.FailRoot {
		return nil, fmt.Errorf("creating root: %w", ErrInjected)
	}
	root := toolkit.newWidget(menu.KindContainer, "")
	root.Root = true
	toolkit.mutex.Lock()
	toolkit.roots = append(toolkit.roots, root)
	toolkit.mutex.Unlock()
	return root, nil
}

func (toolkit *FakeToolkit) NewContainer(label string) (menu.ContainerWidget, error) {
	if toolkit.FailLabels[label] {
		return nil, fmt.Errorf("creating container %q: %w", label, ErrInjected)
	}
	return toolkit.newWidget(menu.KindContainer, label), nil
}

func (toolkit *FakeToolkit) NewAction(label string) (menu.Widget, error) {
	if toolkit.FailLabels[label] {
		return nil, fmt.Errorf("creating action %q: %w", label, ErrInjected)
	}
	return toolkit.newWidget(menu.KindAction, label), nil
}

func (toolkit *FakeToolkit) NewCheck(label string, checked bool) (menu.CheckWidget, error) {
	if toolkit.FailLabels[label] {
		return nil, fmt.Errorf("creating check %q: %w", label, ErrInjected)
	}
	widget := toolkit.newWidget(menu.KindCheck, label)
	widget.checked = checked
	return widget, nil
}

func (toolkit *FakeToolkit) NewSeparator() (menu.Widget, error) {
	widget := toolkit.newWidget(menu.KindSeparator, "")
	widget.token = ""
	return widget, nil
}

func (toolkit *FakeToolkit) newWidget(kind menu.Kind, label string) *Widget {
	toolkit.mutex.Lock()
	defer toolkit.mutex.Unlock()
	toolkit.counter++
	toolkit.created++
	widget := &Widget{
		Kind:    kind,
		Label:   label,
		token:   menu.Token(fmt.Sprintf("w%d", toolkit.counter)),
		enabled: true,
	}
	widget.failAppend = func(child *Widget) bool {
		return toolkit.FailAppendLabels[child.Label]
	}
	return widget
}

// Root returns the most recently created root menu, or nil.
func (toolkit *FakeToolkit) Root() *Widget {
	toolkit.mutex.Lock()
	defer toolkit.mutex.Unlock()
	if len(toolkit.roots) == 0 {
		return nil
	}
	return toolkit.roots[len(toolkit.roots)-1]
}

// Builds returns how many root menus have been created.
func (toolkit *FakeToolkit) Builds() int {
	toolkit.mutex.Lock()
	defer toolkit.mutex.Unlock()
	return len(toolkit.roots)
}

// Created returns how many widgets of any kind have been created,
// roots included.
func (toolkit *FakeToolkit) Created() int {
	toolkit.mutex.Lock()
	defer toolkit.mutex.Unlock()
	return toolkit.created
}
