// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"errors"
	"fmt"
	"log/slog"
)

// CompileOptions configures a single compile pass.
type CompileOptions struct {
	Toolkit   Toolkit
	Localizer Localizer
	Language  string

	// Registry receives one entry per live action, check, and
	// container widget. The caller clears it beforehand. Nil skips
	// registration.
	Registry *Registry

	// Logger receives one warning per dropped item. Nil discards.
	Logger *slog.Logger
}

// liveNode is the compiler's record of one built item.
type liveNode struct {
	descriptor Descriptor
	widget     Widget
	check      CheckWidget
	container  ContainerWidget
	children   []*liveNode
	attached   bool
}

// Tree is one compiled instance of a schema: the root widget plus an
// id-indexed arena of every live widget. A Tree is confined to the
// goroutine that compiled it.
type Tree struct {
	root     ContainerWidget
	language string
	nodes    map[string]*liveNode
	top      []*liveNode
}

// Compile builds a widget tree from schema in three passes:
//
//  1. Containers, parents before children, each registered as soon as
//     it exists. A child can only be appended to a container that
//     already has a widget.
//  2. Leaves (actions, checks, separators). Separators are not
//     registered.
//  3. Attachment: every parent's children are appended in layout order,
//     top level last into the root.
//
// Compile is best-effort. An item whose widget cannot be created or
// attached is logged, reported in the returned errors as a
// *BuildError, and skipped along with its subtree; the rest of the
// tree is still built. The returned tree is nil only when the root
// menu itself cannot be created.
func Compile(schema *Schema, options CompileOptions) (*Tree, []error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	compiler := &compiler{
		schema:  schema,
		options: options,
		logger:  logger,
	}
	return compiler.run()
}

type compiler struct {
	schema  *Schema
	options CompileOptions
	logger  *slog.Logger
	tree    *Tree
	errors  []error
}

func (compiler *compiler) run() (*Tree, []error) {
	root, err := compiler.options.Toolkit.NewRoot()
	if err != nil {
		buildError := &BuildError{ID: "", Err: fmt.Errorf("creating root menu: %w", err)}
		compiler.logger.Error("menu root creation failed", "error", err)
		return nil, []error{buildError}
	}

	compiler.tree = &Tree{
		root:     root,
		language: compiler.options.Language,
		nodes:    make(map[string]*liveNode, compiler.schema.Len()),
	}

	compiler.buildContainers("")
	compiler.buildLeaves()
	compiler.tree.top = compiler.attach("", root)

	return compiler.tree, compiler.errors
}

// buildContainers creates container widgets depth-first from parent,
// so a container is only created once its own parent exists.
func (compiler *compiler) buildContainers(parent string) {
	for _, descriptor := range compiler.schema.Children(parent) {
		if descriptor.Kind != KindContainer {
			continue
		}
		widget, err := compiler.options.Toolkit.NewContainer(compiler.label(descriptor))
		if err != nil {
			compiler.fail(descriptor, fmt.Errorf("creating container: %w", err))
			compiler.dropSubtree(descriptor.ID)
			continue
		}
		node := &liveNode{descriptor: descriptor, widget: widget, container: widget}
		if !compiler.register(node) {
			compiler.dropSubtree(descriptor.ID)
			continue
		}
		compiler.tree.nodes[descriptor.ID] = node
		compiler.buildContainers(descriptor.ID)
	}
}

// buildLeaves creates every action, check, and separator whose parent
// container was built.
func (compiler *compiler) buildLeaves() {
	for _, descriptor := range compiler.schema.descriptors {
		if descriptor.Kind == KindContainer {
			continue
		}
		if descriptor.Parent != "" {
			if _, ok := compiler.tree.nodes[descriptor.Parent]; !ok {
				// The parent failed to build; its failure was already
				// reported and this item was reported by dropSubtree.
				continue
			}
		}

		node := &liveNode{descriptor: descriptor}
		label := compiler.label(descriptor)
		var err error
		switch descriptor.Kind {
		case KindAction:
			node.widget, err = compiler.options.Toolkit.NewAction(label)
		case KindCheck:
			node.check, err = compiler.options.Toolkit.NewCheck(label, descriptor.DefaultChecked)
			node.widget = node.check
		case KindSeparator:
			node.widget, err = compiler.options.Toolkit.NewSeparator()
		}
		if err != nil {
			compiler.fail(descriptor, fmt.Errorf("creating %s: %w", descriptor.Kind, err))
			continue
		}
		if descriptor.Kind != KindSeparator && !compiler.register(node) {
			continue
		}
		compiler.tree.nodes[descriptor.ID] = node
	}
}

// attach appends the live children of parentID to widget in layout
// order and returns the nodes that were attached. Containers are
// appended before their own children are attached, so a container
// whose append fails takes its subtree with it.
func (compiler *compiler) attach(parentID string, widget ContainerWidget) []*liveNode {
	var attached []*liveNode
	for _, descriptor := range compiler.schema.Children(parentID) {
		node, ok := compiler.tree.nodes[descriptor.ID]
		if !ok {
			continue
		}
		if err := widget.Append(node.widget); err != nil {
			compiler.fail(descriptor, fmt.Errorf("appending to %s: %w", parentName(parentID), err))
			compiler.discard(node)
			continue
		}
		node.attached = true
		attached = append(attached, node)
		if node.container != nil {
			node.children = compiler.attach(descriptor.ID, node.container)
		}
	}
	return attached
}

// register records a node's token, reporting a build error on failure.
// It also applies the descriptor's initial enabled state.
func (compiler *compiler) register(node *liveNode) bool {
	node.widget.SetEnabled(!node.descriptor.Disabled)
	if compiler.options.Registry == nil {
		return true
	}
	err := compiler.options.Registry.Register(node.descriptor.ID, node.widget.Token(), node.descriptor.Kind)
	if err != nil {
		compiler.fail(node.descriptor, err)
		return false
	}
	return true
}

// discard withdraws a built but unattachable node and everything
// below it from the arena and the registry.
func (compiler *compiler) discard(node *liveNode) {
	delete(compiler.tree.nodes, node.descriptor.ID)
	if compiler.options.Registry != nil {
		compiler.options.Registry.Unregister(node.descriptor.ID)
	}
	for _, child := range compiler.schema.Children(node.descriptor.ID) {
		if childNode, ok := compiler.tree.nodes[child.ID]; ok {
			compiler.discard(childNode)
		}
	}
}

// dropSubtree reports every descendant of a failed container as
// orphaned. None of them have widgets yet.
func (compiler *compiler) dropSubtree(parentID string) {
	for _, child := range compiler.schema.Children(parentID) {
		compiler.fail(child, fmt.Errorf("parent %q was not built", parentID))
		if child.Kind == KindContainer {
			compiler.dropSubtree(child.ID)
		}
	}
}

func (compiler *compiler) fail(descriptor Descriptor, err error) {
	compiler.logger.Warn("menu item skipped",
		"item", descriptor.ID,
		"kind", descriptor.Kind.String(),
		"parent", descriptor.Parent,
		"error", err,
	)
	compiler.errors = append(compiler.errors, &BuildError{ID: descriptor.ID, Err: err})
}

func (compiler *compiler) label(descriptor Descriptor) string {
	if descriptor.LabelKey == "" || compiler.options.Localizer == nil {
		return descriptor.LabelKey
	}
	return compiler.options.Localizer.Resolve(descriptor.LabelKey, compiler.options.Language)
}

func parentName(parentID string) string {
	if parentID == "" {
		return "root menu"
	}
	return fmt.Sprintf("%q", parentID)
}

// Root returns the top-level menu widget.
func (tree *Tree) Root() ContainerWidget {
	return tree.root
}

// Language returns the language the tree's labels were resolved in.
func (tree *Tree) Language() string {
	return tree.language
}

// Len returns the number of live non-separator items.
func (tree *Tree) Len() int {
	count := 0
	for _, node := range tree.nodes {
		if node.descriptor.Kind != KindSeparator {
			count++
		}
	}
	return count
}

// Widget returns the live widget for a logical id. Separators are not
// addressable.
func (tree *Tree) Widget(id string) (Widget, bool) {
	node, ok := tree.nodes[id]
	if !ok || node.descriptor.Kind == KindSeparator {
		return nil, false
	}
	return node.widget, true
}

// Has reports whether id has a live, addressable widget.
func (tree *Tree) Has(id string) bool {
	_, ok := tree.Widget(id)
	return ok
}

// node returns the addressable node for id.
func (tree *Tree) node(id string) (*liveNode, error) {
	if tree == nil {
		return nil, ErrNotBuilt
	}
	node, ok := tree.nodes[id]
	if !ok || node.descriptor.Kind == KindSeparator {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return node, nil
}

// IsBuildError reports whether err (or any error it joins) is a
// *BuildError.
func IsBuildError(err error) bool {
	var buildError *BuildError
	return errors.As(err, &buildError)
}
