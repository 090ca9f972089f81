// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/tray/lib/codec"
)

// Shape is the token- and language-independent structure of one node
// of a compiled tree. Two compiles of the same schema produce equal
// shapes even though every widget and token differs.
type Shape struct {
	ID       string  `cbor:"id"`
	Kind     Kind    `cbor:"kind"`
	Children []Shape `cbor:"children,omitempty"`
}

// Shape returns the top-level shapes of the tree in layout order.
func (tree *Tree) Shape() []Shape {
	return shapeOf(tree.top)
}

func shapeOf(nodes []*liveNode) []Shape {
	if len(nodes) == 0 {
		return nil
	}
	shapes := make([]Shape, len(nodes))
	for index, node := range nodes {
		shapes[index] = Shape{
			ID:       node.descriptor.ID,
			Kind:     node.descriptor.Kind,
			Children: shapeOf(node.children),
		}
	}
	return shapes
}

// Fingerprint hashes the tree's shape with BLAKE3. Equal fingerprints
// mean isomorphic trees: same ids, same nesting, same sibling order.
func (tree *Tree) Fingerprint() [32]byte {
	data, err := codec.Marshal(tree.Shape())
	if err != nil {
		panic("menu: encoding tree shape: " + err.Error())
	}
	return blake3.Sum256(data)
}

// FingerprintString returns the hex form of Fingerprint, shortened to
// 16 characters for log lines.
func (tree *Tree) FingerprintString() string {
	fingerprint := tree.Fingerprint()
	return hex.EncodeToString(fingerprint[:8])
}

// WriteOutline writes an indented outline of the tree, one item per
// line, with the resolved label and live state of each widget. Used by
// the tree command and in test failure messages.
func (tree *Tree) WriteOutline(writer io.Writer, localizer Localizer) error {
	return tree.writeOutline(writer, localizer, tree.top, 0)
}

func (tree *Tree) writeOutline(writer io.Writer, localizer Localizer, nodes []*liveNode, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, node := range nodes {
		descriptor := node.descriptor
		var line string
		switch descriptor.Kind {
		case KindSeparator:
			line = fmt.Sprintf("%s----", indent)
		default:
			label := descriptor.LabelKey
			if localizer != nil {
				label = localizer.Resolve(descriptor.LabelKey, tree.language)
			}
			marker := ""
			if node.check != nil {
				marker = "[ ] "
				if node.check.Checked() {
					marker = "[x] "
				}
			}
			disabled := ""
			if !node.widget.Enabled() {
				disabled = " (disabled)"
			}
			suffix := ""
			if descriptor.Kind == KindContainer {
				suffix = " >"
			}
			line = fmt.Sprintf("%s%s%s%s  [%s]%s", indent, marker, label, suffix, descriptor.ID, disabled)
		}
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
		if err := tree.writeOutline(writer, localizer, node.children, depth+1); err != nil {
			return err
		}
	}
	return nil
}
