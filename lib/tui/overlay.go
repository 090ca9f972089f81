// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// resetSGR ends any styling in effect so the overlay and the view on
// either side of it do not bleed into each other.
const resetSGR = "\x1b[0m"

// SpliceOverlay draws overlay on top of view with its top-left corner
// at column anchorX of line anchorY. Overlay lines that fall outside
// the view are dropped. The cut is made on display columns, so
// styling in the view survives on both sides of the overlay.
func SpliceOverlay(view string, overlay []string, anchorX, anchorY int) string {
	if len(overlay) == 0 {
		return view
	}
	lines := strings.Split(view, "\n")
	width := ansi.StringWidth(overlay[0])
	for offset, patch := range overlay {
		target := anchorY + offset
		if target < 0 || target >= len(lines) {
			continue
		}
		lines[target] = spliceLine(lines[target], patch, anchorX, width)
	}
	return strings.Join(lines, "\n")
}

// spliceLine replaces width columns of line starting at column x with
// patch, padding a short line with spaces up to x.
func spliceLine(line, patch string, x, width int) string {
	var builder strings.Builder
	if x > 0 {
		left := ansi.Truncate(line, x, "")
		builder.WriteString(left)
		builder.WriteString(strings.Repeat(" ", max(x-ansi.StringWidth(left), 0)))
	}
	builder.WriteString(resetSGR)
	builder.WriteString(patch)
	builder.WriteString(resetSGR)
	if right := x + width; right < ansi.StringWidth(line) {
		builder.WriteString(ansi.TruncateLeft(line, right, ""))
	}
	return builder.String()
}

// CenterAnchor returns the corner that centers a blockWidth by
// blockHeight block on the screen. A block larger than the screen is
// pinned to the origin.
func CenterAnchor(screenWidth, screenHeight, blockWidth, blockHeight int) (int, int) {
	return max((screenWidth-blockWidth)/2, 0), max((screenHeight-blockHeight)/2, 0)
}

// PadLine fits styled content to exactly width columns: it is padded
// with spaces in backgroundStyle, or cut with an ellipsis.
func PadLine(styledContent string, width int, backgroundStyle lipgloss.Style) string {
	switch contentWidth := ansi.StringWidth(styledContent); {
	case contentWidth > width:
		return ansi.Truncate(styledContent, width, "…")
	case contentWidth < width:
		return styledContent + backgroundStyle.Render(strings.Repeat(" ", width-contentWidth))
	default:
		return styledContent
	}
}
