// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	scrollTrackGlyph = "│"
	scrollThumbGlyph = "┃"
)

// RenderScrollbar draws a one-column scrollbar for a menu of
// totalItems rows showing visibleItems from scrollOffset. A menu that
// fits gets a blank column of the same height, so the row width does
// not change when a submenu grows past the screen.
func RenderScrollbar(theme Theme, height, totalItems, visibleItems, scrollOffset int) string {
	if height <= 0 {
		return ""
	}
	if totalItems <= 0 || totalItems <= visibleItems {
		return strings.TrimSuffix(strings.Repeat(" \n", height), "\n")
	}

	start, size := thumbSpan(height, totalItems, visibleItems, scrollOffset)
	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render(scrollTrackGlyph)
	thumb := lipgloss.NewStyle().Foreground(theme.AccentForeground).Render(scrollThumbGlyph)

	var builder strings.Builder
	for line := range height {
		if line > 0 {
			builder.WriteByte('\n')
		}
		if line >= start && line < start+size {
			builder.WriteString(thumb)
		} else {
			builder.WriteString(track)
		}
	}
	return builder.String()
}

// thumbSpan returns the first line and length of the thumb. The thumb
// is at least one line and never runs past the track.
func thumbSpan(height, totalItems, visibleItems, scrollOffset int) (int, int) {
	size := max(height*visibleItems/totalItems, 1)
	hidden := totalItems - visibleItems
	free := height - size
	start := 0
	if hidden > 0 && free > 0 {
		start = scrollOffset * free / hidden
	}
	return min(start, height-size), size
}
