// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func stripped(input string, options MarkdownOptions) string {
	return ansi.Strip(RenderMarkdown(input, DefaultTheme, options))
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if result := RenderMarkdown("", DefaultTheme, MarkdownOptions{Width: 80}); result != "" {
		t.Errorf("expected empty output, got %q", result)
	}
}

func TestRenderMarkdownReflow(t *testing.T) {
	result := stripped("Are you sure\nyou want to quit?", MarkdownOptions{Width: 80})
	if result != "Are you sure you want to quit?" {
		t.Errorf("soft break should become a space, got %q", result)
	}
}

func TestRenderMarkdownHardWraps(t *testing.T) {
	result := stripped("Are you sure\nyou want to quit?", MarkdownOptions{Width: 80, HardWraps: true})
	if result != "Are you sure\nyou want to quit?" {
		t.Errorf("HardWraps should keep the line break, got %q", result)
	}
}

func TestRenderMarkdownWrapsToWidth(t *testing.T) {
	input := "Closing the application stops every active stream and disconnects all paired clients."
	result := stripped(input, MarkdownOptions{Width: 30})
	for _, line := range strings.Split(result, "\n") {
		if ansi.StringWidth(line) > 30 {
			t.Errorf("line exceeds width 30: %q", line)
		}
	}
	if !strings.Contains(strings.ReplaceAll(result, "\n", " "), "paired clients.") {
		t.Errorf("text lost during wrapping:\n%s", result)
	}
}

func TestRenderMarkdownNeverExceedsWidth(t *testing.T) {
	input := "Reset display device memory? Paired clients, saved layouts and per-app overrides are discarded; this cannot be undone."
	want := strings.Join(strings.Fields(input), " ")
	for width := 20; width <= 48; width++ {
		result := stripped(input, MarkdownOptions{Width: width})
		for _, line := range strings.Split(result, "\n") {
			if ansi.StringWidth(line) > width {
				t.Errorf("width %d: line too wide (%d): %q", width, ansi.StringWidth(line), line)
			}
		}
		if got := strings.Join(strings.Fields(result), " "); got != want {
			t.Errorf("width %d: text changed during wrapping:\n%s", width, result)
		}
	}
}

func TestRenderMarkdownMinimumWidth(t *testing.T) {
	result := stripped("one two three four", MarkdownOptions{Width: 1})
	for _, line := range strings.Split(result, "\n") {
		if ansi.StringWidth(line) > 10 {
			t.Errorf("line exceeds clamped width 10: %q", line)
		}
	}
}

func TestRenderMarkdownEmphasis(t *testing.T) {
	result := stripped("This **cannot** be *undone*.", MarkdownOptions{Width: 80})
	if result != "This cannot be undone." {
		t.Errorf("emphasis markers should be consumed, got %q", result)
	}
}

func TestRenderMarkdownList(t *testing.T) {
	result := stripped("- first\n- second", MarkdownOptions{Width: 80})
	if !strings.Contains(result, "• first") || !strings.Contains(result, "• second") {
		t.Errorf("expected bullets, got:\n%s", result)
	}
}

func TestRenderMarkdownOrderedList(t *testing.T) {
	result := stripped("1. stop\n2. start", MarkdownOptions{Width: 80})
	if !strings.Contains(result, "1. stop") || !strings.Contains(result, "2. start") {
		t.Errorf("expected numbered items, got:\n%s", result)
	}
}

func TestRenderMarkdownLink(t *testing.T) {
	result := stripped("See [the project](https://example.com/sunshine).", MarkdownOptions{Width: 80})
	if !strings.Contains(result, "the project (https://example.com/sunshine)") {
		t.Errorf("expected link text followed by destination, got %q", result)
	}
}

func TestRenderMarkdownCodeSpan(t *testing.T) {
	result := stripped("Edit `sunshine.conf` first.", MarkdownOptions{Width: 80})
	if result != "Edit sunshine.conf first." {
		t.Errorf("code span text mismatch, got %q", result)
	}
}

func TestRenderMarkdownFencedCode(t *testing.T) {
	input := "Example:\n\n```yaml\nlanguage: zh\n```"
	result := stripped(input, MarkdownOptions{Width: 80})
	if !strings.Contains(result, "language: zh") {
		t.Errorf("fenced code content missing, got:\n%s", result)
	}
}

func TestRenderMarkdownStyled(t *testing.T) {
	result := RenderMarkdown("**bold**", DefaultTheme, MarkdownOptions{Width: 80})
	if !strings.Contains(result, "\x1b[") {
		t.Errorf("expected ANSI styling in output, got %q", result)
	}
}
