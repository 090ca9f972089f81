// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFuzzyMatchSubstring(t *testing.T) {
	result := FuzzyMatch("Reset Display Device Config", []rune("display"), nil)
	if !result.Matched() {
		t.Fatal("expected substring to match")
	}
	if len(result.Positions) != len("display") {
		t.Errorf("positions = %v, want %d entries", result.Positions, len("display"))
	}
}

func TestFuzzyMatchNonContiguous(t *testing.T) {
	result := FuzzyMatch("Open Sunshine", []rune("osn"), nil)
	if !result.Matched() {
		t.Fatal("expected non-contiguous pattern to match")
	}
}

func TestFuzzyMatchCaseInsensitive(t *testing.T) {
	result := FuzzyMatch("QUIT", []rune("Quit"), nil)
	if !result.Matched() {
		t.Fatalf("expected case-insensitive match, got score=%d", result.Score)
	}
}

func TestFuzzyMatchNoMatch(t *testing.T) {
	result := FuzzyMatch("Restart", []rune("xyz"), nil)
	if result.Matched() {
		t.Errorf("expected no match, got score=%d", result.Score)
	}
	if len(result.Positions) != 0 {
		t.Errorf("expected no positions, got %v", result.Positions)
	}
}

func TestFuzzyMatchEmptyPattern(t *testing.T) {
	if FuzzyMatch("anything", nil, nil).Matched() {
		t.Error("empty pattern should not match")
	}
}

func TestFuzzyMatchPositionsAscending(t *testing.T) {
	slab := NewSlab()
	result := FuzzyMatch("Visit Project", []rune("vp"), slab)
	if !result.Matched() {
		t.Fatal("expected match")
	}
	for index := 1; index < len(result.Positions); index++ {
		if result.Positions[index] <= result.Positions[index-1] {
			t.Fatalf("positions not ascending: %v", result.Positions)
		}
	}
}

func TestFuzzyMatchMultibyte(t *testing.T) {
	result := FuzzyMatch("重置显示器", []rune("显示"), nil)
	if !result.Matched() {
		t.Fatal("expected CJK substring to match")
	}
	if diff := cmp.Diff([]int{2, 3}, result.Positions); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestHighlightPositions(t *testing.T) {
	upper := func(segment string) string { return "[" + strings.ToUpper(segment) + "]" }
	plain := func(segment string) string { return segment }

	tests := []struct {
		name      string
		text      string
		positions []int
		want      string
	}{
		{"none", "hello", nil, "hello"},
		{"first", "hello", []int{0}, "[H]ello"},
		{"adjacent runs", "hello", []int{1, 2}, "h[E][L]lo"},
		{"last", "hello", []int{4}, "hell[O]"},
		{"multibyte", "语言", []int{1}, "语[言]"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := HighlightPositions(test.text, test.positions, upper, plain)
			if got != test.want {
				t.Errorf("HighlightPositions = %q, want %q", got, test.want)
			}
		})
	}
}
