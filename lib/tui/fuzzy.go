// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"sort"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one text against a pattern.
// Score is zero when the pattern does not match. Positions are rune
// indices into the text, ascending.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// Matched reports whether the pattern matched.
func (result FuzzyResult) Matched() bool {
	return result.Score > 0
}

// NewSlab returns scratch memory for repeated FuzzyMatch calls on one
// goroutine. Passing nil to FuzzyMatch allocates per call instead.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// FuzzyMatch scores text against pattern with fzf's V2 algorithm.
// Matching is case-insensitive: both sides are lowercased first. An
// empty pattern scores zero.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}
	lowered := []rune(strings.ToLower(string(pattern)))
	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}

	var sorted []int
	if positions != nil {
		sorted = append(sorted, *positions...)
		sort.Ints(sorted)
	}
	return FuzzyResult{Score: result.Score, Positions: sorted}
}

// HighlightPositions wraps the runes of text at the given positions
// with render. Positions must be ascending rune indices.
func HighlightPositions(text string, positions []int, render func(string) string, plain func(string) string) string {
	if len(positions) == 0 {
		return plain(text)
	}
	runes := []rune(text)
	var builder strings.Builder
	next := 0
	runStart := 0
	flush := func(end int, highlighted bool) {
		if end <= runStart {
			return
		}
		segment := string(runes[runStart:end])
		if highlighted {
			builder.WriteString(render(segment))
		} else {
			builder.WriteString(plain(segment))
		}
		runStart = end
	}
	for index := range runes {
		isMatch := next < len(positions) && positions[next] == index
		if isMatch {
			flush(index, false)
			for next < len(positions) && positions[next] == index {
				next++
			}
			flush(index+1, true)
		}
	}
	flush(len(runes), false)
	return builder.String()
}
