// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "tree", 4},
		{"tree", "tree", 0},
		{"tre", "tree", 1},
		{"lisen", "listen", 1},
		{"kitten", "sitting", 3},
		{"中文", "日文", 1},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "run"}, {Name: "validate"}, {Name: "listen"}}
	if got := suggestCommand("valdate", commands); got != "validate" {
		t.Errorf("suggestCommand(valdate) = %q, want validate", got)
	}
	if got := suggestCommand("completely-different", commands); got != "" {
		t.Errorf("suggestCommand(completely-different) = %q, want none", got)
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.String("socket", "", "")
	flagSet.BoolP("json", "j", false, "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--sockt=/tmp/x"}, "--socket"},
		{[]string{"-j", "--jsn"}, "--json"},
		{[]string{"positional", "--socket", "x"}, ""},
		{[]string{"--", "--sockt"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
