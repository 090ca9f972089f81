// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func childIDs(schema *Schema, parent string) []string {
	var ids []string
	for _, descriptor := range schema.Children(parent) {
		ids = append(ids, descriptor.ID)
	}
	return ids
}

func TestNewSchemaValid(t *testing.T) {
	schema, err := NewSchema(
		Action("open", "open", "", 100),
		Separator("sep", "", 200),
		Container("lang", "language", "", 300),
		Check("lang.en", "english", "lang", true, 10).WithEffect(SetLanguage{Language: "en"}).WithRebuild(),
		Check("lang.zh", "chinese", "lang", false, 20).WithEffect(SetLanguage{Language: "zh"}).WithRebuild(),
	)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	if schema.Len() != 5 {
		t.Errorf("Len = %d, want 5", schema.Len())
	}
	if diff := cmp.Diff([]string{"open", "sep", "lang"}, childIDs(schema, "")); diff != "" {
		t.Errorf("top-level order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"lang.en", "lang.zh"}, childIDs(schema, "lang")); diff != "" {
		t.Errorf("lang children (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"lang.en", "lang.zh"}, schema.StateBearingIDs()); diff != "" {
		t.Errorf("StateBearingIDs (-want +got):\n%s", diff)
	}
	if len(schema.Problems()) != 0 {
		t.Errorf("Problems = %v, want none", schema.Problems())
	}
}

func TestNewSchemaSiblingOrderIsStable(t *testing.T) {
	// Equal Order values keep declaration order; lower Order sorts
	// first regardless of declaration position.
	schema := MustSchema(
		Action("c", "c", "", 5),
		Action("a", "a", "", 1),
		Action("b1", "b", "", 3),
		Action("b2", "b", "", 3),
		Action("b3", "b", "", 3),
	)
	if diff := cmp.Diff([]string{"a", "b1", "b2", "b3", "c"}, childIDs(schema, "")); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestNewSchemaRejections(t *testing.T) {
	tests := []struct {
		name        string
		descriptors []Descriptor
		wantErr     error
		wantIDs     []string
	}{
		{
			name: "duplicate id keeps first",
			descriptors: []Descriptor{
				Action("quit", "quit", "", 1),
				Action("quit", "exit", "", 2),
			},
			wantErr: ErrDuplicateID,
			wantIDs: []string{"quit"},
		},
		{
			name: "empty id",
			descriptors: []Descriptor{
				Action("", "nothing", "", 1),
				Action("ok", "ok", "", 2),
			},
			wantErr: ErrEmptyID,
			wantIDs: []string{"ok"},
		},
		{
			name: "dangling parent",
			descriptors: []Descriptor{
				Action("orphan", "orphan", "missing", 1),
				Action("ok", "ok", "", 2),
			},
			wantErr: ErrDanglingParent,
			wantIDs: []string{"ok"},
		},
		{
			name: "parent is not a container",
			descriptors: []Descriptor{
				Action("leaf", "leaf", "", 1),
				Action("child", "child", "leaf", 1),
			},
			wantErr: ErrParentNotContainer,
			wantIDs: []string{"leaf"},
		},
		{
			name: "parent cycle",
			descriptors: []Descriptor{
				Container("a", "a", "b", 1),
				Container("b", "b", "a", 1),
				Action("ok", "ok", "", 1),
			},
			wantErr: ErrParentCycle,
			wantIDs: []string{"ok"},
		},
		{
			name: "self parent",
			descriptors: []Descriptor{
				Container("self", "self", "self", 1),
			},
			wantErr: ErrParentCycle,
			wantIDs: nil,
		},
		{
			name: "missing label",
			descriptors: []Descriptor{
				Action("blank", "", "", 1),
			},
			wantErr: ErrMissingLabel,
			wantIDs: nil,
		},
		{
			name: "unknown kind",
			descriptors: []Descriptor{
				{ID: "weird", LabelKey: "weird", Kind: Kind(42)},
			},
			wantErr: ErrUnknownKind,
			wantIDs: nil,
		},
		{
			name: "effect on container",
			descriptors: []Descriptor{
				Container("box", "box", "", 1).WithEffect(OpenURL{URL: "https://example.com"}),
			},
			wantErr: ErrInvalidEffect,
			wantIDs: nil,
		},
		{
			name: "incomplete confirm",
			descriptors: []Descriptor{
				Action("quit", "quit", "", 1).WithEffect(Confirm{TitleKey: "title"}),
			},
			wantErr: ErrInvalidEffect,
			wantIDs: nil,
		},
		{
			name: "rejected container takes its subtree",
			descriptors: []Descriptor{
				Container("outer", "outer", "missing", 1),
				Container("inner", "inner", "outer", 1),
				Action("leaf", "leaf", "inner", 1),
				Action("ok", "ok", "", 2),
			},
			wantErr: ErrDanglingParent,
			wantIDs: []string{"ok"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			schema, err := NewSchema(test.descriptors...)
			if schema == nil {
				t.Fatal("NewSchema returned nil schema")
			}
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("error = %v, want %v", err, test.wantErr)
			}
			var schemaError *SchemaError
			if !errors.As(err, &schemaError) {
				t.Errorf("error %v does not contain a *SchemaError", err)
			}
			var gotIDs []string
			for _, descriptor := range schema.Descriptors() {
				gotIDs = append(gotIDs, descriptor.ID)
			}
			if diff := cmp.Diff(test.wantIDs, gotIDs); diff != "" {
				t.Errorf("usable ids (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewSchemaCascadeReportsEachDescendant(t *testing.T) {
	schema, err := NewSchema(
		Container("outer", "outer", "missing", 1),
		Container("inner", "inner", "outer", 1),
		Action("leaf", "leaf", "inner", 1),
	)
	if err == nil {
		t.Fatal("expected an error")
	}
	if schema.Len() != 0 {
		t.Errorf("Len = %d, want 0", schema.Len())
	}
	problems := schema.Problems()
	if len(problems) != 3 {
		t.Fatalf("got %d problems, want 3: %v", len(problems), problems)
	}
	rejected := make(map[string]bool)
	for _, problem := range problems {
		var schemaError *SchemaError
		if !errors.As(problem, &schemaError) {
			t.Fatalf("problem %v is not a *SchemaError", problem)
		}
		rejected[schemaError.ID] = true
	}
	for _, id := range []string{"outer", "inner", "leaf"} {
		if !rejected[id] {
			t.Errorf("%q was not reported", id)
		}
	}
}

func TestMustSchemaPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustSchema did not panic on a duplicate id")
		}
	}()
	MustSchema(Action("x", "x", "", 1), Action("x", "x", "", 2))
}

func TestSchemaDigest(t *testing.T) {
	build := func(order int) *Schema {
		return MustSchema(
			Action("open", "open", "", 1),
			Action("quit", "quit", "", order).WithEffect(Confirm{TitleKey: "t", MessageKey: "m"}),
		)
	}
	if build(2).Digest() != build(2).Digest() {
		t.Error("identical schemas produced different digests")
	}
	if build(2).Digest() == build(3).Digest() {
		t.Error("schemas differing in order produced the same digest")
	}
	if len(build(2).DigestString()) != 64 {
		t.Errorf("DigestString length = %d, want 64", len(build(2).DigestString()))
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"action":    KindAction,
		"check":     KindCheck,
		"separator": KindSeparator,
		"container": KindContainer,
		"submenu":   KindContainer,
		" Check ":   KindCheck,
	}
	for name, want := range tests {
		got, err := ParseKind(name)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseKind(%q) = %s, want %s", name, got, want)
		}
	}
	if _, err := ParseKind("radio"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(radio) error = %v, want ErrUnknownKind", err)
	}
}
