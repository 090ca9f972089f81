// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// schemaFile is the on-disk form of a schema. JSON and JSONC files use
// the same field names as YAML.
type schemaFile struct {
	Items []itemRecord `yaml:"items"`
}

type itemRecord struct {
	ID            string        `yaml:"id"`
	Label         string        `yaml:"label,omitempty"`
	Kind          string        `yaml:"kind"`
	Parent        string        `yaml:"parent,omitempty"`
	Order         int           `yaml:"order"`
	Checked       bool          `yaml:"checked,omitempty"`
	Disabled      bool          `yaml:"disabled,omitempty"`
	ExternalState bool          `yaml:"external_state,omitempty"`
	Rebuild       bool          `yaml:"rebuild,omitempty"`
	Effect        *effectRecord `yaml:"effect,omitempty"`
}

// LoadFile reads a schema file. The format follows the extension:
// .yaml and .yml are YAML, .json and .jsonc are JSON with comments and
// trailing commas allowed.
//
// Decoding problems (unreadable file, malformed syntax, unknown kind or
// effect names) are returned as a plain error with no schema. Structural
// problems (duplicates, dangling parents, cycles) produce a usable
// schema plus the joined *SchemaError values, exactly as NewSchema.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading menu schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("menu schema %s: unsupported extension (want .yaml, .yml, .json, or .jsonc)", path)
	}
	schema, err := Parse(data)
	if err != nil && schema == nil {
		return nil, fmt.Errorf("menu schema %s: %w", path, err)
	}
	return schema, err
}

// Parse decodes a YAML (or JSON) schema document.
func Parse(data []byte) (*Schema, error) {
	var file schemaFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing menu schema: %w", err)
	}

	descriptors := make([]Descriptor, 0, len(file.Items))
	var decodeErrors []error
	for position, record := range file.Items {
		descriptor, err := record.descriptor()
		if err != nil {
			decodeErrors = append(decodeErrors, fmt.Errorf("item %d (%q): %w", position, record.ID, err))
			continue
		}
		descriptors = append(descriptors, descriptor)
	}
	if len(decodeErrors) > 0 {
		return nil, errors.Join(decodeErrors...)
	}
	return NewSchema(descriptors...)
}

func (record itemRecord) descriptor() (Descriptor, error) {
	kind, err := ParseKind(record.Kind)
	if err != nil {
		return Descriptor{}, err
	}
	descriptor := Descriptor{
		ID:             record.ID,
		LabelKey:       record.Label,
		Kind:           kind,
		Parent:         record.Parent,
		Order:          record.Order,
		DefaultChecked: record.Checked,
		Disabled:       record.Disabled,
		ExternalState:  record.ExternalState,
		Rebuild:        record.Rebuild,
	}
	if record.Effect != nil {
		effect, err := record.Effect.effect()
		if err != nil {
			return Descriptor{}, err
		}
		descriptor.Effect = effect
	}
	return descriptor, nil
}

// MarshalYAML encodes the schema in the LoadFile format.
func (schema *Schema) MarshalYAML() (any, error) {
	file := schemaFile{Items: make([]itemRecord, len(schema.descriptors))}
	for index, descriptor := range schema.descriptors {
		record := itemRecord{
			ID:            descriptor.ID,
			Label:         descriptor.LabelKey,
			Kind:          descriptor.Kind.String(),
			Parent:        descriptor.Parent,
			Order:         descriptor.Order,
			Checked:       descriptor.DefaultChecked,
			Disabled:      descriptor.Disabled,
			ExternalState: descriptor.ExternalState,
			Rebuild:       descriptor.Rebuild,
		}
		if descriptor.Effect != nil {
			if _, none := descriptor.Effect.(NoEffect); !none {
				effect := recordEffect(descriptor.Effect)
				record.Effect = &effect
			}
		}
		file.Items[index] = record
	}
	return file, nil
}
