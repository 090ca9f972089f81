// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import "fmt"

// Effect is the local side effect an item performs when activated,
// before its logical id is forwarded to the host. Effects are data:
// the set of variants is closed, and the dispatcher interprets them in
// a single exhaustive switch. The zero Descriptor carries a nil
// Effect, which behaves like [NoEffect].
type Effect interface {
	effectName() string
}

// NoEffect performs nothing locally. The item still forwards its id.
type NoEffect struct{}

// SetLanguage switches the display language. Pair it with
// Descriptor.Rebuild so labels are re-resolved.
type SetLanguage struct {
	Language string
}

// Confirm asks the user to confirm before the activation completes.
// If the user declines, nothing is forwarded.
type Confirm struct {
	TitleKey   string
	MessageKey string
}

// OpenURL opens a link through the host's URL opener.
type OpenURL struct {
	URL string
}

func (NoEffect) effectName() string    { return "none" }
func (SetLanguage) effectName() string { return "set-language" }
func (Confirm) effectName() string     { return "confirm" }
func (OpenURL) effectName() string     { return "open-url" }

// EffectName returns the schema-file name of an effect ("none" for
// nil).
func EffectName(effect Effect) string {
	if effect == nil {
		return NoEffect{}.effectName()
	}
	return effect.effectName()
}

// effectRecord is the flat serialized form of an Effect, used by the
// schema loader and by Schema.Digest. The json tags also name the
// CBOR fields.
type effectRecord struct {
	Type       string `yaml:"type" json:"type"`
	Language   string `yaml:"language,omitempty" json:"language,omitempty"`
	TitleKey   string `yaml:"title_key,omitempty" json:"title_key,omitempty"`
	MessageKey string `yaml:"message_key,omitempty" json:"message_key,omitempty"`
	URL        string `yaml:"url,omitempty" json:"url,omitempty"`
}

func recordEffect(effect Effect) effectRecord {
	switch effect := effect.(type) {
	case nil, NoEffect:
		return effectRecord{Type: "none"}
	case SetLanguage:
		return effectRecord{Type: effect.effectName(), Language: effect.Language}
	case Confirm:
		return effectRecord{Type: effect.effectName(), TitleKey: effect.TitleKey, MessageKey: effect.MessageKey}
	case OpenURL:
		return effectRecord{Type: effect.effectName(), URL: effect.URL}
	default:
		return effectRecord{Type: effect.effectName()}
	}
}

func (record effectRecord) effect() (Effect, error) {
	switch record.Type {
	case "", "none":
		return NoEffect{}, nil
	case "set-language":
		return SetLanguage{Language: record.Language}, nil
	case "confirm":
		return Confirm{TitleKey: record.TitleKey, MessageKey: record.MessageKey}, nil
	case "open-url":
		return OpenURL{URL: record.URL}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, record.Type)
	}
}

// validateEffect checks that an effect's fields are populated and that
// the item kind can carry it.
func validateEffect(kind Kind, effect Effect) error {
	if effect == nil {
		return nil
	}
	if _, none := effect.(NoEffect); none {
		return nil
	}
	if !kind.Forwards() {
		return fmt.Errorf("%w: %s items cannot carry %s", ErrInvalidEffect, kind, effect.effectName())
	}
	switch effect := effect.(type) {
	case SetLanguage:
		if effect.Language == "" {
			return fmt.Errorf("%w: set-language needs a language", ErrInvalidEffect)
		}
	case Confirm:
		if effect.TitleKey == "" || effect.MessageKey == "" {
			return fmt.Errorf("%w: confirm needs title_key and message_key", ErrInvalidEffect)
		}
	case OpenURL:
		if effect.URL == "" {
			return fmt.Errorf("%w: open-url needs a url", ErrInvalidEffect)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEffect, effect.effectName())
	}
	return nil
}
