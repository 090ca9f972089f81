// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package locale

import "strings"

// Canonical language codes.
const (
	English  = "en"
	Chinese  = "zh"
	Japanese = "ja"
)

// Default is the fallback language.
const Default = English

var aliases = map[string]string{
	"en":       English,
	"en_us":    English,
	"en_gb":    English,
	"english":  English,
	"zh":       Chinese,
	"zh_cn":    Chinese,
	"zh_tw":    Chinese,
	"chinese":  Chinese,
	"ja":       Japanese,
	"ja_jp":    Japanese,
	"japanese": Japanese,
}

// Parse normalizes a language name or locale code to a canonical code.
// Matching is case-insensitive and treats '-' like '_'. POSIX locale
// suffixes such as ".UTF-8" are ignored. Unrecognized input returns
// English.
func Parse(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if dot := strings.IndexByte(normalized, '.'); dot >= 0 {
		normalized = normalized[:dot]
	}
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if code, ok := aliases[normalized]; ok {
		return code
	}
	return Default
}

// Known reports whether name is a recognized alias of a supported
// language, as opposed to falling back to English.
func Known(name string) bool {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if dot := strings.IndexByte(normalized, '.'); dot >= 0 {
		normalized = normalized[:dot]
	}
	_, ok := aliases[normalized]
	return ok
}

// Supported returns the canonical codes with built-in catalogs.
func Supported() []string {
	return []string{English, Chinese, Japanese}
}

// Format substitutes arg for every "%s" in template.
func Format(template, arg string) string {
	return strings.ReplaceAll(template, "%s", arg)
}
