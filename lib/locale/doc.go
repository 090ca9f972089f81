// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package locale resolves menu label keys to display strings.
//
// Strings live in per-language YAML catalogs. The built-in catalogs
// (English, Chinese, Japanese) are embedded in the binary; deployments
// can overlay their own with [Catalog.Merge]. A lookup tries the
// requested language, then English, then returns the empty string.
//
// Language codes are normalized with [Parse]: "zh_CN", "zh-tw", and
// "chinese" all mean "zh"; anything unrecognized means English.
//
// [Catalog] satisfies menu.Localizer. [CachedLocalizer] wraps any
// localizer with a bounded LRU for UIs that resolve the same labels on
// every frame.
package locale
