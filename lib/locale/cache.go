// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package locale

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bureau-foundation/tray/lib/menu"
)

// DefaultCacheSize covers every label of the shipped menu in every
// built-in language several times over.
const DefaultCacheSize = 512

type cacheKey struct {
	key      string
	language string
}

// CachedLocalizer memoizes an underlying localizer. The underlying
// localizer must be pure: the same key and language always resolve to
// the same string.
type CachedLocalizer struct {
	inner menu.Localizer
	cache *lru.Cache[cacheKey, string]
}

// NewCachedLocalizer wraps inner with an LRU of the given size.
func NewCachedLocalizer(inner menu.Localizer, size int) (*CachedLocalizer, error) {
	if inner == nil {
		return nil, fmt.Errorf("cached localizer: inner localizer is nil")
	}
	cache, err := lru.New[cacheKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("cached localizer: %w", err)
	}
	return &CachedLocalizer{inner: inner, cache: cache}, nil
}

// Resolve returns the cached string, resolving through the inner
// localizer on a miss.
func (localizer *CachedLocalizer) Resolve(key, language string) string {
	cacheKey := cacheKey{key: key, language: language}
	if text, ok := localizer.cache.Get(cacheKey); ok {
		return text
	}
	text := localizer.inner.Resolve(key, language)
	localizer.cache.Add(cacheKey, text)
	return text
}

// Purge drops every cached string. Call it after swapping catalog
// files at runtime.
func (localizer *CachedLocalizer) Purge() {
	localizer.cache.Purge()
}

// Len returns the number of cached strings.
func (localizer *CachedLocalizer) Len() int {
	return localizer.cache.Len()
}

var (
	_ menu.Localizer = (*Catalog)(nil)
	_ menu.Localizer = (*CachedLocalizer)(nil)
)
