// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Entry is one row of the correlation registry.
type Entry struct {
	ID    string
	Token Token
	Kind  Kind
}

// Registry maps live widget tokens to logical item ids and back. It
// stores only strings, never widgets, so it is safe to share across
// goroutines: any goroutine may call Resolve, Lookup, Entries, and Len
// while the UI goroutine rebuilds.
//
// Register and Clear are writer operations. They are serialized by the
// registry's lock, but callers should still perform them from a single
// goroutine (the one building the tree) so that a Clear is always
// followed by the complete set of Register calls for the new tree.
//
// Between Clear and the last Register of a rebuild, Resolve misses for
// tokens of the old tree. That is expected: events against a destroyed
// tree are dropped rather than attributed to the wrong item.
type Registry struct {
	mutex      sync.RWMutex
	byToken    map[Token]Entry
	byID       map[string]Token
	generation uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byToken: make(map[Token]Entry),
		byID:    make(map[string]Token),
	}
}

// Register records the token for a logical id. Re-registering an id
// replaces its previous token. Registering a token already held by a
// different id is rejected so that Resolve stays collision-free.
func (registry *Registry) Register(id string, token Token, kind Kind) error {
	if id == "" {
		return errors.New("registering empty item id")
	}
	if token == "" {
		return fmt.Errorf("registering item %q: empty token", id)
	}

	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	if existing, ok := registry.byToken[token]; ok && existing.ID != id {
		return fmt.Errorf("registering item %q: token %q already belongs to %q", id, token, existing.ID)
	}
	if previous, ok := registry.byID[id]; ok {
		delete(registry.byToken, previous)
	}
	registry.byToken[token] = Entry{ID: id, Token: token, Kind: kind}
	registry.byID[id] = token
	return nil
}

// Resolve returns the logical id registered for token.
func (registry *Registry) Resolve(token Token) (string, bool) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	entry, ok := registry.byToken[token]
	return entry.ID, ok
}

// ResolveEntry returns the entry registered for token together with the
// generation it belongs to, read under one lock so a concurrent Clear
// cannot split them.
func (registry *Registry) ResolveEntry(token Token) (Entry, uint64, bool) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	entry, ok := registry.byToken[token]
	return entry, registry.generation, ok
}

// Lookup returns the entry registered for a logical id.
func (registry *Registry) Lookup(id string) (Entry, bool) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	token, ok := registry.byID[id]
	if !ok {
		return Entry{}, false
	}
	return registry.byToken[token], true
}

// Entries returns a snapshot of every entry sorted by id.
func (registry *Registry) Entries() []Entry {
	registry.mutex.RLock()
	entries := make([]Entry, 0, len(registry.byToken))
	for _, entry := range registry.byToken {
		entries = append(entries, entry)
	}
	registry.mutex.RUnlock()

	sort.Slice(entries, func(a, b int) bool { return entries[a].ID < entries[b].ID })
	return entries
}

// Len returns the number of registered entries.
func (registry *Registry) Len() int {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	return len(registry.byToken)
}

// Clear removes every entry and advances the generation counter.
func (registry *Registry) Clear() {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	registry.byToken = make(map[Token]Entry)
	registry.byID = make(map[string]Token)
	registry.generation++
}

// Generation counts Clear calls. Diagnostics use it to tell which
// build a resolution was made against.
func (registry *Registry) Generation() uint64 {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	return registry.generation
}

// Unregister removes the entry for a logical id. The compiler uses it
// to withdraw an item whose widget was created but could not be
// attached to the tree.
func (registry *Registry) Unregister(id string) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	if token, ok := registry.byID[id]; ok {
		delete(registry.byToken, token)
		delete(registry.byID, id)
	}
}
