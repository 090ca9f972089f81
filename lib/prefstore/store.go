// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package prefstore persists the tray's user preferences across runs:
// the display language and the last known state of items whose state
// must survive a restart. Preferences live in a single bbolt file.
package prefstore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/bureau-foundation/tray/lib/codec"
	"github.com/bureau-foundation/tray/lib/menu"
)

const (
	bucketSettings = "settings"
	bucketItems    = "items"

	keyLanguage = "language"
)

// openTimeout bounds how long Open waits for another tray process to
// release the file lock.
const openTimeout = time.Second

// ErrLocked is returned by Open when another process holds the store.
var ErrLocked = errors.New("preference store is in use by another process")

// Store is a handle to an open preference file. It is safe for
// concurrent use.
type Store struct {
	db     *bolt.DB
	path   string
	logger *slog.Logger
}

// Open opens or creates the preference file at path, creating parent
// directories as needed.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating preference directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, fmt.Errorf("opening %s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketSettings, bucketItems} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing %s: %w", path, err)
	}
	return &Store{db: db, path: path, logger: logger.With("component", "prefstore")}, nil
}

// Close releases the file.
func (store *Store) Close() error {
	return store.db.Close()
}

// Path returns the file the store was opened from.
func (store *Store) Path() string {
	return store.path
}

// SaveLanguage implements menu.LanguageStore.
func (store *Store) SaveLanguage(language string) error {
	err := store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSettings)).Put([]byte(keyLanguage), []byte(language))
	})
	if err != nil {
		return fmt.Errorf("saving language: %w", err)
	}
	store.logger.Debug("language saved", "language", language)
	return nil
}

// Language returns the saved language. ok is false when none was saved.
func (store *Store) Language() (language string, ok bool, err error) {
	err = store.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(bucketSettings)).Get([]byte(keyLanguage))
		if value != nil {
			language, ok = string(value), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading language: %w", err)
	}
	return language, ok, nil
}

// SaveItems replaces the stored item states with snapshot.
func (store *Store) SaveItems(snapshot menu.Snapshot) error {
	err := store.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketItems)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(bucketItems))
		if err != nil {
			return err
		}
		for _, id := range snapshot.IDs() {
			value, err := codec.Marshal(snapshot[id])
			if err != nil {
				return fmt.Errorf("encoding %q: %w", id, err)
			}
			if err := bucket.Put([]byte(id), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving item states: %w", err)
	}
	store.logger.Debug("item states saved", "items", len(snapshot))
	return nil
}

// Items returns the stored item states. A value that fails to decode
// is skipped and logged; the rest are returned.
func (store *Store) Items() (menu.Snapshot, error) {
	snapshot := make(menu.Snapshot)
	err := store.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketItems)).ForEach(func(key, value []byte) error {
			var state menu.ItemState
			if err := codec.Unmarshal(value, &state); err != nil {
				store.logger.Warn("skipping unreadable item state", "item", string(key), "error", err)
				return nil
			}
			snapshot[string(key)] = state
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading item states: %w", err)
	}
	return snapshot, nil
}

// Reset removes every stored preference.
func (store *Store) Reset() error {
	err := store.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketSettings, bucketItems} {
			if err := tx.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("resetting preferences: %w", err)
	}
	return nil
}

var _ menu.LanguageStore = (*Store)(nil)
