package cache

import (
	"context"
	"errors"
	"fmt"
)

// Common errors for store operations.
var (
	// ErrEntryNotFound is returned when no entry exists for a URL.
	ErrEntryNotFound = errors.New("cache entry not found")

	// ErrStoreNotFound is returned when dropping a store that does not exist.
	ErrStoreNotFound = errors.New("cache store not found")
)

// Store is one named durable key-value cache of responses keyed by request
// URL. Two stores exist at any time: a long-lived static store for the app
// shell and a runtime store for API responses and CDN assets. Store names
// embed a version tag; a version bump orphans old stores for deletion
// during activation.
type Store interface {
	// Name returns the store's versioned name.
	Name() string

	// Get returns the entry for the exact URL, or ErrEntryNotFound.
	Get(ctx context.Context, url string) (*Entry, error)

	// Put stores the entry under its URL, replacing any existing entry.
	Put(ctx context.Context, e *Entry) error

	// Delete removes the entry for the URL. Missing entries are not an error.
	Delete(ctx context.Context, url string) error
}

// StoreProvider manages the set of named stores. It is the dispatcher's
// view onto durable cache storage: opening stores by name, enumerating
// the names that exist, and dropping orphaned ones during activation.
type StoreProvider interface {
	// Open returns the store with the given name, creating it if needed.
	Open(name string) Store

	// Names returns the names of all stores that currently hold entries
	// or have been opened.
	Names(ctx context.Context) ([]string, error)

	// Drop removes a store and all of its entries.
	Drop(ctx context.Context, name string) error
}

// Store name construction. The version tag is embedded in the name so a
// deploy with a new version leaves the previous stores orphaned; Activate
// garbage-collects them by exact name match.
const storeNamePrefix = "jaldikaro"

// RuntimeStoreName returns the runtime store name for a cache version,
// e.g. "jaldikaro-v1.0.0".
func RuntimeStoreName(version string) string {
	return fmt.Sprintf("%s-%s", storeNamePrefix, version)
}

// StaticStoreName returns the static store name for a cache version,
// e.g. "jaldikaro-static-v1.0.0".
func StaticStoreName(version string) string {
	return fmt.Sprintf("%s-static-%s", storeNamePrefix, version)
}
