// Package contract provides interfaces and shared utilities for the internal architecture of lootlens.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/lootlens/lootlens/schema"
)

// Sentinel errors shared across packages.
var (
	// ErrItemNotFound means the item id has no reference entry.
	ErrItemNotFound = errors.New("item not found")

	// ErrStoreUnavailable means the item store cannot serve any request.
	ErrStoreUnavailable = errors.New("item store unavailable")

	// ErrCacheMiss means the key was not found in the lookup cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrSettingNotFound means no value is stored for a setting key.
	ErrSettingNotFound = errors.New("setting not found")
)

// LogSource defines the operations needed to read per-user drop logs.
// This allows the pipeline to be tested without a real log directory.
type LogSource interface {
	// ResolveDir returns the absolute path of an existing log directory.
	ResolveDir(ctx context.Context, dir string) (string, error)

	// ListUsers returns the users that have a log file in dir, sorted by name.
	ListUsers(ctx context.Context, dir string) ([]string, error)

	// ReadUserLog returns the raw content of one user's log.
	ReadUserLog(ctx context.Context, dir string, user string) ([]byte, error)

	// ReadAllLogs returns the concatenated content of every user's log.
	ReadAllLogs(ctx context.Context, dir string) ([]byte, error)

	// ClearUserLog truncates one user's log.
	ClearUserLog(ctx context.Context, dir string, user string) error
}

// ItemLookup resolves an item id to its reference data.
// Implementations return ErrItemNotFound for unknown ids.
type ItemLookup interface {
	LookupItem(ctx context.Context, id int64) (schema.ItemReference, error)
}

// ItemStore defines the persistence of item reference data, refresh state and settings.
type ItemStore interface {
	ItemLookup

	// UpsertItems inserts or replaces reference rows.
	UpsertItems(ctx context.Context, items []schema.ItemReference) error

	// GetRefreshState returns the stored state of the price refresh job.
	GetRefreshState(ctx context.Context) (schema.RefreshState, error)

	// SetRefreshState replaces the stored state of the price refresh job.
	SetRefreshState(ctx context.Context, state schema.RefreshState) error

	// GetSetting returns ErrSettingNotFound when the key is unset.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key string, value string) error
	ListSettings(ctx context.Context) ([]schema.Setting, error)

	// Ping reports ErrStoreUnavailable when the backend cannot be reached.
	Ping(ctx context.Context) error

	GetStatus() (schema.StoreStatus, error)
	Close() error
}

// LookupCache defines a get-or-compute cache for item lookups.
type LookupCache interface {
	// GetOrCompute returns the cached item or stores the result of compute.
	// Errors from compute are returned and not cached.
	GetOrCompute(ctx context.Context, id int64, compute func(context.Context) (schema.ItemReference, error)) (schema.ItemReference, error)

	// Invalidate drops every cached item.
	Invalidate(ctx context.Context) error

	Close() error
}

// StoreManager defines the interface for managing the item store and its cache.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetItemStore() ItemStore
	GetLookupCache() LookupCache
}

// PriceClient defines the remote price API used by the refresh job.
type PriceClient interface {
	// LatestUpdate returns when the upstream exchange data last changed.
	LatestUpdate(ctx context.Context) (time.Time, error)

	// AllPrices returns current prices keyed by item name.
	AllPrices(ctx context.Context) (map[string]int64, error)
}

// Notifier receives change events from the log watcher.
type Notifier interface {
	Publish(event schema.ChangeEvent)
}
