package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// StoreOptions selects the item store and lookup cache backends.
type StoreOptions struct {
	Backend      schema.DatabaseBackend
	ConnStr      string
	CacheBackend schema.CacheBackend
	CacheTTL     time.Duration
	Redis        RedisConfig
}

// StoreOptionsFromConfig extracts the store settings of a validated Config.
func StoreOptionsFromConfig(cfg *contract.Config) StoreOptions {
	return StoreOptions{
		Backend:      cfg.StoreBackend,
		ConnStr:      cfg.StoreDBConnect,
		CacheBackend: cfg.CacheBackend,
		CacheTTL:     cfg.CacheTTL,
		Redis: RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		},
	}
}

// GetDBFilePath returns the path to the SQLite DB file for the item store.
func GetDBFilePath() string {
	return contract.GetDBFilePath()
}

// InitStores initializes the global manager with an item store and lookup cache.
func InitStores(opts StoreOptions) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		store, err := NewItemStore(opts.Backend, opts.ConnStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize item store: %w", err)
			return
		}

		cache, err := NewLookupCache(opts)
		if err != nil {
			_ = store.Close()
			initErr = fmt.Errorf("failed to initialize lookup cache: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.items = store
		Manager.cache = cache
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// NewLookupCache creates the lookup cache selected by opts.
func NewLookupCache(opts StoreOptions) (contract.LookupCache, error) {
	switch opts.CacheBackend {
	case schema.MemoryCache, "":
		return NewMemoryLookupCache(opts.CacheTTL), nil
	case schema.RedisCache:
		return NewRedisLookupCache(opts.Redis)
	case schema.NoCache:
		return NoopLookupCache{}, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", opts.CacheBackend)
	}
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.cache != nil {
			_ = Manager.cache.Close()
		}
		if Manager.items != nil {
			_ = Manager.items.Close()
		}
	})
}

// ClearStore clears the item store for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(driverName(backend), connStr, itemsTable, refreshTable, settingsTable, "schema_migrations")

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// clearSQLTables connects to the SQL database and drops the tables if they exist.
func clearSQLTables(driverName, connStr string, tables ...string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
