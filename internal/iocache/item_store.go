package iocache

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
	_ "modernc.org/sqlite" // SQLite driver
)

// Table names of the item store.
const (
	itemsTable    = "items"
	refreshTable  = "ge"
	settingsTable = "settings"
)

// refreshRowID is the primary key of the single refresh state row.
const refreshRowID = 1

// ItemStoreImpl persists item reference data, refresh state and settings in SQL.
type ItemStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ItemStore = &ItemStoreImpl{} // Compile-time check

// NewItemStore opens the item store for the backend and creates its tables.
// The none backend returns an in-memory store.
func NewItemStore(backend schema.DatabaseBackend, connStr string) (contract.ItemStore, error) {
	if backend == schema.NoneBackend {
		return NewMemoryItemStore(), nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	for _, query := range getCreateTableQueries(backend) {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create item store tables: %w", err)
		}
	}

	return &ItemStoreImpl{db: db, backend: backend}, nil
}

// openDB opens a connection pool for a SQL backend without verifying it.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err := sql.Open(driverName(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err := sql.Open(driverName(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err := sql.Open(driverName(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// driverName returns the database/sql driver registered for a backend.
func driverName(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "mysql"
	case schema.PostgreSQLBackend:
		return "pgx"
	default:
		return "sqlite"
	}
}

// getCreateTableQueries returns the CREATE TABLE queries for the given backend.
// They match the first migration so either path yields the same schema.
func getCreateTableQueries(backend schema.DatabaseBackend) []string {
	switch backend {
	case schema.MySQLBackend:
		return []string{
			`CREATE TABLE IF NOT EXISTS items (
				id BIGINT PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				price BIGINT NOT NULL DEFAULT 0,
				alch BIGINT NOT NULL DEFAULT 0,
				rarity VARCHAR(16) NOT NULL,
				tradable BOOLEAN NOT NULL DEFAULT FALSE,
				stackable BOOLEAN NOT NULL DEFAULT FALSE,
				last_price_update BIGINT NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS ge (
				id INT PRIMARY KEY,
				status VARCHAR(16) NOT NULL,
				last_updated BIGINT NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS settings (
				setting_key VARCHAR(255) PRIMARY KEY,
				setting_value TEXT NOT NULL,
				updated BIGINT NOT NULL
			)`,
		}

	case schema.PostgreSQLBackend:
		return []string{
			`CREATE TABLE IF NOT EXISTS items (
				id BIGINT PRIMARY KEY,
				name TEXT NOT NULL,
				price BIGINT NOT NULL DEFAULT 0,
				alch BIGINT NOT NULL DEFAULT 0,
				rarity TEXT NOT NULL,
				tradable BOOLEAN NOT NULL DEFAULT FALSE,
				stackable BOOLEAN NOT NULL DEFAULT FALSE,
				last_price_update BIGINT NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS ge (
				id INTEGER PRIMARY KEY,
				status TEXT NOT NULL,
				last_updated BIGINT NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS settings (
				setting_key TEXT PRIMARY KEY,
				setting_value TEXT NOT NULL,
				updated BIGINT NOT NULL
			)`,
		}

	default: // SQLite
		return []string{
			`CREATE TABLE IF NOT EXISTS items (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				price INTEGER NOT NULL DEFAULT 0,
				alch INTEGER NOT NULL DEFAULT 0,
				rarity TEXT NOT NULL,
				tradable INTEGER NOT NULL DEFAULT 0,
				stackable INTEGER NOT NULL DEFAULT 0,
				last_price_update INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS ge (
				id INTEGER PRIMARY KEY,
				status TEXT NOT NULL,
				last_updated INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS settings (
				setting_key TEXT PRIMARY KEY,
				setting_value TEXT NOT NULL,
				updated INTEGER NOT NULL
			)`,
		}
	}
}

// placeholders returns the n parameter placeholders for the backend.
func (s *ItemStoreImpl) placeholders(n int) []any {
	ph := make([]any, n)
	for i := range n {
		if s.backend == schema.PostgreSQLBackend {
			ph[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ph[i] = "?"
		}
	}
	return ph
}

// LookupItem implements the ItemLookup interface.
func (s *ItemStoreImpl) LookupItem(ctx context.Context, id int64) (schema.ItemReference, error) {
	query := fmt.Sprintf(`SELECT id, name, price, alch, rarity, tradable, stackable, last_price_update FROM items WHERE id = %s`, s.placeholders(1)...)

	var (
		item        schema.ItemReference
		rarity      string
		lastUpdated int64
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Price, &item.Alch, &rarity, &item.Tradable, &item.Stackable, &lastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.ItemReference{}, fmt.Errorf("item %d: %w", id, contract.ErrItemNotFound)
		}
		return schema.ItemReference{}, classifyDBError(err)
	}
	item.Rarity = schema.Rarity(rarity)
	item.LastPriceUpdate = fromUnix(lastUpdated)
	return item, nil
}

// UpsertItems implements the ItemStore interface. All rows are written in one transaction.
func (s *ItemStoreImpl) UpsertItems(ctx context.Context, items []schema.ItemReference) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classifyDBError(err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.getUpsertItemQuery())
	if err != nil {
		return fmt.Errorf("failed to prepare item upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, it := range items {
		_, err := stmt.ExecContext(ctx, it.ID, it.Name, it.Price, it.Alch, string(it.Rarity), it.Tradable, it.Stackable, toUnix(it.LastPriceUpdate))
		if err != nil {
			return fmt.Errorf("failed to upsert item %d: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item upsert: %w", err)
	}
	return nil
}

// getUpsertItemQuery returns the UPSERT query for items.
func (s *ItemStoreImpl) getUpsertItemQuery() string {
	switch s.backend {
	case schema.MySQLBackend:
		return `INSERT INTO items (id, name, price, alch, rarity, tradable, stackable, last_price_update) VALUES (?, ?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE name = new.name, price = new.price, alch = new.alch, rarity = new.rarity,
			tradable = new.tradable, stackable = new.stackable, last_price_update = new.last_price_update`

	case schema.PostgreSQLBackend:
		return `INSERT INTO items (id, name, price, alch, rarity, tradable, stackable, last_price_update) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, alch = EXCLUDED.alch, rarity = EXCLUDED.rarity,
			tradable = EXCLUDED.tradable, stackable = EXCLUDED.stackable, last_price_update = EXCLUDED.last_price_update`

	default: // SQLite
		return `INSERT OR REPLACE INTO items (id, name, price, alch, rarity, tradable, stackable, last_price_update) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	}
}

// GetRefreshState implements the ItemStore interface.
// A store that never ran a refresh reports the default state.
func (s *ItemStoreImpl) GetRefreshState(ctx context.Context) (schema.RefreshState, error) {
	query := fmt.Sprintf(`SELECT status, last_updated FROM ge WHERE id = %s`, s.placeholders(1)...)

	var (
		status      string
		lastUpdated int64
	)
	err := s.db.QueryRowContext(ctx, query, refreshRowID).Scan(&status, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.RefreshState{Status: schema.RefreshDefault}, nil
	}
	if err != nil {
		return schema.RefreshState{}, classifyDBError(err)
	}
	return schema.RefreshState{Status: schema.RefreshStatus(status), LastUpdated: fromUnix(lastUpdated)}, nil
}

// SetRefreshState implements the ItemStore interface.
func (s *ItemStoreImpl) SetRefreshState(ctx context.Context, state schema.RefreshState) error {
	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = `INSERT INTO ge (id, status, last_updated) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE status = new.status, last_updated = new.last_updated`
	case schema.PostgreSQLBackend:
		query = `INSERT INTO ge (id, status, last_updated) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, last_updated = EXCLUDED.last_updated`
	default:
		query = `INSERT OR REPLACE INTO ge (id, status, last_updated) VALUES (?, ?, ?)`
	}
	if _, err := s.db.ExecContext(ctx, query, refreshRowID, string(state.Status), toUnix(state.LastUpdated)); err != nil {
		return fmt.Errorf("failed to store refresh state: %w", classifyDBError(err))
	}
	return nil
}

// GetSetting implements the ItemStore interface.
func (s *ItemStoreImpl) GetSetting(ctx context.Context, key string) (string, error) {
	query := fmt.Sprintf(`SELECT setting_value FROM settings WHERE setting_key = %s`, s.placeholders(1)...)

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", key, contract.ErrSettingNotFound)
	}
	if err != nil {
		return "", classifyDBError(err)
	}
	return value, nil
}

// SetSetting implements the ItemStore interface.
func (s *ItemStoreImpl) SetSetting(ctx context.Context, key string, value string) error {
	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = `INSERT INTO settings (setting_key, setting_value, updated) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE setting_value = new.setting_value, updated = new.updated`
	case schema.PostgreSQLBackend:
		query = `INSERT INTO settings (setting_key, setting_value, updated) VALUES ($1, $2, $3)
			ON CONFLICT (setting_key) DO UPDATE SET setting_value = EXCLUDED.setting_value, updated = EXCLUDED.updated`
	default:
		query = `INSERT OR REPLACE INTO settings (setting_key, setting_value, updated) VALUES (?, ?, ?)`
	}
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, classifyDBError(err))
	}
	return nil
}

// ListSettings implements the ItemStore interface.
func (s *ItemStoreImpl) ListSettings(ctx context.Context) ([]schema.Setting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT setting_key, setting_value, updated FROM settings ORDER BY setting_key`)
	if err != nil {
		return nil, classifyDBError(err)
	}
	defer func() { _ = rows.Close() }()

	settings := make([]schema.Setting, 0)
	for rows.Next() {
		var (
			setting schema.Setting
			updated int64
		)
		if err := rows.Scan(&setting.Key, &setting.Value, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		setting.Updated = fromUnix(updated)
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}

// Ping implements the ItemStore interface.
func (s *ItemStoreImpl) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrStoreUnavailable, err)
	}
	return nil
}

// GetStatus implements the ItemStore interface.
func (s *ItemStoreImpl) GetStatus() (schema.StoreStatus, error) {
	ctx := context.Background()
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}

	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(CASE WHEN price > 0 THEN 1 ELSE 0 END), 0), COALESCE(MAX(last_price_update), 0) FROM items`)
	var lastUpdate int64
	if err := row.Scan(&status.TotalItems, &status.PricedItems, &lastUpdate); err != nil {
		return status, fmt.Errorf("failed to get item counts: %w", err)
	}
	status.LastPriceUpdate = fromUnix(lastUpdate)

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM settings`).Scan(&status.TotalSettings); err != nil {
		return status, fmt.Errorf("failed to get settings count: %w", err)
	}

	refresh, err := s.GetRefreshState(ctx)
	if err != nil {
		return status, fmt.Errorf("failed to get refresh state: %w", err)
	}
	status.Refresh = refresh

	return status, nil
}

// Close closes the underlying DB connection.
func (s *ItemStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// classifyDBError marks connection-level failures as ErrStoreUnavailable.
func classifyDBError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone), errors.As(err, &netErr):
		return fmt.Errorf("%w: %v", contract.ErrStoreUnavailable, err)
	case err != nil && err.Error() == "sql: database is closed":
		return fmt.Errorf("%w: %v", contract.ErrStoreUnavailable, err)
	default:
		return err
	}
}

// toUnix stores the zero time as 0.
func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// fromUnix reads 0 back as the zero time.
func fromUnix(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}
