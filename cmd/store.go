package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/internal/iocache"
	"github.com/lootlens/lootlens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfig loads and validates only the item store backend settings.
func storeConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := storeConfig(); err != nil {
		return err
	}

	// Lookups are not cached for store commands
	opts := iocache.StoreOptions{
		Backend:      cfg.StoreBackend,
		ConnStr:      cfg.StoreDBConnect,
		CacheBackend: schema.NoCache,
	}
	if err := iocache.InitStores(opts); err != nil {
		return fmt.Errorf("failed to initialize item store: %w", err)
	}
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetupWrapper validates the backend without opening the store,
// since opening it would create the tables that migrations manage.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeConfig()
}

// storeCmd focused on item store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by report commands. This avoids log directory
// validation and complex config processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the item store (prices, refresh state and settings)",
	Long: `Manage the item store that holds item prices, the price refresh state
and persisted settings.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all stored data
  migrate - Run database schema migrations

Examples:
  # Check store status
  lootlens store status

  # Start over with an empty store
  lootlens store clear`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the item store.

Displays:
- Backend type and connection status
- Total and priced item counts
- Last price update and refresh job state
- Number of persisted settings

Examples:
  lootlens store status
  LOOTLENS_STORE_BACKEND=postgresql LOOTLENS_STORE_DB_CONNECT="host=... dbname=..." lootlens store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := storeManager.GetItemStore()
		if store == nil {
			contract.LogFatal("Failed to get store status", contract.ErrStoreUnavailable)
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored prices, refresh state and settings",
	Long: `Delete all data from the configured item store.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store tables

Run 'lootlens refresh' afterwards to fetch prices again.

Examples:
  # Clear SQLite store (default)
  lootlens store clear

  # Clear MySQL store (set connection string via env variable)
  LOOTLENS_STORE_BACKEND=mysql LOOTLENS_STORE_DB_CONNECT="..." lootlens store clear`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStore(cfg.StoreBackend, iocache.GetDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the item store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the item store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  lootlens store migrate

  # Migrate to specific version
  lootlens store migrate --target-version 2

  # Rollback to initial state
  lootlens store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.MigrateItems(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(result)
	},
}
