// Package cmd defines the command-line interface for lootlens.
package cmd

import (
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(incomeCmd)
	rootCmd.AddCommand(rarityCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(treemapCmd)
	rootCmd.AddCommand(runtimeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory holding the <user>.log drop logs (defaults to the stored log_dir setting)")
	rootCmd.PersistentFlags().StringP("user", "u", contract.DefaultUser, "User whose log to read, or 'all' to merge every log")
	rootCmd.PersistentFlags().StringP("range", "r", contract.DefaultRange, "Time window ending now: 5m, 15m, 1h, 6h, 12h, 1d, all or a duration")
	rootCmd.PersistentFlags().Int64P("interval", "i", contract.DefaultInterval, "Bucket width in seconds for time series")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of items to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent lookup workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("timezone", "local", "Time zone for heatmap and activity views (IANA name or 'local')")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Item store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.MemoryCache), "Lookup cache backend: memory or redis or none")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "Lifetime of cached item lookups")
	rootCmd.PersistentFlags().String("redis-addr", contract.DefaultRedisAddr, "Redis address for the redis cache backend")
	rootCmd.PersistentFlags().String("redis-password", "", "Redis password (prefer the LOOTLENS_REDIS_PASSWORD env var)")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database number")
	rootCmd.PersistentFlags().String("catalog", "", "Path to an items catalog JSON file (defaults to the bundled catalog)")
	rootCmd.PersistentFlags().String("prices-url", contract.DefaultPricesURL, "URL of the item price data")
	rootCmd.PersistentFlags().String("exchange-url", contract.DefaultExchangeURL, "URL of the exchange update time")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", contract.DefaultListenAddr, "HTTP listen address of the dashboard API")
	serveCmd.Flags().String("throttle", contract.DefaultThrottle.String(), "Window that coalesces log changes into one event")
	serveCmd.Flags().String("refresh-interval", contract.DefaultRefreshInterval.String(), "How often to check for new prices")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
