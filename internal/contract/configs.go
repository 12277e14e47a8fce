package contract

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/lootlens/lootlens/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit     = 25
	MaxResultLimit         = 1000
	DefaultPrecision       = 1
	DefaultInterval        = 300 // seconds
	DefaultUser            = "all"
	DefaultRange           = "all"
	DefaultCacheTTL        = 10 * time.Minute
	DefaultRefreshInterval = time.Hour
	DefaultThrottle        = time.Second
	DefaultListenAddr      = ":3000"
	DefaultRedisAddr       = "localhost:6379"
	DefaultPricesURL       = "https://runescape.wiki/?title=Module:GEPrices/data.json&action=raw&ctype=application%2Fjson"
	DefaultExchangeURL     = "https://api.weirdgloop.org/exchange"
)

// DefaultWorkers is the default number of concurrent lookup workers.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// NamedRanges are the preset time windows offered by the dashboard.
var NamedRanges = map[string]time.Duration{
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"1h":  time.Hour,
	"6h":  6 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
	"all": 0,
}

// Config holds the runtime configuration for lootlens.
// This struct is the "final, validated" config.
type Config struct {
	LogDir      string
	User        string
	Range       time.Duration // 0 keeps every record
	RangeLabel  string
	Interval    int64 // bucket width in seconds
	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	Location    *time.Location

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	CacheBackend  schema.CacheBackend
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string // Please use env var as this is plaintext
	RedisDB       int

	CatalogPath     string
	PricesURL       string
	ExchangeURL     string
	RefreshInterval time.Duration

	ListenAddr string
	Throttle   time.Duration

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Dir            string `mapstructure:"dir"`
	User           string `mapstructure:"user"`
	Range          string `mapstructure:"range"`
	Interval       int64  `mapstructure:"interval"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	Timezone       string `mapstructure:"timezone"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	RedisAddr      string `mapstructure:"redis-addr"`
	RedisPassword  string `mapstructure:"redis-password"`
	RedisDB        int    `mapstructure:"redis-db"`

	// --- Fields from refreshCmd and serveCmd flags ---
	Catalog         string `mapstructure:"catalog"`
	PricesURL       string `mapstructure:"prices-url"`
	ExchangeURL     string `mapstructure:"exchange-url"`
	RefreshInterval string `mapstructure:"refresh-interval"`
	Listen          string `mapstructure:"listen"`
	Throttle        string `mapstructure:"throttle"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithView returns a copy of the Config scoped to another user and time window.
// Empty arguments keep the current values.
func (c *Config) CloneWithView(user, rangeLabel string) (*Config, error) {
	clone := c.Clone()
	if user != "" {
		clone.User = user
	}
	if rangeLabel != "" {
		d, err := ParseRange(rangeLabel)
		if err != nil {
			return nil, err
		}
		clone.Range = d
		clone.RangeLabel = strings.ToLower(rangeLabel)
	}
	return clone, nil
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, source LogSource, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	return resolveLogDir(ctx, cfg, source, input)
}

// ParseRange converts a named range ("5m", "1d", "all") or a Go duration into a window.
// A zero window keeps every record.
func ParseRange(s string) (time.Duration, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return 0, nil
	}
	if d, ok := NamedRanges[key]; ok {
		return d, nil
	}
	d, err := time.ParseDuration(key)
	if err != nil {
		return 0, fmt.Errorf("invalid range '%s'. must be 5m, 15m, 1h, 6h, 12h, 1d, all or a duration: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("range cannot be negative (received %s)", s)
	}
	return d, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates item store and lookup cache configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	cfg.CacheBackend = schema.CacheBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.MemoryCache
	}
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be memory, redis, none", input.CacheBackend)
	}
	cfg.RedisAddr = input.RedisAddr
	cfg.RedisPassword = input.RedisPassword
	cfg.RedisDB = input.RedisDB
	if cfg.CacheBackend == schema.RedisCache && cfg.RedisAddr == "" {
		return fmt.Errorf("redis-addr is required when using %s cache backend", cfg.CacheBackend)
	}
	if cfg.RedisDB < 0 {
		return fmt.Errorf("redis-db cannot be negative (received %d)", cfg.RedisDB)
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.CatalogPath = input.Catalog
	cfg.PricesURL = input.PricesURL
	cfg.ExchangeURL = input.ExchangeURL
	cfg.ListenAddr = input.Listen

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.User = strings.TrimSpace(input.User)
	if cfg.User == "" {
		cfg.User = DefaultUser
	}
	if err := ValidateUserName(cfg.User); err != nil {
		return err
	}

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Interval <= 0 {
		return fmt.Errorf("interval must be greater than 0 seconds (received %d)", input.Interval)
	}
	cfg.Interval = input.Interval

	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", cfg.Output)
	}
	if cfg.Output == schema.XLSXOut && cfg.OutputFile == "" {
		return fmt.Errorf("xlsx output requires --output-file")
	}

	rangeLabel := input.Range
	if strings.TrimSpace(rangeLabel) == "" {
		rangeLabel = DefaultRange
	}
	window, err := ParseRange(rangeLabel)
	if err != nil {
		return err
	}
	cfg.Range = window
	cfg.RangeLabel = strings.ToLower(strings.TrimSpace(rangeLabel))

	switch tz := strings.TrimSpace(input.Timezone); strings.ToLower(tz) {
	case "", "local":
		cfg.Location = time.Local
	default:
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w", tz, err)
		}
		cfg.Location = loc
	}

	return nil
}

// processDurations parses the duration-valued settings, falling back to defaults.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	parse := func(name, raw string, fallback time.Duration) (time.Duration, error) {
		if strings.TrimSpace(raw) == "" {
			return fallback, nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s '%s': %w", name, raw, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%s must be positive (received %s)", name, raw)
		}
		return d, nil
	}

	var err error
	if cfg.CacheTTL, err = parse("cache-ttl", input.CacheTTL, DefaultCacheTTL); err != nil {
		return err
	}
	if cfg.RefreshInterval, err = parse("refresh-interval", input.RefreshInterval, DefaultRefreshInterval); err != nil {
		return err
	}
	if cfg.Throttle, err = parse("throttle", input.Throttle, DefaultThrottle); err != nil {
		return err
	}
	return nil
}

// resolveLogDir resolves the log directory when one is given.
// An empty directory is left for the caller to fill from stored settings.
func resolveLogDir(ctx context.Context, cfg *Config, source LogSource, input *ConfigRawInput) error {
	dir := strings.TrimSpace(input.Dir)
	if dir == "" {
		cfg.LogDir = ""
		return nil
	}
	resolved, err := source.ResolveDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("invalid log directory: %w", err)
	}
	cfg.LogDir = resolved
	return nil
}
