package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the item store.
	DatabaseBackend string

	// CacheBackend represents the backend of the item lookup cache.
	CacheBackend string

	// Rarity represents the price tier of an item.
	Rarity string

	// RefreshStatus represents the state of the last price refresh.
	RefreshStatus string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All item store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All lookup cache backends supported.
const (
	MemoryCache CacheBackend = "memory" // default
	RedisCache  CacheBackend = "redis"
	NoCache     CacheBackend = "none"
)

// Price tiers derived from item price.
const (
	RarityWhite   Rarity = "White"
	RarityGreen   Rarity = "Green"
	RarityBlue    Rarity = "Blue"
	RarityPurple  Rarity = "Purple"
	RarityOrange  Rarity = "Orange"
	RarityUnknown Rarity = "Unknown"
)

// All refresh states stored by the price refresh job.
const (
	RefreshDefault    RefreshStatus = "default"
	RefreshInProgress RefreshStatus = "inProgress"
	RefreshCompleted  RefreshStatus = "completed"
	RefreshError      RefreshStatus = "error"
)

// Well-known item ids.
const (
	CoinsItemID int64 = 995
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid item store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidCacheBackends lists all valid lookup cache backends.
var ValidCacheBackends = map[CacheBackend]struct{}{
	MemoryCache: {},
	RedisCache:  {},
	NoCache:     {},
}

// AllRarities lists the price tiers from cheapest to most valuable.
var AllRarities = []Rarity{RarityWhite, RarityGreen, RarityBlue, RarityPurple, RarityOrange}
