package contract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lootlens/lootlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation; tests mutate a copy.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		User:      "all",
		Range:     "all",
		Interval:  DefaultInterval,
		Limit:     10,
		Workers:   4,
		Precision: 1,
		Output:    "text",
		Color:     "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
		setupMock   func(*MockLogSource)
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name: "valid config with log directory",
			mutate: func(in *ConfigRawInput) {
				in.Dir = "./drops"
			},
			setupMock: func(m *MockLogSource) {
				m.On("ResolveDir", context.Background(), "./drops").Return("/abs/drops", nil)
			},
		},
		{
			name: "missing log directory",
			mutate: func(in *ConfigRawInput) {
				in.Dir = "./missing"
			},
			expectError: true,
			setupMock: func(m *MockLogSource) {
				m.On("ResolveDir", context.Background(), "./missing").Return("", errors.New("no such directory"))
			},
		},
		{
			name:        "invalid limit (zero)",
			mutate:      func(in *ConfigRawInput) { in.Limit = 0 },
			expectError: true,
		},
		{
			name:        "invalid limit (too large)",
			mutate:      func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			expectError: true,
		},
		{
			name:        "invalid workers (negative)",
			mutate:      func(in *ConfigRawInput) { in.Workers = -1 },
			expectError: true,
		},
		{
			name:        "invalid interval",
			mutate:      func(in *ConfigRawInput) { in.Interval = 0 },
			expectError: true,
		},
		{
			name:        "invalid precision (too high)",
			mutate:      func(in *ConfigRawInput) { in.Precision = 5 },
			expectError: true,
		},
		{
			name:        "invalid output format",
			mutate:      func(in *ConfigRawInput) { in.Output = "yaml" },
			expectError: true,
		},
		{
			name:        "xlsx without output file",
			mutate:      func(in *ConfigRawInput) { in.Output = "xlsx" },
			expectError: true,
		},
		{
			name: "xlsx with output file",
			mutate: func(in *ConfigRawInput) {
				in.Output = "xlsx"
				in.OutputFile = "drops.xlsx"
			},
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: true,
		},
		{
			name:        "invalid range",
			mutate:      func(in *ConfigRawInput) { in.Range = "yesterday" },
			expectError: true,
		},
		{
			name:        "user with path separator",
			mutate:      func(in *ConfigRawInput) { in.User = "../etc/passwd" },
			expectError: true,
		},
		{
			name:        "invalid timezone",
			mutate:      func(in *ConfigRawInput) { in.Timezone = "Mars/Olympus" },
			expectError: true,
		},
		{
			name:        "invalid store backend",
			mutate:      func(in *ConfigRawInput) { in.StoreBackend = "oracle" },
			expectError: true,
		},
		{
			name:        "mysql backend without connection string",
			mutate:      func(in *ConfigRawInput) { in.StoreBackend = string(schema.MySQLBackend) },
			expectError: true,
		},
		{
			name:        "postgresql backend without connection string",
			mutate:      func(in *ConfigRawInput) { in.StoreBackend = string(schema.PostgreSQLBackend) },
			expectError: true,
		},
		{
			name: "mysql backend with connection string",
			mutate: func(in *ConfigRawInput) {
				in.StoreBackend = string(schema.MySQLBackend)
				in.StoreDBConnect = "user:pass@tcp(localhost:3306)/lootlens"
			},
		},
		{
			name:        "invalid cache backend",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "memcached" },
			expectError: true,
		},
		{
			name:        "redis cache without address",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = string(schema.RedisCache) },
			expectError: true,
		},
		{
			name: "redis cache with address",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.RedisCache)
				in.RedisAddr = "localhost:6379"
			},
		},
		{
			name:        "invalid cache ttl",
			mutate:      func(in *ConfigRawInput) { in.CacheTTL = "forever" },
			expectError: true,
		},
		{
			name:        "non-positive throttle",
			mutate:      func(in *ConfigRawInput) { in.Throttle = "0s" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(MockLogSource)
			if tt.setupMock != nil {
				tt.setupMock(source)
			}

			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(context.Background(), cfg, source, input)

			if tt.expectError {
				assert.Error(t, err, "contract.ProcessAndValidate should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "contract.ProcessAndValidate should not return an error for %s", tt.name)
				assert.Equal(t, input.Limit, cfg.ResultLimit)
				assert.Equal(t, input.Interval, cfg.Interval)
			}

			source.AssertExpectations(t)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	input := validInput()
	input.User = ""
	input.Range = ""

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, new(MockLogSource), input))

	assert.Equal(t, DefaultUser, cfg.User)
	assert.Equal(t, time.Duration(0), cfg.Range)
	assert.Equal(t, DefaultRange, cfg.RangeLabel)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.Equal(t, schema.MemoryCache, cfg.CacheBackend)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultRefreshInterval, cfg.RefreshInterval)
	assert.Equal(t, DefaultThrottle, cfg.Throttle)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Empty(t, cfg.LogDir)
	assert.True(t, cfg.UseColors)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		input       string
		expected    time.Duration
		expectError bool
	}{
		{input: "", expected: 0},
		{input: "all", expected: 0},
		{input: "ALL", expected: 0},
		{input: "5m", expected: 5 * time.Minute},
		{input: "15m", expected: 15 * time.Minute},
		{input: "1h", expected: time.Hour},
		{input: "6h", expected: 6 * time.Hour},
		{input: "12h", expected: 12 * time.Hour},
		{input: "1d", expected: 24 * time.Hour},
		{input: "90m", expected: 90 * time.Minute},
		{input: "-1h", expectError: true},
		{input: "2 days", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseRange(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestCloneWithView(t *testing.T) {
	cfg := &Config{User: "all", Range: 0, RangeLabel: "all", Interval: 300}

	clone, err := cfg.CloneWithView("alice", "1h")
	require.NoError(t, err)
	assert.Equal(t, "alice", clone.User)
	assert.Equal(t, time.Hour, clone.Range)
	assert.Equal(t, "1h", clone.RangeLabel)

	// Original is untouched
	assert.Equal(t, "all", cfg.User)
	assert.Equal(t, time.Duration(0), cfg.Range)

	same, err := cfg.CloneWithView("", "")
	require.NoError(t, err)
	assert.Equal(t, cfg, same)

	_, err = cfg.CloneWithView("", "bogus")
	assert.Error(t, err)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@localhost/db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "dbname=db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=db"))
}
