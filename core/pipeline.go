package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lootlens/lootlens/core/agg"
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
)

// ErrNoLogDir means neither the config nor the stored settings name a log directory.
var ErrNoLogDir = errors.New("no log directory configured. pass --dir or run 'lootlens settings --dir <path>'")

// LoadResult is the outcome of one pipeline run.
type LoadResult struct {
	Dir     string
	Records []schema.HydratedRecord
	Stats   agg.ParseStats
	Now     time.Time // reference time of the range filter
}

// LoadRecords reads, parses, hydrates and filters the logs selected by cfg.
// The resolved log directory is persisted after a successful run.
func LoadRecords(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, source contract.LogSource) (*LoadResult, error) {
	store := mgr.GetItemStore()
	if store == nil {
		return nil, contract.ErrStoreUnavailable
	}

	dir, err := ResolveLogDir(ctx, cfg, store, source)
	if err != nil {
		return nil, err
	}
	if !shouldSuppressHeader(ctx) {
		logLoadHeader(cfg, dir)
	}

	// --- 1. Read ---
	content, err := readLogs(ctx, cfg, source, dir)
	if err != nil {
		return nil, err
	}

	// --- 2. Parse ---
	records, stats := agg.ParseLogWithStats(content)
	if stats.Skipped > 0 && !shouldSuppressHeader(ctx) {
		contract.LogWarn("Skipped malformed log lines", fmt.Errorf("%d of %d lines", stats.Skipped, stats.Lines))
	}

	// --- 3. Hydrate ---
	if err := store.Ping(ctx); err != nil {
		return nil, err
	}
	lookup := agg.NewCachedLookup(store, mgr.GetLookupCache())
	hydrated, err := agg.Hydrate(ctx, records, lookup, cfg.Workers)
	if err != nil {
		return nil, err
	}

	// --- 4. Filter ---
	now := nowFrom(ctx)
	hydrated = agg.FilterSince(hydrated, now, cfg.Range)

	if err := store.SetSetting(ctx, schema.LogDirSetting, dir); err != nil {
		contract.LogWarn("Cannot persist log directory", err)
	}

	return &LoadResult{Dir: dir, Records: hydrated, Stats: stats, Now: now}, nil
}

// ResolveLogDir returns the configured log directory, falling back to the stored setting.
func ResolveLogDir(ctx context.Context, cfg *contract.Config, store contract.ItemStore, source contract.LogSource) (string, error) {
	if cfg.LogDir != "" {
		return cfg.LogDir, nil
	}
	if store == nil {
		return "", contract.ErrStoreUnavailable
	}
	dir, err := store.GetSetting(ctx, schema.LogDirSetting)
	if errors.Is(err, contract.ErrSettingNotFound) {
		return "", ErrNoLogDir
	}
	if err != nil {
		return "", fmt.Errorf("failed to read stored log directory: %w", err)
	}
	resolved, err := source.ResolveDir(ctx, dir)
	if err != nil {
		return "", fmt.Errorf("stored log directory is invalid: %w", err)
	}
	return resolved, nil
}

// readLogs reads one user's log, or every log for the all user.
func readLogs(ctx context.Context, cfg *contract.Config, source contract.LogSource, dir string) ([]byte, error) {
	if cfg.User == "" || cfg.User == contract.DefaultUser {
		return source.ReadAllLogs(ctx, dir)
	}
	return source.ReadUserLog(ctx, dir, cfg.User)
}

// logLoadHeader prints a concise, 2-line header for each pipeline run.
// It goes to stderr so that JSON and CSV on stdout stay parseable.
func logLoadHeader(cfg *contract.Config, dir string) {
	_, _ = fmt.Fprintf(os.Stderr, "🔎 Logs: %s (User: %s)\n", dir, cfg.User)
	_, _ = fmt.Fprintf(os.Stderr, "📅 Range: %s (interval: %ds)\n", cfg.RangeLabel, cfg.Interval)
}

// BuildDashboard computes every view of the records.
func BuildDashboard(records []schema.HydratedRecord, cfg *contract.Config, now time.Time) schema.Dashboard {
	items := agg.SortTopItems(agg.RollupItems(records))
	logs := agg.ItemLogsFromRollup(items)

	return schema.Dashboard{
		User:        cfg.User,
		Range:       cfg.RangeLabel,
		GeneratedAt: now.Unix(),
		Overview:    agg.Overview(records, now),
		Income:      agg.IncomeSeries(records, cfg.Interval),
		Rarity:      agg.RaritySeries(records, cfg.Interval),
		Heatmap:     agg.HeatmapSeries(agg.ActivityHeatmap(records, cfg.Location)),
		Items:       items,
		Treemap:     agg.Treemap(logs),
		Groups:      agg.GroupByRarity(logs),
		Correlation: agg.ValueQuantityCorrelation(logs),
		Scatter:     agg.ValueQuantityPoints(logs),
		ByHour:      agg.ActivityByHour(records, cfg.Location),
		ByDay:       agg.ActivityByDay(records, cfg.Location),
	}
}

// GetDashboard runs the pipeline and returns every view for cfg.
func GetDashboard(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, source contract.LogSource) (schema.Dashboard, error) {
	result, err := LoadRecords(ctx, cfg, mgr, source)
	if err != nil {
		return schema.Dashboard{}, err
	}
	return BuildDashboard(result.Records, cfg, result.Now), nil
}
