// Package core has the orchestration of the drop log pipeline: loading,
// aggregation, price refresh and log watching.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lootlens/lootlens/core/agg"
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/internal/outwriter"
	"github.com/lootlens/lootlens/internal/parquet"
	"github.com/lootlens/lootlens/internal/pricing"
	"github.com/lootlens/lootlens/schema"
)

// ExecutorFunc defines the function signature for executing the report commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteSummary prints the overview and top items.
// It serves as the main entry point for the 'summary' command.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	dash, err := GetDashboard(ctx, cfg, mgr, contract.NewLocalLogSource())
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSummary(dash, cfg, time.Since(start))
}

// ExecuteItems prints the items ranked by drop rarity, then total value.
func ExecuteItems(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := LoadRecords(ctx, cfg, mgr, contract.NewLocalLogSource())
	if err != nil {
		return err
	}
	items := agg.SortTopItems(agg.RollupItems(result.Records))
	return outwriter.NewOutWriter().WriteItems(items, cfg, time.Since(start))
}

// ExecuteIncome prints income per time bucket.
func ExecuteIncome(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := LoadRecords(ctx, cfg, mgr, contract.NewLocalLogSource())
	if err != nil {
		return err
	}
	buckets := agg.IncomeSeries(result.Records, cfg.Interval)
	return outwriter.NewOutWriter().WriteIncome(buckets, cfg, time.Since(start))
}

// ExecuteRarity prints the value per tier per bucket and the notable drops.
func ExecuteRarity(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := LoadRecords(ctx, cfg, mgr, contract.NewLocalLogSource())
	if err != nil {
		return err
	}
	timeline := agg.RaritySeries(result.Records, cfg.Interval)
	return outwriter.NewOutWriter().WriteRarity(timeline, cfg, time.Since(start))
}

// ExecuteHeatmap prints record counts per weekday and hour.
func ExecuteHeatmap(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := LoadRecords(ctx, cfg, mgr, contract.NewLocalLogSource())
	if err != nil {
		return err
	}
	rows := agg.HeatmapSeries(agg.ActivityHeatmap(result.Records, cfg.Location))
	return outwriter.NewOutWriter().WriteHeatmap(rows, cfg, time.Since(start))
}

// ExecuteTreemap prints item values grouped by tier.
func ExecuteTreemap(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := LoadRecords(ctx, cfg, mgr, contract.NewLocalLogSource())
	if err != nil {
		return err
	}
	groups := agg.Treemap(agg.ItemLogsFromRollup(agg.RollupItems(result.Records)))
	return outwriter.NewOutWriter().WriteTreemap(groups, cfg, time.Since(start))
}

// ExecuteRuntime prints the session-based active time.
func ExecuteRuntime(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := LoadRecords(ctx, cfg, mgr, contract.NewLocalLogSource())
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRuntime(agg.Runtime(result.Records), cfg, time.Since(start))
}

// ExecuteExport writes the complete data set. Parquet output writes the hydrated
// records and a sibling file of item rollups; other formats get every view.
func ExecuteExport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := LoadRecords(ctx, cfg, mgr, contract.NewLocalLogSource())
	if err != nil {
		return err
	}

	if cfg.Output == schema.ParquetOut {
		return exportParquet(result.Records, cfg)
	}

	full := cfg.Clone()
	full.ResultLimit = 0 // keep every item
	dash := BuildDashboard(result.Records, full, result.Now)
	return outwriter.NewOutWriter().WriteSummary(dash, full, time.Since(start))
}

// exportParquet writes drops to cfg.OutputFile and item rollups next to it.
func exportParquet(records []schema.HydratedRecord, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	if err := parquet.WriteDropsParquet(parquet.ConvertDropRecords(records, cfg.User), cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to write drops parquet: %w", err)
	}

	itemsFile := ItemsParquetPath(cfg.OutputFile)
	rollups := agg.SortTopItems(agg.RollupItems(records))
	if err := parquet.WriteItemsParquet(parquet.ConvertItemRollups(rollups), itemsFile); err != nil {
		return fmt.Errorf("failed to write items parquet: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d drops to %s and %d items to %s\n", len(records), cfg.OutputFile, len(rollups), itemsFile)
	return nil
}

// ItemsParquetPath derives the item rollup file from the drops file.
// "drops.parquet" becomes "drops.items.parquet".
func ItemsParquetPath(dropsFile string) string {
	ext := filepath.Ext(dropsFile)
	return strings.TrimSuffix(dropsFile, ext) + ".items" + ext
}

// ExecuteUsers lists the users that have a log in the log directory.
func ExecuteUsers(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	source := contract.NewLocalLogSource()
	dir, err := ResolveLogDir(ctx, cfg, mgr.GetItemStore(), source)
	if err != nil {
		return err
	}
	users, err := source.ListUsers(ctx, dir)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteUsers(users, dir, cfg)
}

// ExecuteClear truncates the log of the configured user.
func ExecuteClear(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	return clearUserLog(ctx, cfg, mgr, contract.NewLocalLogSource())
}

// clearUserLog refuses to clear every log at once.
func clearUserLog(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, source contract.LogSource) error {
	if cfg.User == "" || cfg.User == contract.DefaultUser {
		return errors.New("--user is required to clear a log")
	}
	dir, err := ResolveLogDir(ctx, cfg, mgr.GetItemStore(), source)
	if err != nil {
		return err
	}
	if err := source.ClearUserLog(ctx, dir, cfg.User); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "🧹 Cleared log of %s in %s\n", cfg.User, dir)
	return nil
}

// ExecuteRefresh fetches remote prices into the item store when upstream data is newer.
func ExecuteRefresh(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	client := pricing.NewClient(cfg.PricesURL, cfg.ExchangeURL)
	count, refreshed, err := refreshIfStale(ctx, cfg, mgr, client)
	if err != nil {
		return err
	}
	if !refreshed {
		fmt.Println("Prices are up to date")
		return nil
	}
	fmt.Printf("Refreshed prices of %d items\n", count)
	return nil
}

// ExecuteSettings stores the log directory when one is given, then lists every setting.
func ExecuteSettings(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	store := mgr.GetItemStore()
	if store == nil {
		return contract.ErrStoreUnavailable
	}
	if cfg.LogDir != "" {
		if err := store.SetSetting(ctx, schema.LogDirSetting, cfg.LogDir); err != nil {
			return fmt.Errorf("failed to store log directory: %w", err)
		}
	}
	settings, err := store.ListSettings(ctx)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSettings(settings, cfg)
}
