// Package outwriter renders lootlens reports as text tables, CSV, JSON and XLSX.
package outwriter

import (
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSummary prints the overview and top items. XLSX output gets every dashboard view.
func (ow *OutWriter) WriteSummary(dash schema.Dashboard, cfg *contract.Config, duration time.Duration) error {
	rep := report{Payload: dash}
	if cfg.Output == schema.XLSXOut {
		rep.Tables = dashboardTables(dash)
	} else {
		rep.Tables = []table{
			overviewTable(dash.Overview, dash.Correlation, dashboardTitle(dash.User, dash.Range)),
			itemsTable(limitItems(dash.Items, cfg.ResultLimit), len(dash.Items)),
		}
	}
	return render(rep, cfg, duration)
}

// WriteItems prints ranked item rollups up to the result limit.
func (ow *OutWriter) WriteItems(items []schema.ItemRollup, cfg *contract.Config, duration time.Duration) error {
	shown := limitItems(items, cfg.ResultLimit)
	return render(report{Payload: shown, Tables: []table{itemsTable(shown, len(items))}}, cfg, duration)
}

// WriteIncome prints income per time bucket.
func (ow *OutWriter) WriteIncome(buckets []schema.IncomeBucket, cfg *contract.Config, duration time.Duration) error {
	return render(report{Payload: buckets, Tables: []table{incomeTable(buckets)}}, cfg, duration)
}

// WriteRarity prints value per tier per bucket and the notable drops.
func (ow *OutWriter) WriteRarity(timeline schema.RarityTimeline, cfg *contract.Config, duration time.Duration) error {
	return render(report{Payload: timeline, Tables: rarityTables(timeline)}, cfg, duration)
}

// WriteHeatmap prints record counts per weekday and hour.
func (ow *OutWriter) WriteHeatmap(rows []schema.HeatmapRow, cfg *contract.Config, duration time.Duration) error {
	return render(report{Payload: rows, Tables: []table{heatmapTable(rows)}}, cfg, duration)
}

// WriteTreemap prints value per item grouped by tier.
func (ow *OutWriter) WriteTreemap(groups []schema.TreemapGroup, cfg *contract.Config, duration time.Duration) error {
	return render(report{Payload: groups, Tables: []table{treemapTable(groups)}}, cfg, duration)
}

// WriteRuntime prints the session-based active time.
func (ow *OutWriter) WriteRuntime(summary schema.RuntimeSummary, cfg *contract.Config, duration time.Duration) error {
	return render(report{Payload: summary, Tables: []table{runtimeTable(summary)}}, cfg, duration)
}

// WriteUsers prints the users found in the log directory.
func (ow *OutWriter) WriteUsers(users []string, dir string, cfg *contract.Config) error {
	return render(report{Payload: users, Tables: []table{usersTable(users, dir)}}, cfg, 0)
}

// WriteSettings prints the stored settings.
func (ow *OutWriter) WriteSettings(settings []schema.Setting, cfg *contract.Config) error {
	return render(report{Payload: settings, Tables: []table{settingsTable(settings)}}, cfg, 0)
}

// limitItems returns at most limit items. A non-positive limit keeps all.
func limitItems(items []schema.ItemRollup, limit int) []schema.ItemRollup {
	if limit <= 0 || len(items) <= limit {
		return items
	}
	return items[:limit]
}
