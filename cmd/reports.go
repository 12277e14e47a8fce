package cmd

import (
	"github.com/lootlens/lootlens/core"
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd shows the headline numbers and the top items.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show total loot value, value per hour and the top items.",
	Long: `Read the drop logs, price every drop and summarize them.

Shows:
- Entry count, unique items and total quantity
- Total value and the value of coin drops
- Value per hour, overall and over the last hour
- Active runtime and session count
- The top items by rarity, then total value

Examples:
  # Summarize every user's log
  lootlens summary --dir ~/.runelite/loot-logs

  # Summarize one user's last six hours
  lootlens summary --user alice --range 6h

  # Write every view to a spreadsheet
  lootlens summary --output xlsx --output-file loot.xlsx`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run summary", err)
		}
	},
}

// itemsCmd ranks the dropped items.
var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Rank dropped items by rarity, then total value.",
	Long: `Group drops by item and rank them.

Each row shows the quantity, unit price, total value and when the item was
last seen. Unknown items keep their id and rank last.

Examples:
  # Top 10 items of all time
  lootlens items --limit 10

  # Export one user's items to CSV
  lootlens items --user alice --output csv --output-file items.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteItems(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot rank items", err)
		}
	},
}

// incomeCmd buckets drop value over time.
var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Show drop value per time bucket.",
	Long: `Bucket drops by --interval seconds and sum their value.

Each bucket lists its value, the range of single-drop values, the record
count, the items seen and the rarest drop.

Examples:
  # Five minute buckets over the last hour
  lootlens income --range 1h --interval 300`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteIncome(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute income", err)
		}
	},
}

// rarityCmd splits bucket value by rarity tier.
var rarityCmd = &cobra.Command{
	Use:   "rarity",
	Short: "Show value per rarity tier over time and the notable drops.",
	Long: `Split every time bucket by price tier and list the notable drops.

Examples:
  lootlens rarity --range 1d --interval 3600`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRarity(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute rarity series", err)
		}
	},
}

// heatmapCmd counts drops per weekday and hour.
var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Count drops per weekday and hour of day.",
	Long: `Show when drops happen, as a weekday by hour grid.

Hours follow --timezone.

Examples:
  lootlens heatmap --timezone Europe/London`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHeatmap(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute heatmap", err)
		}
	},
}

// treemapCmd groups item value by rarity tier.
var treemapCmd = &cobra.Command{
	Use:     "treemap",
	Short:   "Group item value by rarity tier.",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTreemap(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute treemap", err)
		}
	},
}

// runtimeCmd estimates active play time.
var runtimeCmd = &cobra.Command{
	Use:   "runtime",
	Short: "Estimate active play time from gaps between drops.",
	Long: `Split drops into sessions wherever two drops are more than 15 minutes
apart and sum the session lengths.`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRuntime(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute runtime", err)
		}
	},
}

// exportCmd writes the full data set.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every drop and view for BI tools and spreadsheets.",
	Long: `Export the complete data set without a result limit.

Parquet output writes two files:
- <file>.parquet with one row per hydrated drop
- <file>.items.parquet with one row per item rollup

Other formats write every dashboard view.

Requires: --output-file for parquet and xlsx

Examples:
  # Export drops for DuckDB
  lootlens export --output parquet --output-file drops.parquet
  duckdb -c "SELECT name, sum(value) FROM read_parquet('drops.parquet') GROUP BY 1"

  # Export every view as JSON
  lootlens export --output json --output-file loot.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot export data", err)
		}
	},
}
