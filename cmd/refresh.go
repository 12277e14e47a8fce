package cmd

import (
	"github.com/lootlens/lootlens/core"
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/spf13/cobra"
)

// refreshCmd pulls current prices into the item store.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch current item prices into the item store.",
	Long: `Join the item catalog with remote prices and store the result.

The refresh only runs when the exchange reports data newer than the last
refresh, or when no refresh ever completed. Cached item lookups are dropped
afterwards.

Examples:
  lootlens refresh
  lootlens refresh --catalog ./items.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRefresh(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot refresh prices", err)
		}
	},
}
