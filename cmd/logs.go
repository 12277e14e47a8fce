package cmd

import (
	"github.com/lootlens/lootlens/core"
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/spf13/cobra"
)

// usersCmd lists the users with a drop log.
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the users that have a drop log.",
	Long: `List every <user>.log file in the log directory.

Examples:
  lootlens users --dir ~/.runelite/loot-logs
  lootlens users --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteUsers(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list users", err)
		}
	},
}

// clearCmd truncates one user's drop log.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the drop log of one user.",
	Long: `Truncate <user>.log in the log directory. The file itself is kept so
the logging plugin can keep appending to it.

Requires: --user other than 'all'

Examples:
  lootlens clear --user alice`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClear(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot clear log", err)
		}
	},
}

// settingsCmd stores and lists persisted settings.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Store the log directory and list persisted settings.",
	Long: `List the settings kept in the item store.

Passing --dir stores it as the log directory used when --dir is omitted.

Examples:
  # Remember the log directory
  lootlens settings --dir ~/.runelite/loot-logs

  # Show every setting
  lootlens settings`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSettings(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot update settings", err)
		}
	},
}
