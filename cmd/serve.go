package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd runs the dashboard API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API and push log changes to live clients.",
	Long: `Start an HTTP server for browser dashboards.

While running it:
- Serves every view as JSON under /api
- Watches the log directory and pushes change events over /api/events (SSE) and /api/ws
- Refreshes prices every --refresh-interval

Stops gracefully on SIGINT or SIGTERM.

Examples:
  lootlens serve --dir ~/.runelite/loot-logs --listen :3000
  lootlens serve --cache-backend redis --redis-addr localhost:6379`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := server.Run(ctx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run server", err)
		}
	},
}
