package cmd

import (
	"github.com/lootlens/lootlens/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the lootlens MCP server",
	Long:  `Launch an MCP server that allows AI agents to query drop logs via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Handlers suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
