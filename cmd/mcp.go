package cmd

import (
	"github.com/huangsam/docname/internal/mcp"
	"github.com/huangsam/docname/internal/raster"
	"github.com/huangsam/docname/internal/vision"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Docname MCP server",
	Long:  `Launch an MCP server that allows AI agents to plan document renames and inspect the cache via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep stdout clean for the protocol; all setup output goes to stderr.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		model := vision.NewClient(cfg)
		converter := raster.NewConverter()
		return mcp.StartMCPServer(rootCtx, cfg, model, converter, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
