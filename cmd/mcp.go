package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kayz/adcraft/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the generate_ad tool over MCP stdio",
	Long: `Run adcraft as a Model Context Protocol server on stdin/stdout.

Logs go to stderr so they never corrupt the protocol stream.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp("stderr")
	if err != nil {
		return err
	}
	defer a.close()

	mcp.ServerVersion = version
	a.log.Info("[MCP] Serving %s %s on stdio", mcp.ServerName, mcp.ServerVersion)
	return mcp.ServeStdio(mcp.NewServer(a.orchestrator, a.log.Named("mcp")))
}
