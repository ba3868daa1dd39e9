package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can read and
manage your events.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  proemail mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  proemail mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "proemail": {
        "command": "/path/to/proemail",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Dashboard: dashboard,
		Events:    eventService,
		Sessions:  sessionService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	// Stdout carries JSON-RPC; dashboard renders must not reach it.
	prev := presenter.SetTarget(nil)
	defer presenter.SetTarget(prev)

	ctx := commandContext(cmd)
	if sessionService != nil {
		if _, err := sessionService.Load(ctx); err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
