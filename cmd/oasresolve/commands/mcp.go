package commands

import (
	"github.com/erraggy/oasresolve/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Run a Model Context Protocol server over stdin/stdout exposing the resolve
and validate tools.

The server is configured through OASRESOLVE_MCP_* environment variables, for
example OASRESOLVE_MCP_CACHE_TTL or OASRESOLVE_MCP_RECURSION_LIMIT.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("mcp takes no arguments")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}
