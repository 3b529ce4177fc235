package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gorewood/gitinfo/internal/git"
	gitinfomcp "github.com/gorewood/gitinfo/internal/mcp"
	"github.com/gorewood/gitinfo/internal/output"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run gitinfo as a Model Context Protocol (MCP) server over stdio.

This exposes repository metadata and source generation as MCP tools that
any MCP-capable agent environment can use.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "gitinfo": {
        "command": "gitinfo",
        "args": ["serve"]
      }
    }
  }

Available tools: metadata, generate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			lang, err := cfg.OutputLanguage()
			if err != nil {
				userErr := output.NewUserErrorWithCause(err.Error(), err)
				newPrinter(cmd).Error(userErr)
				return userErr
			}
			repo := git.NewInspector(git.ExecRunner{Dir: cfg.Dir}, cfg.Git)
			server := gitinfomcp.NewServer(buildVersion(), repo, lang)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
