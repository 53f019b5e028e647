package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/reviewgate/internal/git"
	"github.com/joescharf/reviewgate/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server exposing the review pipeline",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets agent tooling request code reviews through the same pipeline
the pre-commit gate uses. Configure in Claude Code with:

  {
    "mcpServers": {
      "reviewgate": { "command": "reviewgate", "args": ["mcp"] }
    }
  }

Available tools: review_file, review_staged`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newReviewClient()
		if err != nil {
			return err
		}
		srv, err := mcp.NewServer(git.NewClient(), client, gateConfig())
		if err != nil {
			return err
		}
		return srv.ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
