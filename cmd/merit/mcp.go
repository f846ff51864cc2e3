package main

import (
	"github.com/spf13/cobra"

	"github.com/rohankatakam/merit/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve contributor statistics to MCP clients over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing two tools:

  list_contributors     ranked contributor summaries
  contributor_commits   commit lines for one exact (name, email) identity

Each call walks the repository again. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}
		return mcp.NewServer(repo, cfg.Repository.Ref, Version).Run(cmd.Context())
	},
}
