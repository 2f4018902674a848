package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	ptmcp "github.com/phasetrack/phasetrack/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the phasetrack MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the phasetrack MCP server on stdio",
	Long: `Start the phasetrack MCP server on stdio transport.

The server exposes phasetrack functionality as MCP tools that AI coding
assistants can call: get_task, list_tasks, start_task, complete_task,
block_task, get_progress, preview_context.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Repo == nil {
			return fmt.Errorf("task repository not initialized")
		}

		srv := ptmcp.NewServer(ProjectRoot, Config, Repo, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
