package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/mailtask/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Run a Model Context Protocol server over stdio, exposing the task
store and the ingestion pipeline as tools (list_tasks, complete_task,
ingest_email, get_stats) for AI assistants.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil || Pipeline == nil {
			return fmt.Errorf("application not initialized")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := mcp.NewServer(Store, Pipeline, appVersion)
		if err := srv.Run(ctx); err != nil && err != context.Canceled {
			return fmt.Errorf("running MCP server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
