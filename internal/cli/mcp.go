package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	boardlymcp "github.com/cosmic-jellyfish/boardly/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the boardly MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the boardly MCP server on stdio",
	Long: `Start the boardly MCP server on stdio transport.

The server exposes boardly functionality as MCP tools that AI coding
assistants can call: get_task, list_tasks, create_task, update_task_status,
delete_task, recent_activity.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}

		srv := boardlymcp.NewServer(Tasks, Activities, appVersion)

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
