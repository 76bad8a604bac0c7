package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/mailtask/internal/server"
)

var serveHostFlag string
var servePortFlag int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server and web dashboard",
	Long: `Start the HTTP server exposing the task API and the web dashboard.

Endpoints:
  GET  /tasks                  list all tasks
  POST /tasks/complete/{id}    mark a task as done
  POST /ingest-email           extract and store tasks from an email
  GET  /stats                  task aggregates and recent events
  GET  /health                 service health
  GET  /                       web dashboard

The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil || Pipeline == nil {
			return fmt.Errorf("application not initialized")
		}

		cfg := *Config
		if cmd.Flags().Changed("host") {
			cfg.Host = serveHostFlag
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePortFlag
		}

		handler := server.NewHandler(Store, Pipeline, EventLog, Logger, appVersion)
		srv := server.New(&cfg, handler, Logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := srv.Run(ctx); err != nil && err != context.Canceled {
			return fmt.Errorf("running server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHostFlag, "host", "0.0.0.0", "interface to bind")
	serveCmd.Flags().IntVar(&servePortFlag, "port", 8000, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}
