// Package cli implements the mailtask command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valter-silva-au/mailtask/internal/core"
	"github.com/valter-silva-au/mailtask/internal/observability"
	"github.com/valter-silva-au/mailtask/internal/storage"
	"github.com/valter-silva-au/mailtask/pkg/models"
)

// Wired by internal.NewApp before Execute runs.
var (
	Config   *models.Config
	Logger   *zap.Logger
	Store    storage.TaskStore
	Pipeline core.IngestPipeline
	EventLog observability.EventLog
	BasePath string
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "mailtask",
	Short: "mailtask - email-to-task automation system",
	Long: `mailtask ingests email content, extracts actionable tasks with a
language model (or a deterministic keyword heuristic when no model is
configured), deduplicates them, and persists them to a flat JSON store.

It serves a REST API and dashboard, polls a Gmail inbox, and exposes
the same operations as MCP tools for AI assistants.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mailtask %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
