package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/mailtask/internal/integration"
)

var pollIntervalFlag time.Duration

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll a Gmail inbox for unread mail and forward it for ingestion",
	Long: `Poll a Gmail inbox for unread messages, forward each one to the
ingest endpoint of a running mailtask server, and mark it as read.

Requires OAuth credentials (gmail.credentials_file) and a saved token
(gmail.token_file). Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("application not initialized")
		}

		gmailCfg := Config.Gmail
		if cmd.Flags().Changed("interval") {
			gmailCfg.PollInterval = pollIntervalFlag
		}

		poller := integration.NewGmailPoller(gmailCfg, Logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := poller.Run(ctx); err != nil && err != context.Canceled {
			return fmt.Errorf("polling gmail: %w", err)
		}
		return nil
	},
}

func init() {
	pollCmd.Flags().DurationVar(&pollIntervalFlag, "interval", 60*time.Second, "poll interval")
	rootCmd.AddCommand(pollCmd)
}
