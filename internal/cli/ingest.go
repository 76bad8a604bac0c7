package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/mailtask/pkg/models"
)

var (
	ingestSubjectFlag string
	ingestBodyFlag    string
	ingestSenderFlag  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Extract tasks from an email payload and store them",
	Long: `Extract actionable tasks from an email and store the non-duplicates.

The email can be given three ways:
  mailtask ingest email.json                   read a JSON payload from a file
  cat email.json | mailtask ingest             read a JSON payload from stdin
  mailtask ingest --subject S --body B --sender F

The JSON payload has the shape {"subject": ..., "body": ..., "sender": ...}.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Pipeline == nil {
			return fmt.Errorf("application not initialized")
		}

		email, err := resolveEmail(cmd, args)
		if err != nil {
			return err
		}
		if err := email.Validate(); err != nil {
			return err
		}

		result, err := Pipeline.Ingest(context.Background(), email)
		if err != nil {
			return fmt.Errorf("ingesting email: %w", err)
		}

		fmt.Printf("Extracted %d task(s), added %d, skipped %d duplicate(s)\n",
			result.Extracted, len(result.Added), len(result.Duplicates))
		for _, t := range result.Added {
			due := ""
			if t.DueDate != "" {
				due = " due " + t.DueDate
			}
			fmt.Printf("  + [%s/%s]%s %s\n", t.Category, t.Priority, due, t.Description)
		}
		for _, d := range result.Duplicates {
			fmt.Printf("  = duplicate: %s\n", d)
		}
		return nil
	},
}

// resolveEmail builds the email from flags, a file argument, or stdin,
// in that order of precedence.
func resolveEmail(cmd *cobra.Command, args []string) (models.EmailMessage, error) {
	var email models.EmailMessage

	if cmd.Flags().Changed("subject") || cmd.Flags().Changed("body") || cmd.Flags().Changed("sender") {
		email.Subject = ingestSubjectFlag
		email.Body = ingestBodyFlag
		email.Sender = ingestSenderFlag
		return email, nil
	}

	var raw []byte
	var err error
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			return email, fmt.Errorf("reading email payload: %w", err)
		}
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return email, fmt.Errorf("reading email payload from stdin: %w", err)
		}
	}

	if err := json.Unmarshal(raw, &email); err != nil {
		return email, fmt.Errorf("parsing email payload: %w", err)
	}
	return email, nil
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSubjectFlag, "subject", "", "email subject line")
	ingestCmd.Flags().StringVar(&ingestBodyFlag, "body", "", "email body text")
	ingestCmd.Flags().StringVar(&ingestSenderFlag, "sender", "", "email sender")
	rootCmd.AddCommand(ingestCmd)
}
