package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/mailtask/internal/core"
)

// maxDescriptionLen caps task descriptions during cleanup; longer ones
// are truncated with an ellipsis.
const maxDescriptionLen = 200

var cleanDryRunFlag bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize whitespace and trim oversized task descriptions",
	Long: `Rewrite stored tasks with cleaned text: collapse runs of blank
lines and spaces in descriptions and subjects, and truncate
descriptions longer than 200 characters.

Use --dry-run to preview the changes without writing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("application not initialized")
		}

		tasks, err := Store.Load()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		changed := 0
		for i, t := range tasks {
			desc := core.TruncateDescription(core.CleanText(t.Description), maxDescriptionLen)
			subject := core.CleanText(t.SourceEmail.Subject)
			if desc == t.Description && subject == t.SourceEmail.Subject {
				continue
			}
			changed++

			if cleanDryRunFlag {
				if desc != t.Description {
					fmt.Printf("would clean %s description: %q\n", t.ID, desc)
				}
				if subject != t.SourceEmail.Subject {
					fmt.Printf("would clean %s subject: %q\n", t.ID, subject)
				}
				continue
			}
			tasks[i].Description = desc
			tasks[i].SourceEmail.Subject = subject
		}

		if changed == 0 {
			fmt.Println("All tasks are already clean.")
			return nil
		}
		if cleanDryRunFlag {
			fmt.Printf("%d task(s) would be cleaned\n", changed)
			return nil
		}

		if err := Store.SaveAll(tasks); err != nil {
			return fmt.Errorf("saving cleaned tasks: %w", err)
		}
		fmt.Printf("Cleaned %d task(s)\n", changed)
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRunFlag, "dry-run", false, "preview changes without writing")
	rootCmd.AddCommand(cleanCmd)
}
