package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/mailtask/internal/storage"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the store with sample tasks",
	Long: `Add a set of sample tasks to the store for demos and local
development. Tasks already present (by normalized description) are
skipped, so seeding is idempotent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("application not initialized")
		}

		added, skipped := 0, 0
		for _, t := range storage.SampleTasks(time.Now().UTC()) {
			ok, err := Store.Add(t)
			if err != nil {
				return fmt.Errorf("seeding tasks: %w", err)
			}
			if ok {
				added++
			} else {
				skipped++
			}
		}

		fmt.Printf("Seeded %d sample task(s), %d already present\n", added, skipped)
		fmt.Printf("Store: %s\n", Store.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
