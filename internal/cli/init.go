package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/mailtask/internal/core"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a .mailtask.yaml file with default settings to the current
directory. Fails if the file already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := core.NewConfigurationManager(BasePath).WriteDefault()
		if err != nil {
			return fmt.Errorf("writing default configuration: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
		fmt.Println("Set OPENAI_API_KEY (env or .env) to enable model-based extraction.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
