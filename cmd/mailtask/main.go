package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	app "github.com/valter-silva-au/mailtask/internal"
	"github.com/valter-silva-au/mailtask/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A .env file in the working directory supplies OPENAI_API_KEY and
	// other overrides; its absence is fine.
	_ = godotenv.Load()

	cli.SetVersionInfo(version, commit, date)

	if _, err := app.NewApp("."); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing mailtask: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
