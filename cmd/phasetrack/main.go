package main

import (
	"fmt"
	"os"

	app "github.com/phasetrack/phasetrack/internal"
	"github.com/phasetrack/phasetrack/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	root := app.ResolveProjectRoot()

	if _, err := app.NewApp(root); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing phasetrack: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
