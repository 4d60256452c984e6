package main

import (
	"fmt"
	"os"

	app "github.com/cosmic-jellyfish/boardly/internal"
	"github.com/cosmic-jellyfish/boardly/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	basePath := app.ResolveBasePath()

	a, err := app.NewApp(basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing boardly: %v\n", err)
		os.Exit(1)
	}

	if err := a.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing boardly: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
