// Package main provides the entry point for the taskmd CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/taskmd/internal/cli"
	"github.com/mrz1836/taskmd/internal/lockfile"
)

// Build metadata injected via ldflags.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := context.Background()
	code := cli.Execute(ctx, cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	// Last-resort guard: drop any lock still held if a command
	// returned without releasing.
	lockfile.ReleaseAll()

	os.Exit(code)
}
