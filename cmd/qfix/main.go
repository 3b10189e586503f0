// Package main is the entry point for the qfix CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/qfix/internal/cli"
	"github.com/yaklabco/qfix/internal/logging"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// ErrFixesSkipped only selects the exit code; the summary already said so.
		if !errors.Is(err, cli.ErrFixesSkipped) {
			logging.New("error").Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCode(err)
	}

	return cli.ExitSuccess
}
