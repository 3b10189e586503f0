// Package cli provides the Cobra command structure for qfix.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/qfix/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
	root       string
}

// cliConfig returns the configuration set explicitly on the command line.
func (g *globalFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}
	if g.debug {
		cfg.LogLevel = "debug"
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = config.ColorMode(g.color)
	}
	if cmd.Flags().Changed("root") {
		cfg.Root = g.root
	}
	return cfg
}

// NewRootCommand creates the root qfix command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "qfix",
		Short: "Turn analyzer quick fixes into tracked, applicable edits",
		Long: `qfix reads the quick fixes a static analyzer attached to its findings and
turns them into edits tracked by live ranges in the target documents.

Ranges follow the text they cover as the document changes, so a fix stays
applicable until the text it edits is deleted, the file changes on disk, or
the fix is applied. Fixes that span several files, or whose file cannot be
opened, are discarded.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", string(config.ColorAuto),
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&flags.root, "root", ".",
		"directory relative file paths in the report resolve against")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErr(err)
	})

	rootCmd.AddCommand(newCheckCommand(flags))
	rootCmd.AddCommand(newApplyCommand(flags))
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(config.ColorMode(flags.color), os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
