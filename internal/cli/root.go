// Package cli provides the Cobra command structure for gobqlint.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gobqlint/internal/logging"
	"github.com/yaklabco/gobqlint/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gobqlint command with all subcommands.
// Run without a subcommand it behaves like check.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gobqlint [paths...]",
		Short: "A style checker for BigQuery SQL",
		Long: `gobqlint checks BigQuery Standard SQL files against a pep8-style rule set.

It reports whitespace, indentation, line length, keyword case and alias
problems as path:line:column:class message lines. Rules are selected and
ignored by code prefix, and extra rules can be written in Starlark.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "info"
			if debug {
				level = "debug"
				logging.SetLevel(level)
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, info)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", string(config.ColorAuto),
		"colorize output: auto, always, never")

	addCheckFlags(rootCmd)

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	// Add subcommands.
	rootCmd.AddCommand(newCheckCommand(info))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newSelfTestCommand())
	rootCmd.AddCommand(newWatchCommand(info))
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd)

	return rootCmd
}
