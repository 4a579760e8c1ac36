package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gobqlint/pkg/config"
)

const checkLongDescription = `Check BigQuery SQL files for style problems.

By default, checks every *.sql file under the current directory. Directories
are walked in sorted order; .git, .hg, .svn, .bzr and CVS are skipped.

Examples:
  gobqlint check                         # Check the current directory
  gobqlint check queries/ report.sql     # Check a directory and a file
  gobqlint check --select E2,W2          # Only whitespace codes
  gobqlint check --ignore W000 -r        # Every occurrence, no style codes
  gobqlint check --show-source --show-doc
  gobqlint check --statistics --count
  gobqlint check --format sarif > bqlint.sarif`

func newCheckCommand(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check SQL files",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, info)
		},
	}

	addCheckFlags(cmd)

	return cmd
}

// addCheckFlags declares the check flags. Their values reach the
// configuration through the loader, and only when changed.
func addCheckFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.CountP("verbose", "v", "print status messages, repeat for logical lines (-vv) and rule names (-vvvv)")
	flags.CountP("quiet", "q", "report only file names (-q) or nothing (-qq)")
	flags.BoolP("repeat", "r", false, "show all occurrences of the same code")
	flags.StringSlice("exclude", config.DefaultExclude(), "exclude files or directories which match these patterns")
	flags.StringSlice("filename", config.DefaultFilename(), "when walking directories, check only files matching these patterns")
	flags.StringSlice("select", nil, "report only codes with these prefixes (e.g. E,W6)")
	flags.StringSlice("ignore", nil, "skip codes with these prefixes (e.g. E4,W)")
	flags.Bool("show-source", false, "show the source line and a caret for each diagnostic")
	flags.Bool("show-doc", false, "show the rule description for each diagnostic")
	flags.Bool("statistics", false, "count occurrences of each code")
	flags.Bool("count", false, "print the total number of diagnostics to standard error")
	flags.Bool("benchmark", false, "measure processing speed")
	flags.String("format", string(config.FormatText), "output format: text, json, sarif")
	flags.IntP("jobs", "j", 0, "number of parallel workers (0 = one per CPU)")
	flags.String("encoding", "utf-8", "source encoding: utf-8 or latin-1")
	flags.Bool("detect", false, "check extensionless files that look like SQL")
	flags.StringSlice("plugin", nil, "load Starlark rules from these files or directories")
	flags.Int("max-line-length", 0, "maximum allowed line length (default 79)")
}

func runCheck(cmd *cobra.Command, args []string, info BuildInfo) error {
	sess, err := loadSession(cmd, cmd.Flags(), info.Version)
	if err != nil {
		return err
	}

	_, err = sess.check(cmd.Context(), args, checkOutput{
		Out: cmd.OutOrStdout(),
		Err: cmd.ErrOrStderr(),
	})
	return err
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
