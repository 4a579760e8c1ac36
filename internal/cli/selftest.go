package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/reporter"
)

type selfTestFlags struct {
	testsuite string
}

func newSelfTestCommand() *cobra.Command {
	flags := &selfTestFlags{}

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run the rules against their own examples",
		Long: `Check every rule's "Okay:" and code examples, including plugin rules.

With --testsuite DIR, each *.sql file in DIR is split into cases by lines
starting with "#:". The rest of such a line lists the codes the case must
produce, or "Okay". Missing codes and extra occurrences are failures;
unexpected codes are printed as ordinary diagnostics and also fail.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := loadSession(cmd, cmd.Flags(), "")
			if err != nil {
				return err
			}
			if flags.testsuite != "" {
				return runTestSuite(cmd.Context(), sess, flags.testsuite, cmd.OutOrStdout())
			}
			return runSelfTest(cmd.Context(), sess, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.testsuite, "testsuite", "", "run the test suite files in this directory")
	cmd.Flags().StringSlice("plugin", nil, "load Starlark rules from these files or directories")
	cmd.Flags().String("encoding", "utf-8", "source encoding of test suite files")

	return cmd
}

func runSelfTest(ctx context.Context, sess *session, out io.Writer) error {
	result, err := lint.RunSelfTest(ctx, sess.rules)
	if err != nil {
		return err
	}

	for _, failure := range result.Failures {
		fmt.Fprintln(out, failure.String())
	}
	fmt.Fprintf(out, "%d passed and %d failed.\n", result.Passed, result.Failed)

	if result.Failed > 0 {
		fmt.Fprintln(out, "Test failed.")
		return ErrSelfTestFailed
	}
	fmt.Fprintln(out, "Test passed.")
	return nil
}

// countingSink counts the diagnostics it forwards.
type countingSink struct {
	lint.Sink
	diagnostics int
}

func (s *countingSink) Diagnostic(d lint.Diagnostic) error {
	s.diagnostics++
	return s.Sink.Diagnostic(d)
}

func runTestSuite(ctx context.Context, sess *session, dir string, out io.Writer) error {
	files, err := testSuiteFiles(dir)
	if err != nil {
		return err
	}

	text := reporter.NewTextReporter(reporter.Options{
		Writer: out,
		Color:  sess.cfg.Color,
		Rules:  sess.rules,
	})
	sink := &countingSink{Sink: text}

	// Nothing is ignored, and every occurrence is printed.
	state := lint.NewRunState(sess.rules, lint.NewFilter(nil, []string{}))
	lintReporter := lint.NewReporter(state, sink, lint.ReporterOptions{Repeat: true})

	var failures []lint.TestSuiteFailure
	for _, path := range files {
		found, err := lint.RunTestSuiteFile(ctx, path, sess.rules, lintReporter,
			lint.CheckerOptions{Encoding: sess.cfg.Encoding})
		failures = append(failures, found...)
		if err != nil {
			_ = text.Finish(ctx, nil)
			return fmt.Errorf("test suite %s: %w", path, err)
		}
	}
	if err := text.Finish(ctx, nil); err != nil {
		return err
	}

	for _, failure := range failures {
		fmt.Fprintln(out, failure.String())
	}
	fmt.Fprintf(out, "%d files, %d failures, %d unexpected diagnostics.\n",
		len(files), len(failures), sink.diagnostics)

	if len(failures) > 0 || sink.diagnostics > 0 {
		fmt.Fprintln(out, "Test failed.")
		return ErrSelfTestFailed
	}
	fmt.Fprintln(out, "Test passed.")
	return nil
}

// testSuiteFiles lists the *.sql files directly inside dir, sorted.
func testSuiteFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &UsageError{Err: fmt.Errorf("read test suite: %w", err)}
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	slices.Sort(files)
	return files, nil
}
