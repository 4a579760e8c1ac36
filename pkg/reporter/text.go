package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gobqlint/internal/ui/pretty"
	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/runner"
)

// TextReporter writes one path:line:column:class message line per
// diagnostic as it arrives.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Filename implements lint.Sink.
func (r *TextReporter) Filename(path string) error {
	if _, err := fmt.Fprintln(r.bw, r.styles.Render(r.styles.FilePath, path)); err != nil {
		return fmt.Errorf("write filename: %w", err)
	}
	return nil
}

// Diagnostic implements lint.Sink.
func (r *TextReporter) Diagnostic(d lint.Diagnostic) error {
	if _, err := fmt.Fprintln(r.bw, r.styles.FormatDiagnostic(d)); err != nil {
		return fmt.Errorf("write diagnostic: %w", err)
	}

	if r.opts.ShowSource {
		if _, err := r.bw.WriteString(r.styles.FormatSource(d.Source, d.Offset)); err != nil {
			return fmt.Errorf("write source: %w", err)
		}
	}

	if r.opts.ShowDoc {
		if _, err := r.bw.WriteString(r.styles.FormatDoc(r.opts.describe(d.Rule))); err != nil {
			return fmt.Errorf("write description: %w", err)
		}
	}

	return nil
}

// Finish implements Reporter by flushing buffered lines.
func (r *TextReporter) Finish(_ context.Context, _ *runner.Result) error {
	if err := r.bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
