// Package reporter renders diagnostics as text, JSON or SARIF, and writes
// the statistics and benchmark summaries that follow a run.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/gobqlint/pkg/config"
	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/runner"
)

// Compile-time interface checks.
var (
	_ Reporter = (*TextReporter)(nil)
	_ Reporter = (*JSONReporter)(nil)
	_ Reporter = (*SARIFReporter)(nil)
)

// Reporter receives printable diagnostics while a run replays and writes
// any buffered output when it ends.
type Reporter interface {
	lint.Sink

	// Finish writes the remaining output. It must be called once per run,
	// including runs that failed; result may be nil.
	Finish(ctx context.Context, result *runner.Result) error
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = config.FormatText
	}

	switch format {
	case config.FormatText:
		return NewTextReporter(opts), nil
	case config.FormatJSON:
		return NewJSONReporter(opts), nil
	case config.FormatSARIF:
		return NewSARIFReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
