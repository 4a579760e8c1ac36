package lint

import (
	"fmt"
	"slices"
)

// Sink receives the diagnostics that survive filtering, in print order.
type Sink interface {
	// Filename is called once per file with errors when quiet is 1.
	Filename(path string) error

	// Diagnostic is called for every printed diagnostic.
	Diagnostic(d Diagnostic) error
}

// DiscardSink drops everything it receives.
type DiscardSink struct{}

// Filename implements Sink.
func (DiscardSink) Filename(string) error { return nil }

// Diagnostic implements Sink.
func (DiscardSink) Diagnostic(Diagnostic) error { return nil }

// ReporterOptions control what the Reporter prints.
type ReporterOptions struct {
	// Quiet suppresses diagnostics. At 1 the file name is still printed
	// once per file with errors.
	Quiet int

	// Repeat prints every occurrence of a code instead of only the first
	// one in the run.
	Repeat bool
}

// Reporter applies the select/ignore policy and the quiet, repeat and
// expected-code rules to raw diagnostics, updating RunState counters and
// forwarding printable diagnostics to a Sink.
type Reporter struct {
	state *RunState
	sink  Sink
	opts  ReporterOptions

	path       string
	expected   []string
	fileErrors int
	named      bool
}

// NewReporter creates a Reporter writing into state. A nil sink discards.
func NewReporter(state *RunState, sink Sink, opts ReporterOptions) *Reporter {
	if sink == nil {
		sink = DiscardSink{}
	}
	return &Reporter{state: state, sink: sink, opts: opts}
}

// State returns the run state the reporter updates.
func (r *Reporter) State() *RunState {
	return r.state
}

// StartFile resets per-file bookkeeping.
func (r *Reporter) StartFile(path string, expected []string) {
	r.path = path
	r.expected = expected
	r.fileErrors = 0
	r.named = false
}

// FileErrors returns the number of diagnostics printed for the current
// file.
func (r *Reporter) FileErrors() int {
	return r.fileErrors
}

// Report handles one raw diagnostic.
func (r *Reporter) Report(d Diagnostic) error {
	code := d.Code()
	if r.state.Filter.Ignored(code) {
		return nil
	}

	if r.opts.Quiet == 1 && !r.named {
		r.named = true
		if err := r.sink.Filename(r.path); err != nil {
			return fmt.Errorf("report filename: %w", err)
		}
	}

	first := r.state.record(code, d.Text())
	if r.opts.Quiet > 0 || slices.Contains(r.expected, code) {
		return nil
	}

	if !first && !r.opts.Repeat {
		return nil
	}

	r.fileErrors++
	if err := r.sink.Diagnostic(d); err != nil {
		return fmt.Errorf("report diagnostic: %w", err)
	}
	return nil
}

// ReportFile replays a checked file's diagnostics and line counts into the
// run state. It returns the number of diagnostics printed.
func (r *Reporter) ReportFile(fr *FileResult) (int, error) {
	r.StartFile(fr.Path, fr.Expected)
	r.state.AddTotal(KeyPhysicalLines, fr.PhysicalLines)
	r.state.AddTotal(KeyLogicalLines, fr.LogicalLines)

	for _, d := range fr.Diagnostics {
		if err := r.Report(d); err != nil {
			return r.fileErrors, err
		}
	}

	fr.ErrorCount = r.fileErrors
	return r.fileErrors, nil
}
