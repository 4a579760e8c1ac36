package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/runner"
)

// toolName is the driver name written into machine-readable output.
const toolName = "gobqlint"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	RunID    string           `json:"runId"`
	Tool     string           `json:"tool"`
	Version  string           `json:"version"`
	Files    []JSONFileResult `json:"files"`
	Counters map[string]int   `json:"counters"`
	Totals   map[string]int   `json:"totals"`
	Total    int              `json:"total"`
}

// JSONFileResult represents a single file's printed diagnostics.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Error       string           `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Class   string `json:"class"`
	Message string `json:"message"`
	Rule    string `json:"rule"`
	Source  string `json:"source,omitempty"`
}

// fileCollector groups streamed diagnostics by path, in arrival order.
type fileCollector struct {
	files []JSONFileResult
	index map[string]int
}

func newFileCollector() *fileCollector {
	return &fileCollector{index: make(map[string]int)}
}

func (c *fileCollector) file(path string) *JSONFileResult {
	i, ok := c.index[path]
	if !ok {
		i = len(c.files)
		c.index[path] = i
		c.files = append(c.files, JSONFileResult{Path: path, Diagnostics: make([]JSONDiagnostic, 0)})
	}
	return &c.files[i]
}

// addErrors records files the run could not read.
func (c *fileCollector) addErrors(result *runner.Result) {
	if result == nil {
		return
	}
	for _, outcome := range result.Files {
		if outcome.Error != nil {
			c.file(outcome.Path).Error = outcome.Error.Error()
		}
	}
}

// JSONReporter collects diagnostics and writes one JSON document when
// the run finishes.
type JSONReporter struct {
	opts      Options
	bw        *bufio.Writer
	collector *fileCollector
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	return &JSONReporter{
		opts:      opts,
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
		collector: newFileCollector(),
	}
}

// Filename implements lint.Sink.
func (r *JSONReporter) Filename(path string) error {
	r.collector.file(path)
	return nil
}

// Diagnostic implements lint.Sink.
func (r *JSONReporter) Diagnostic(d lint.Diagnostic) error {
	file := r.collector.file(d.Path)
	file.Diagnostics = append(file.Diagnostics, JSONDiagnostic{
		Line:    d.Line,
		Column:  d.Column(),
		Code:    d.Code(),
		Class:   d.Class(),
		Message: d.Text(),
		Rule:    d.Rule,
		Source:  d.Source,
	})
	return nil
}

// Finish implements Reporter.
func (r *JSONReporter) Finish(_ context.Context, result *runner.Result) error {
	r.collector.addErrors(result)
	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	if err := r.bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		RunID:    r.opts.RunID,
		Tool:     toolName,
		Version:  r.opts.Version,
		Files:    r.collector.files,
		Counters: make(map[string]int),
		Totals:   make(map[string]int),
	}
	if output.Files == nil {
		output.Files = make([]JSONFileResult, 0)
	}

	if result == nil || result.State == nil {
		return output
	}

	for _, code := range result.State.Codes() {
		output.Counters[code] = result.State.Counter(code)
	}
	for _, key := range lint.BenchmarkKeys() {
		output.Totals[key] = result.State.Totals(key)
	}
	output.Total = result.Total
	return output
}
