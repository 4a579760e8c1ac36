package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobqlint/pkg/config"
	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/lint/rules"
	"github.com/yaklabco/gobqlint/pkg/reporter"
	"github.com/yaklabco/gobqlint/pkg/runner"
)

func ruleSet() *lint.RuleSet {
	return lint.NewRuleSet(rules.NewTrailingWhitespaceRule(), rules.NewMaxLineLengthRule())
}

func diagnostics() []lint.Diagnostic {
	return []lint.Diagnostic{
		{Path: "a.sql", Line: 1, Offset: 8, Message: "W291 trailing whitespace", Rule: "trailing_whitespace", Source: "select 1 "},
		{Path: "a.sql", Line: 4, Offset: 79, Message: "E501 line too long (85 > 79 characters)", Rule: "maximum_line_length", Source: strings.Repeat("x", 85)},
		{Path: "b.sql", Line: 2, Offset: 3, Message: "W291 trailing whitespace", Rule: "trailing_whitespace", Source: "a  "},
	}
}

// replay feeds diagnostics through a lint.Reporter so the sink sees
// exactly what a run would print, and returns the run result.
func replay(t *testing.T, sink lint.Sink, opts lint.ReporterOptions, diags []lint.Diagnostic) *runner.Result {
	t.Helper()

	state := lint.NewRunState(ruleSet(), lint.NewFilter(nil, []string{}))
	rep := lint.NewReporter(state, sink, opts)
	path := ""
	for _, d := range diags {
		if d.Path != path {
			path = d.Path
			rep.StartFile(path, nil)
		}
		require.NoError(t, rep.Report(d))
	}
	state.AddTotal(lint.KeyFiles, 2)
	return &runner.Result{Total: state.Total(), State: state}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  config.OutputFormat
		want    any
		wantErr bool
	}{
		{name: "text reporter", format: config.FormatText, want: &reporter.TextReporter{}},
		{name: "json reporter", format: config.FormatJSON, want: &reporter.JSONReporter{}},
		{name: "sarif reporter", format: config.FormatSARIF, want: &reporter.SARIFReporter{}},
		{name: "empty defaults to text", format: "", want: &reporter.TextReporter{}},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: tt.format})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, rep)
		})
	}
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts reporter.Options
		lint lint.ReporterOptions
		want string
	}{
		{
			name: "first occurrence of each code",
			want: "a.sql:1:9:W W291 trailing whitespace\n" +
				"a.sql:4:80:E E501 line too long (85 > 79 characters)\n",
		},
		{
			name: "repeat",
			lint: lint.ReporterOptions{Repeat: true},
			want: "a.sql:1:9:W W291 trailing whitespace\n" +
				"a.sql:4:80:E E501 line too long (85 > 79 characters)\n" +
				"b.sql:2:4:W W291 trailing whitespace\n",
		},
		{
			name: "quiet lists files",
			lint: lint.ReporterOptions{Quiet: 1},
			want: "a.sql\nb.sql\n",
		},
		{
			name: "show source",
			opts: reporter.Options{ShowSource: true},
			lint: lint.ReporterOptions{Repeat: true},
			want: "a.sql:1:9:W W291 trailing whitespace\n" +
				"select 1\n        ^\n" +
				"a.sql:4:80:E E501 line too long (85 > 79 characters)\n" +
				strings.Repeat("x", 85) + "\n" + strings.Repeat(" ", 79) + "^\n" +
				"b.sql:2:4:W W291 trailing whitespace\n" +
				"a\n   ^\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			opts := tt.opts
			opts.Writer = &buf
			opts.Color = config.ColorNever
			rep := reporter.NewTextReporter(opts)

			result := replay(t, rep, tt.lint, diagnostics())
			require.NoError(t, rep.Finish(context.Background(), result))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestTextReporter_ShowDoc(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:  &buf,
		Color:   config.ColorNever,
		ShowDoc: true,
		Rules:   ruleSet(),
	})

	d := diagnostics()[0]
	require.NoError(t, rep.Diagnostic(d))
	require.NoError(t, rep.Finish(context.Background(), nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Greater(t, len(lines), 1)
	assert.Equal(t, d.String(), lines[0])
	assert.Equal(t, strings.TrimSpace(rules.NewTrailingWhitespaceRule().Description()), strings.Join(lines[1:], "\n"))
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Version: "1.2.3", RunID: "run-1"})

	result := replay(t, rep, lint.ReporterOptions{}, diagnostics())
	result.Files = []runner.FileOutcome{{Path: "missing.sql", Error: errors.New("no such file")}}
	require.NoError(t, rep.Finish(context.Background(), result))

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "run-1", out.RunID)
	assert.Equal(t, "gobqlint", out.Tool)
	assert.Equal(t, "1.2.3", out.Version)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, map[string]int{"E501": 1, "W291": 2}, out.Counters)
	assert.Equal(t, 2, out.Totals["files"])

	require.Len(t, out.Files, 2)
	assert.Equal(t, "a.sql", out.Files[0].Path)
	require.Len(t, out.Files[0].Diagnostics, 2)
	first := out.Files[0].Diagnostics[0]
	assert.Equal(t, reporter.JSONDiagnostic{
		Line: 1, Column: 9, Code: "W291", Class: "W",
		Message: "trailing whitespace", Rule: "trailing_whitespace", Source: "select 1 ",
	}, first)
	assert.Equal(t, "missing.sql", out.Files[1].Path)
	assert.Equal(t, "no such file", out.Files[1].Error)
	assert.Empty(t, out.Files[1].Diagnostics)
}

func TestJSONReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})
	require.NoError(t, rep.Finish(context.Background(), nil))

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.NotEmpty(t, out.RunID, "a run id is generated")
	assert.NotNil(t, out.Files)
	assert.Zero(t, out.Total)
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewSARIFReporter(reporter.Options{Writer: &buf, Version: "1.2.3", Rules: ruleSet()})

	result := replay(t, rep, lint.ReporterOptions{Repeat: true}, diagnostics())
	require.NoError(t, rep.Finish(context.Background(), result))

	var out reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "2.1.0", out.Version)
	require.Len(t, out.Runs, 1)
	run := out.Runs[0]
	assert.Equal(t, "gobqlint", run.Tool.Driver.Name)
	assert.NotEmpty(t, run.AutomationDetails.GUID)
	require.Len(t, run.Invocations, 1)
	assert.True(t, run.Invocations[0].ExecutionSuccessful)

	ids := make([]string, 0, len(run.Tool.Driver.Rules))
	for _, rule := range run.Tool.Driver.Rules {
		ids = append(ids, rule.ID)
	}
	assert.Subset(t, ids, []string{"W291", "W293", "E501"})

	require.Len(t, run.Results, 3)
	res := run.Results[1]
	assert.Equal(t, "E501", res.RuleID)
	assert.Equal(t, "error", res.Level)
	assert.Equal(t, "E501", run.Tool.Driver.Rules[res.RuleIndex].ID)
	assert.Equal(t, 4, res.Locations[0].PhysicalLocation.Region.StartLine)
	assert.Equal(t, 80, res.Locations[0].PhysicalLocation.Region.StartColumn)
	assert.Equal(t, "warning", run.Results[0].Level)
}

func TestSARIFReporter_ReadErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewSARIFReporter(reporter.Options{Writer: &buf})
	result := &runner.Result{Files: []runner.FileOutcome{{Path: "gone.sql", Error: errors.New("permission denied")}}}
	require.NoError(t, rep.Finish(context.Background(), result))

	var out reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	inv := out.Runs[0].Invocations[0]
	assert.False(t, inv.ExecutionSuccessful)
	require.Len(t, inv.ToolExecutionNotifications, 1)
	assert.Equal(t, "gone.sql", inv.ToolExecutionNotifications[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)
}

func TestWriteStatistics(t *testing.T) {
	t.Parallel()

	result := replay(t, lint.DiscardSink{}, lint.ReporterOptions{}, diagnostics())

	var plain bytes.Buffer
	require.NoError(t, reporter.WriteStatistics(&plain, result.State, reporter.StatisticsOptions{}))
	assert.Equal(t,
		"1       E501 line too long (85 > 79 characters)\n"+
			"2       W291 trailing whitespace\n",
		plain.String())

	var tbl bytes.Buffer
	require.NoError(t, reporter.WriteStatistics(&tbl, result.State, reporter.StatisticsOptions{Table: true}))
	assert.Contains(t, tbl.String(), "E501")
	assert.Contains(t, tbl.String(), "trailing whitespace")
	assert.Contains(t, tbl.String(), "total")

	require.NoError(t, reporter.WriteStatistics(&tbl, nil, reporter.StatisticsOptions{}))
}

func TestWriteBenchmark(t *testing.T) {
	t.Parallel()

	state := lint.NewRunState(ruleSet(), lint.NewFilter(nil, nil))
	state.AddTotal(lint.KeyDirectories, 1)
	state.AddTotal(lint.KeyFiles, 4)
	state.AddTotal(lint.KeyLogicalLines, 20)
	state.AddTotal(lint.KeyPhysicalLines, 40)

	var buf bytes.Buffer
	require.NoError(t, reporter.WriteBenchmark(&buf, state, 2*time.Second))
	assert.Equal(t,
		"2.00    seconds elapsed\n"+
			"0       directories per second (1 total)\n"+
			"2       files per second (4 total)\n"+
			"10      logical lines per second (20 total)\n"+
			"20      physical lines per second (40 total)\n",
		buf.String())

	buf.Reset()
	require.NoError(t, reporter.WriteBenchmark(&buf, state, 0))
	assert.Contains(t, buf.String(), "0       files per second (4 total)")
}

func TestWriteCount(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, reporter.WriteCount(&buf, 7))
	assert.Equal(t, "7\n", buf.String())
}
