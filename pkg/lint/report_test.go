package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobqlint/pkg/lint"
)

// recordingSink remembers everything it is sent.
type recordingSink struct {
	filenames   []string
	diagnostics []string
}

func (s *recordingSink) Filename(path string) error {
	s.filenames = append(s.filenames, path)
	return nil
}

func (s *recordingSink) Diagnostic(d lint.Diagnostic) error {
	s.diagnostics = append(s.diagnostics, d.String())
	return nil
}

func diag(line, offset int, message string) lint.Diagnostic {
	return lint.Diagnostic{Path: "a.sql", Line: line, Offset: offset, Message: message}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sel     []string
		ignore  []string
		code    string
		ignored bool
	}{
		{name: "default ignores E24", code: "E241", ignored: true},
		{name: "default keeps E221", code: "E221", ignored: false},
		{name: "default keeps W000", code: "W000", ignored: false},
		{name: "select without ignore drops others", sel: []string{"E5"}, code: "W291", ignored: true},
		{name: "select without ignore keeps selected", sel: []string{"E5"}, code: "E501", ignored: false},
		{name: "select wins over ignore", sel: []string{"E241"}, ignore: []string{"E2"}, code: "E241", ignored: false},
		{name: "explicit ignore", ignore: []string{"W"}, code: "W291", ignored: true},
		{name: "explicit ignore replaces default", ignore: []string{"W"}, code: "E241", ignored: false},
		{name: "empty ignore ignores nothing", ignore: []string{}, code: "E241", ignored: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := lint.NewFilter(tt.sel, tt.ignore)
			assert.Equal(t, tt.ignored, f.Ignored(tt.code))
		})
	}
}

func TestFilter_EffectiveIgnore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"E24"}, lint.NewFilter(nil, nil).EffectiveIgnore())
	assert.Equal(t, []string{""}, lint.NewFilter([]string{"E"}, nil).EffectiveIgnore())
	assert.Empty(t, lint.NewFilter(nil, []string{}).EffectiveIgnore())
	assert.Equal(t, []string{"E"}, lint.NewFilter([]string{"E"}, nil).Selected())
}

func TestReporter_FirstOccurrenceOnly(t *testing.T) {
	t.Parallel()

	state := lint.NewRunState(lint.NewRuleSet(), lint.NewFilter(nil, nil))
	sink := &recordingSink{}
	rep := lint.NewReporter(state, sink, lint.ReporterOptions{})

	rep.StartFile("a.sql", nil)
	for i := 1; i <= 3; i++ {
		require.NoError(t, rep.Report(diag(i, 8, "W291 trailing whitespace")))
	}

	assert.Equal(t, []string{"a.sql:1:9:W W291 trailing whitespace"}, sink.diagnostics)
	assert.Equal(t, 3, state.Counter("W291"))
	assert.Equal(t, 1, rep.FileErrors())
	assert.Equal(t, "trailing whitespace", state.Message("W291"))
}

func TestReporter_Repeat(t *testing.T) {
	t.Parallel()

	state := lint.NewRunState(lint.NewRuleSet(), lint.NewFilter(nil, nil))
	sink := &recordingSink{}
	rep := lint.NewReporter(state, sink, lint.ReporterOptions{Repeat: true})

	rep.StartFile("a.sql", nil)
	require.NoError(t, rep.Report(diag(1, 8, "W291 trailing whitespace")))
	require.NoError(t, rep.Report(diag(2, 3, "W291 trailing whitespace")))

	assert.Len(t, sink.diagnostics, 2)
	assert.Equal(t, 2, rep.FileErrors())
}

func TestReporter_IgnoredChangesNothing(t *testing.T) {
	t.Parallel()

	state := lint.NewRunState(lint.NewRuleSet(), lint.NewFilter(nil, nil))
	sink := &recordingSink{}
	rep := lint.NewReporter(state, sink, lint.ReporterOptions{Repeat: true, Quiet: 1})

	rep.StartFile("a.sql", nil)
	require.NoError(t, rep.Report(diag(1, 9, "E241 multiple spaces after ','")))

	assert.Empty(t, sink.filenames)
	assert.Empty(t, sink.diagnostics)
	assert.Zero(t, state.Total())
}

func TestReporter_Quiet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		quiet     int
		filenames []string
	}{
		{name: "quiet 1 prints file once", quiet: 1, filenames: []string{"a.sql"}},
		{name: "quiet 2 prints nothing", quiet: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state := lint.NewRunState(lint.NewRuleSet(), lint.NewFilter(nil, nil))
			sink := &recordingSink{}
			rep := lint.NewReporter(state, sink, lint.ReporterOptions{Quiet: tt.quiet, Repeat: true})

			rep.StartFile("a.sql", nil)
			require.NoError(t, rep.Report(diag(1, 8, "W291 trailing whitespace")))
			require.NoError(t, rep.Report(diag(2, 79, "E501 line too long (88 characters)")))

			assert.Equal(t, tt.filenames, sink.filenames)
			assert.Empty(t, sink.diagnostics)
			assert.Equal(t, 2, state.Total())
			assert.Zero(t, rep.FileErrors())
		})
	}
}

func TestReporter_Expected(t *testing.T) {
	t.Parallel()

	state := lint.NewRunState(lint.NewRuleSet(), lint.NewFilter(nil, nil))
	sink := &recordingSink{}
	rep := lint.NewReporter(state, sink, lint.ReporterOptions{})

	rep.StartFile("a.sql", []string{"E501"})
	require.NoError(t, rep.Report(diag(1, 79, "E501 line too long (88 characters)")))
	require.NoError(t, rep.Report(diag(1, 8, "W291 trailing whitespace")))

	assert.Equal(t, []string{"a.sql:1:9:W W291 trailing whitespace"}, sink.diagnostics)
	assert.Equal(t, 1, state.Counter("E501"))
	assert.Equal(t, 1, rep.FileErrors())
}

func TestReporter_ReportFile(t *testing.T) {
	t.Parallel()

	state := lint.NewRunState(lint.NewRuleSet(), lint.NewFilter(nil, nil))
	sink := &recordingSink{}
	rep := lint.NewReporter(state, sink, lint.ReporterOptions{})

	fr := &lint.FileResult{
		Path:          "a.sql",
		PhysicalLines: 4,
		LogicalLines:  2,
		Diagnostics: []lint.Diagnostic{
			diag(1, 0, "W191 indentation contains tabs"),
			diag(2, 0, "W191 indentation contains tabs"),
		},
	}

	n, err := rep.ReportFile(fr)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, fr.ErrorCount)
	assert.Equal(t, 4, state.Totals(lint.KeyPhysicalLines))
	assert.Equal(t, 2, state.Totals(lint.KeyLogicalLines))
	assert.Equal(t, 2, state.Total(), "benchmark keys never count as diagnostics")
}

func TestRunState_CountsAndStatistics(t *testing.T) {
	t.Parallel()

	state := lint.NewRunState(lint.NewRuleSet(), lint.NewFilter(nil, []string{}))
	rep := lint.NewReporter(state, nil, lint.ReporterOptions{})

	rep.StartFile("a.sql", nil)
	for _, msg := range []string{
		"W291 trailing whitespace",
		"E501 line too long (90 characters)",
		"E501 line too long (99 characters)",
		"E241 multiple spaces after ','",
	} {
		require.NoError(t, rep.Report(diag(1, 0, msg)))
	}
	state.AddTotal(lint.KeyFiles, 1)

	assert.Equal(t, 4, state.Total())
	assert.Equal(t, 3, state.Count("E"))
	assert.Equal(t, 2, state.Count("E5"))
	assert.Equal(t, []string{"E241", "E501", "W291"}, state.Codes())

	stats := state.Statistics()
	require.Len(t, stats, 3)
	assert.Equal(t, lint.Statistic{Code: "E501", Count: 2, Message: "line too long (90 characters)"}, stats[1])

	state.Reset()
	assert.Zero(t, state.Total())
	assert.Zero(t, state.Totals(lint.KeyFiles))
}

func TestDiagnostic(t *testing.T) {
	t.Parallel()

	d := lint.Diagnostic{Path: "q.sql", Line: 3, Offset: 79, Message: "E501 line too long (88 characters)"}
	assert.Equal(t, "E501", d.Code())
	assert.Equal(t, "line too long (88 characters)", d.Text())
	assert.Equal(t, "E", d.Class())
	assert.Equal(t, 80, d.Column())
	assert.Equal(t, "q.sql:3:80:E E501 line too long (88 characters)", d.String())

	assert.Equal(t, "W00", lint.CodeOf("W00"))
	assert.Empty(t, lint.TextOf("W000"))
}
