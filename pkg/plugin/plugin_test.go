package plugin_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobqlint/internal/logging"
	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/lint/rules"
	"github.com/yaklabco/gobqlint/pkg/plugin"
)

const stylePlugin = `
def no_select_star(logical_line):
    """Name the columns you select.

    Okay: SELECT a FROM t
    W801: SELECT * FROM t
    """
    idx = logical_line.find("SELECT *")
    if idx >= 0:
        return (idx + 7, "W801 avoid SELECT *")
    return None

def lower_name(token, offset):
    """Write names in lower case."""
    if token.type == "name" and token.value != token.value.lower():
        return (offset, "W802 use lower case names")

def _helper(physical_line):
    return None

CONSTANT = 1

def not_a_rule(x):
    return x
`

func writePlugin(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func ruleNames(rs []lint.Rule) []string {
	names := make([]string, 0, len(rs))
	for _, r := range rs {
		names = append(names, r.Name())
	}
	return names
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writePlugin(t, t.TempDir(), "style.star", stylePlugin)

	loaded, err := plugin.Load(context.Background(), []string{path})
	require.NoError(t, err)
	require.Equal(t, []string{"lower_name", "no_select_star"}, ruleNames(loaded))

	star := loaded[1]
	assert.Equal(t, []string{lint.FacetLogicalLine}, star.Facets())
	assert.Equal(t, "Name the columns you select.", star.Description())
	assert.Equal(t, []string{"Okay: SELECT a FROM t", "W801: SELECT * FROM t"}, star.Examples())
	assert.Equal(t, []string{"W801"}, star.Codes())
	assert.Equal(t, path, star.(*plugin.Rule).File())

	lower := loaded[0]
	assert.Equal(t, []string{lint.FacetToken, lint.FacetOffset}, lower.Facets())
	assert.Empty(t, lower.Examples())
}

func TestPluginRulesRunInChecker(t *testing.T) {
	t.Parallel()

	path := writePlugin(t, t.TempDir(), "style.star", stylePlugin)
	loaded, err := plugin.Load(context.Background(), []string{path})
	require.NoError(t, err)

	set := lint.NewRuleSet(loaded...)
	result, err := lint.NewChecker("q.sql", set, lint.CheckerOptions{}).
		RunLines(context.Background(), []string{"SELECT * FROM Tbl\n"})
	require.NoError(t, err)

	got := make([]string, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{
		"q.sql:1:15:W W802 use lower case names",
		"q.sql:1:8:W W801 avoid SELECT *",
	}, got)

	selftest, err := lint.RunSelfTest(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, 2, selftest.Passed)
	assert.Zero(t, selftest.Failed)
}

func TestPluginRuleFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{
			name:    "wrong return type",
			src:     "def bad(physical_line):\n    return \"W900 oops\"\n",
			wantErr: plugin.ErrBadResult,
		},
		{
			name:    "tuple of wrong size",
			src:     "def bad(physical_line):\n    return (0,)\n",
			wantErr: plugin.ErrBadResult,
		},
		{
			name:    "offset not an int",
			src:     "def bad(physical_line):\n    return (\"0\", \"W900 oops\")\n",
			wantErr: plugin.ErrBadResult,
		},
		{
			name: "runtime error",
			src:  "def bad(physical_line):\n    return 1 // 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writePlugin(t, t.TempDir(), "bad.star", tt.src)
			loaded, err := plugin.Load(context.Background(), []string{path})
			require.NoError(t, err)

			_, err = lint.NewChecker("q.sql", lint.NewRuleSet(loaded...), lint.CheckerOptions{}).
				RunLines(context.Background(), []string{"SELECT 1\n"})
			require.Error(t, err)
			assert.ErrorIs(t, err, lint.ErrRuleCrashed)

			var ruleErr *lint.RuleError
			require.ErrorAs(t, err, &ruleErr)
			assert.Equal(t, "bad", ruleErr.Rule)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{name: "syntax error", path: writePlugin(t, dir, "syntax.star", "def broken(:\n")},
		{name: "unknown facet", path: writePlugin(t, dir, "facet.star", "def r(physical_line, colour):\n    return None\n")},
		{name: "varargs", path: writePlugin(t, dir, "varargs.star", "def r(physical_line, *rest):\n    return None\n")},
		{name: "missing file", path: filepath.Join(dir, "missing.star")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := plugin.Load(context.Background(), []string{tt.path})
			require.Error(t, err)

			var loadErr *plugin.LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.path, loadErr.File)
		})
	}
}

func TestLoadDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePlugin(t, dir, "b.star", "def b_rule(physical_line):\n    return None\n")
	writePlugin(t, dir, "a.star", "def z_rule(physical_line):\n    return None\n")
	writePlugin(t, dir, "notes.txt", "def ignored(physical_line):\n    return None\n")

	loaded, err := plugin.Load(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"z_rule", "b_rule"}, ruleNames(loaded), "files load in name order")
}

func TestRegister(t *testing.T) {
	t.Parallel()

	base := lint.NewRegistry()
	rules.RegisterAll(base)

	dir := t.TempDir()
	path := writePlugin(t, dir, "style.star", stylePlugin)

	reg, err := plugin.Register(context.Background(), base, []string{path})
	require.NoError(t, err)
	assert.Equal(t, base.Len()+2, reg.Len())
	_, ok := base.Get("no_select_star")
	assert.False(t, ok, "base registry is not modified")

	same, err := plugin.Register(context.Background(), base, nil)
	require.NoError(t, err)
	assert.Same(t, base, same)

	dup := writePlugin(t, dir, "dup.star", "def trailing_whitespace(physical_line):\n    return None\n")
	_, err = plugin.Register(context.Background(), base, []string{dup})
	require.Error(t, err)

	var loadErr *plugin.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, dup, loadErr.File)
	assert.Contains(t, loadErr.Message, "duplicate rule")
}

func TestPrintGoesToDebugLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, "debug"))

	path := writePlugin(t, t.TempDir(), "chatty.star", "def chatty(physical_line):\n    print(\"seen \" + physical_line.strip())\n")
	loaded, err := plugin.Load(ctx, []string{path})
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	res, err := loaded[0].Check(&lint.Subject{PhysicalLine: "SELECT 1\n"})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Contains(t, buf.String(), "seen SELECT 1")
}
