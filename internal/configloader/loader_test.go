package configloader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobqlint/internal/configloader"
	"github.com/yaklabco/gobqlint/pkg/config"
	_ "github.com/yaklabco/gobqlint/pkg/lint/rules" // Register rules
)

// projectDir returns a temp directory that is its own VCS root, so the
// upward config search never leaves it.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func isolated(dir string) configloader.LoadOptions {
	return configloader.LoadOptions{
		WorkingDir:       dir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := configloader.Load(context.Background(), isolated(projectDir(t)))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	cfg := result.Config
	assert.Equal(t, config.DefaultExclude(), cfg.Exclude)
	assert.Equal(t, config.DefaultFilename(), cfg.Filename)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Equal(t, config.ColorAuto, cfg.Color)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Nil(t, cfg.Select)
	assert.Nil(t, cfg.Ignore)
	assert.NotNil(t, cfg.Rules)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gobqlint.yaml"), `
select: [E2, W291]
ignore: []
format: json
jobs: 3
max_line_length: 100
rules:
  maximum_line_length:
    max: 90
`)
	nested := filepath.Join(dir, "queries", "daily")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := configloader.Load(context.Background(), isolated(nested))
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, []string{filepath.Join(dir, ".gobqlint.yaml")}, result.LoadedFrom)
	assert.Equal(t, []string{"E2", "W291"}, cfg.Select)
	assert.NotNil(t, cfg.Ignore, "an empty ignore list is kept")
	assert.Empty(t, cfg.Ignore)
	assert.Equal(t, config.FormatJSON, cfg.Format)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, 100, cfg.MaxLineLength)
	assert.EqualValues(t, 90, cfg.Rules["maximum_line_length"]["max"])
	assert.Equal(t, config.DefaultExclude(), cfg.Exclude, "defaults survive a partial file")
}

func TestLoad_TOML(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, "gobqlint.toml"), `
ignore = ["E24", "W000"]
encoding = "latin-1"

[rules.maximum_line_length]
max = 120
`)

	result, err := configloader.Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"E24", "W000"}, result.Config.Ignore)
	assert.Equal(t, "latin-1", result.Config.Encoding)
	assert.EqualValues(t, 120, result.Config.Rules["maximum_line_length"]["max"])
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gobqlint.yaml"), "format: json\njobs: 2\n")
	explicit := filepath.Join(dir, "ci", "lint.yaml")
	writeFile(t, explicit, "format: sarif\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit

	result, err := configloader.Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, config.FormatSARIF, result.Config.Format)
	assert.Equal(t, 2, result.Config.Jobs)
	assert.Len(t, result.LoadedFrom, 2)
	assert.Equal(t, explicit, result.LoadedFrom[1])
}

func TestLoad_ExplicitMissing(t *testing.T) {
	t.Parallel()

	opts := isolated(projectDir(t))
	opts.ExplicitPath = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := configloader.Load(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, configloader.IsValidationError(err))
}

func TestLoad_InvalidFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "bad yaml", file: ".gobqlint.yaml", content: "select: [unclosed\n"},
		{name: "bad toml", file: ".gobqlint.toml", content: "select = [unclosed\n"},
		{name: "bad format", file: ".gobqlint.yaml", content: "format: table\n"},
		{name: "bad code", file: ".gobqlint.yaml", content: "select: [X100]\n"},
		{name: "bad glob", file: ".gobqlint.yaml", content: "exclude: ['[abc']\n"},
		{name: "bad encoding", file: ".gobqlint.yaml", content: "encoding: utf-16\n"},
		{name: "negative jobs", file: ".gobqlint.yaml", content: "jobs: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			writeFile(t, filepath.Join(dir, tt.file), tt.content)

			_, err := configloader.Load(context.Background(), isolated(dir))
			require.Error(t, err)
			assert.True(t, configloader.IsValidationError(err), "got %v", err)
		})
	}
}

func TestLoad_UnknownRuleWarns(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gobqlint.yaml"), "rules:\n  no_such_rule:\n    max: 1\n")

	result, err := configloader.Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no_such_rule")
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gobqlint.yaml"), "format: json\nselect: [E1]\nrepeat: false\n")

	flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flags.StringSlice("select", nil, "")
	flags.StringSlice("ignore", nil, "")
	flags.String("format", "text", "")
	flags.Bool("repeat", false, "")
	flags.Bool("show-source", false, "")
	flags.CountP("verbose", "v", "")
	flags.Int("max-line-length", 0, "")
	flags.StringSlice("plugin", nil, "")
	flags.String("testsuite", "", "")
	require.NoError(t, flags.Parse([]string{
		"--select=W2,E501", "--repeat", "--show-source", "-vv",
		"--max-line-length=88", "--plugin=rules.star", "--testsuite=x",
	}))

	opts := isolated(dir)
	opts.Flags = flags

	result, err := configloader.Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, []string{"W2", "E501"}, cfg.Select)
	assert.Equal(t, config.FormatJSON, cfg.Format, "unchanged flags keep the file value")
	assert.Nil(t, cfg.Ignore)
	assert.True(t, cfg.Repeat)
	assert.True(t, cfg.ShowSource)
	assert.Equal(t, 2, cfg.Verbose)
	assert.Equal(t, 88, cfg.MaxLineLength)
	assert.Equal(t, []string{"rules.star"}, cfg.Plugins)
}

func TestLoad_MultiWordKeys(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gobqlint.yaml"), "show_doc: true\nmax_line_length: 99\n")

	flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flags.Int("max-line-length", 0, "")
	flags.Bool("show-source", false, "")
	flags.Bool("show-doc", false, "")
	require.NoError(t, flags.Parse([]string{"--max-line-length=120", "--show-source"}))

	opts := isolated(dir)
	opts.Flags = flags

	result, err := configloader.Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, 120, cfg.MaxLineLength)
	assert.True(t, cfg.ShowSource)
	assert.True(t, cfg.ShowDoc, "file value survives an unchanged flag")
}

func TestLoad_InvalidMaxLineLengthFlag(t *testing.T) {
	t.Parallel()

	flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flags.Int("max-line-length", 0, "")
	require.NoError(t, flags.Parse([]string{"--max-line-length=-1"}))

	opts := isolated(projectDir(t))
	opts.Flags = flags

	_, err := configloader.Load(context.Background(), opts)
	require.Error(t, err)

	var vErr *configloader.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestLoad_QuietRange(t *testing.T) {
	t.Parallel()

	flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flags.CountP("quiet", "q", "")
	require.NoError(t, flags.Parse([]string{"-qqq"}))

	opts := isolated(projectDir(t))
	opts.Flags = flags

	_, err := configloader.Load(context.Background(), opts)
	require.Error(t, err)

	var vErr *configloader.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "quiet", vErr.Field)
}

func TestLoad_Environment(t *testing.T) {
	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gobqlint.yaml"), "format: json\n")

	t.Setenv("GOBQLINT_FORMAT", "sarif")
	t.Setenv("GOBQLINT_IGNORE", "E24, W291")
	t.Setenv("GOBQLINT_SHOW_SOURCE", "true")
	t.Setenv("GOBQLINT_JOBS", "4")

	opts := isolated(dir)
	opts.IgnoreEnv = false

	result, err := configloader.Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, config.FormatSARIF, cfg.Format)
	assert.Equal(t, []string{"E24", "W291"}, cfg.Ignore)
	assert.True(t, cfg.ShowSource)
	assert.Equal(t, 4, cfg.Jobs)
}

func TestLoad_UserConfig(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	writeFile(t, filepath.Join(xdg, "gobqlint", "config.yaml"), "jobs: 5\nformat: json\n")

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gobqlint.yml"), "format: sarif\n")

	result, err := configloader.Load(context.Background(), configloader.LoadOptions{
		WorkingDir: dir,
		IgnoreEnv:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Config.Jobs)
	assert.Equal(t, config.FormatSARIF, result.Config.Format, "project config overrides user config")
	assert.Equal(t, filepath.Join(xdg, "gobqlint", "config.yaml"), result.Paths.User)
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".gobqlint.yaml"), "jobs: 1\n")
	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	sub := filepath.Join(repo, "sql")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	path, err := configloader.FindProjectConfig(context.Background(), sub)
	require.NoError(t, err)
	assert.Empty(t, path)

	writeFile(t, filepath.Join(repo, "gobqlint.yaml"), "jobs: 2\n")
	path, err = configloader.FindProjectConfig(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo, "gobqlint.yaml"), path)
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	err := &configloader.ValidationError{FilePath: "a.yaml", Line: 3, Field: "jobs", Message: "bad"}
	assert.Equal(t, "a.yaml:3: jobs: bad", err.Error())

	err = &configloader.ValidationError{Message: "bad"}
	assert.Equal(t, "bad", err.Error())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Select = []string{"", "E", "E2", "W291"}
	assert.True(t, configloader.Validate(cfg).Valid())

	cfg.Ignore = []string{"E1234"}
	cfg.Color = "sometimes"
	result := configloader.Validate(cfg)
	assert.False(t, result.Valid())
	assert.Len(t, result.Errors, 2)
	assert.Len(t, result.AllMessages(), 2)

	assert.True(t, configloader.ValidateWithFile(nil, "x").Valid())
	assert.True(t, configloader.IsValidCode("W6"))
	assert.False(t, configloader.IsValidCode("e501"))
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := configloader.ListEnvVars()
	assert.Contains(t, vars, "GOBQLINT_SELECT")
	assert.Contains(t, vars, "GOBQLINT_MAX_LINE_LENGTH")
}
