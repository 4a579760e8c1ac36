// Package config defines core configuration types for gobqlint.
// These types are pure data structures with no dependency on koanf or other
// config loaders.
package config

import "maps"

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"
)

// Formats returns every supported output format.
func Formats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatSARIF}
}

// IsValid reports whether the format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF:
		return true
	default:
		return false
	}
}

// ColorMode controls colored output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether the color mode is supported.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Rule names with options that have a dedicated top-level setting.
const (
	LineLengthRule   = "maximum_line_length"
	LineLengthOption = "max"
)

// Config is the root configuration structure for gobqlint.
type Config struct {
	// Select lists code prefixes to report. A selected code is reported
	// even when it also matches Ignore.
	Select []string `mapstructure:"select" yaml:"select,omitempty" toml:"select,omitempty"`

	// Ignore lists code prefixes to suppress. Nil means not configured:
	// everything not selected when Select is set, E24 otherwise.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Exclude holds patterns for files and directories to skip.
	Exclude []string `mapstructure:"exclude" yaml:"exclude" toml:"exclude"`

	// Filename holds patterns a file found in a directory must match.
	Filename []string `mapstructure:"filename" yaml:"filename" toml:"filename"`

	// MaxLineLength overrides the maximum_line_length rule's max option
	// when greater than zero.
	MaxLineLength int `mapstructure:"max_line_length" yaml:"max_line_length,omitempty" toml:"max_line_length,omitempty"`

	// Rules contains rule options keyed by rule name.
	Rules map[string]map[string]any `mapstructure:"rules" yaml:"rules,omitempty" toml:"rules,omitempty"`

	// Plugins lists Starlark rule files or directories.
	Plugins []string `mapstructure:"plugins" yaml:"plugins,omitempty" toml:"plugins,omitempty"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"format" yaml:"format" toml:"format"`

	// Encoding is the source encoding, utf-8 or latin-1.
	Encoding string `mapstructure:"encoding" yaml:"encoding" toml:"encoding"`

	// Jobs specifies the number of parallel workers. 0 means one per CPU.
	Jobs int `mapstructure:"jobs" yaml:"jobs" toml:"jobs"`

	// Detect sniffs extensionless files for SQL content.
	Detect bool `mapstructure:"detect" yaml:"detect,omitempty" toml:"detect,omitempty"`

	// Repeat prints every occurrence of each code.
	Repeat bool `mapstructure:"repeat" yaml:"repeat,omitempty" toml:"repeat,omitempty"`

	// ShowSource prints the source line and a caret after each diagnostic.
	ShowSource bool `mapstructure:"show_source" yaml:"show_source,omitempty" toml:"show_source,omitempty"`

	// ShowDoc prints the rule description after each diagnostic.
	ShowDoc bool `mapstructure:"show_doc" yaml:"show_doc,omitempty" toml:"show_doc,omitempty"`

	// Statistics prints per-code counts after the run.
	Statistics bool `mapstructure:"statistics" yaml:"statistics,omitempty" toml:"statistics,omitempty"`

	// Count prints the total number of diagnostics to stderr.
	Count bool `mapstructure:"count" yaml:"count,omitempty" toml:"count,omitempty"`

	// Benchmark prints timing and throughput after the run.
	Benchmark bool `mapstructure:"benchmark" yaml:"benchmark,omitempty" toml:"benchmark,omitempty"`

	// Color controls colored output: auto, always or never.
	Color ColorMode `mapstructure:"color" yaml:"color,omitempty" toml:"color,omitempty"`

	// CLI-level options (not persisted to config files).

	// Quiet suppresses diagnostics; at 1 file names are still printed.
	Quiet int `mapstructure:"quiet" yaml:"-" toml:"-"`

	// Verbose enables progress logging.
	Verbose int `mapstructure:"verbose" yaml:"-" toml:"-"`
}

// DefaultExclude returns the default exclude patterns.
func DefaultExclude() []string {
	return []string{".svn", "CVS", ".bzr", ".hg", ".git"}
}

// DefaultFilename returns the default filename patterns.
func DefaultFilename() []string {
	return []string{"*.sql"}
}

// NewConfig returns a Config with the defaults.
func NewConfig() *Config {
	return &Config{
		Exclude:  DefaultExclude(),
		Filename: DefaultFilename(),
		Rules:    make(map[string]map[string]any),
		Format:   FormatText,
		Encoding: "utf-8",
		Jobs:     0, // 0 means use NumCPU
		Color:    ColorAuto,
	}
}

// RuleOptions returns the rule options with MaxLineLength folded in.
func (c *Config) RuleOptions() map[string]map[string]any {
	out := make(map[string]map[string]any, len(c.Rules)+1)
	for name, opts := range c.Rules {
		out[name] = maps.Clone(opts)
	}
	if c.MaxLineLength > 0 {
		opts := out[LineLengthRule]
		if opts == nil {
			opts = make(map[string]any)
		}
		opts[LineLengthOption] = c.MaxLineLength
		out[LineLengthRule] = opts
	}
	return out
}
