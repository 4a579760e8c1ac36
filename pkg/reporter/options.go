package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/gobqlint/pkg/config"
	"github.com/yaklabco/gobqlint/pkg/lint"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format config.OutputFormat

	// Color controls colorized text output.
	Color config.ColorMode

	// ShowSource prints the source line and a caret after each diagnostic.
	ShowSource bool

	// ShowDoc prints the rule description after each diagnostic.
	ShowDoc bool

	// Rules is the rule snapshot of the run. It supplies descriptions for
	// ShowDoc and the rule table of SARIF output.
	Rules *lint.RuleSet

	// Version is the tool version written into JSON and SARIF output.
	Version string

	// RunID identifies the run in JSON and SARIF output. A random UUID is
	// used when empty.
	RunID string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:  os.Stdout,
		Format:  config.FormatText,
		Color:   config.ColorAuto,
		Version: "dev",
	}
}

// describe returns the description of the named rule.
func (o Options) describe(name string) string {
	if o.Rules == nil {
		return ""
	}
	rule, ok := o.Rules.Lookup(name)
	if !ok {
		return ""
	}
	return rule.Description()
}
