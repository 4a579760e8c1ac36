// Package runner provides multi-file checking orchestration.
package runner

import (
	"github.com/yaklabco/gobqlint/pkg/config"
	"github.com/yaklabco/gobqlint/pkg/lint"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the targets (files or directories) to check, as given on
	// the command line. If empty, defaults to ".".
	Paths []string

	// Exclude holds doublestar patterns for files and directories to skip.
	// Defaults to DefaultExclude().
	Exclude []string

	// Filename holds doublestar patterns a file in a directory target must
	// match. Defaults to DefaultFilename().
	Filename []string

	// Detect sniffs files without an extension that match no Filename
	// pattern and checks the ones that look like SQL.
	Detect bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Verbose enables "checking" and "directory" log lines at 1 and is
	// passed to the checker for deeper levels.
	Verbose int

	// Checker holds the per-file options. Its Verbose field is taken from
	// Verbose.
	Checker lint.CheckerOptions
}

// OptionsFromConfig builds runner options from a resolved configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	return Options{
		Paths:    paths,
		Exclude:  cfg.Exclude,
		Filename: cfg.Filename,
		Detect:   cfg.Detect,
		Jobs:     cfg.Jobs,
		Verbose:  cfg.Verbose,
		Checker: lint.CheckerOptions{
			Encoding: cfg.Encoding,
		},
	}
}

// DefaultExclude returns the default exclude patterns.
func DefaultExclude() []string {
	return config.DefaultExclude()
}

// DefaultFilename returns the default filename patterns.
func DefaultFilename() []string {
	return config.DefaultFilename()
}

func (o Options) effectiveExclude() []string {
	if o.Exclude == nil {
		return DefaultExclude()
	}
	return o.Exclude
}

func (o Options) effectiveFilename() []string {
	if len(o.Filename) == 0 {
		return DefaultFilename()
	}
	return o.Filename
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) checkerOptions() lint.CheckerOptions {
	opts := o.Checker
	opts.Verbose = o.Verbose
	return opts
}
