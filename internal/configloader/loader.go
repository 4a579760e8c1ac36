// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, layered merging with
// koanf, environment variable and flag overrides, and validation.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gobqlint/pkg/config"
	"github.com/yaklabco/gobqlint/pkg/lint"
)

// keyDelim separates nested koanf keys.
const keyDelim = "."

// flagKeys maps CLI flag names to config keys. Flags not listed here are
// command options and never reach the configuration.
//
//nolint:gochecknoglobals // Read-only lookup table.
var flagKeys = map[string]string{
	"select":          "select",
	"ignore":          "ignore",
	"exclude":         "exclude",
	"filename":        "filename",
	"max-line-length": "max_line_length",
	"plugin":          "plugins",
	"format":          "format",
	"encoding":        "encoding",
	"jobs":            "jobs",
	"detect":          "detect",
	"repeat":          "repeat",
	"show-source":     "show_source",
	"show-doc":        "show_doc",
	"statistics":      "statistics",
	"count":           "count",
	"benchmark":       "benchmark",
	"color":           "color",
	"quiet":           "quiet",
	"verbose":         "verbose",
}

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Flags holds the parsed command flags. Only changed flags override
	// the configuration.
	Flags *pflag.FlagSet

	// Registry is used to check rule option keys. Defaults to
	// lint.DefaultRegistry.
	Registry *lint.Registry
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. Changed CLI flags (opts.Flags)
//  2. Environment variables (GOBQLINT_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.gobqlint.yaml upward search)
//  5. User config ($XDG_CONFIG_HOME/gobqlint/config.yaml)
//  6. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	k := koanf.New(keyDelim)

	if err := k.Load(confmap.Provider(defaults(), keyDelim), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if !opts.IgnoreUserConfig && paths.User != "" {
		if err := loadFile(k, paths.User); err != nil {
			return nil, err
		}
		result.LoadedFrom = append(result.LoadedFrom, paths.User)
	}

	if !opts.IgnoreProjectConfig && paths.Project != "" {
		if err := loadFile(k, paths.Project); err != nil {
			return nil, err
		}
		result.LoadedFrom = append(result.LoadedFrom, paths.Project)
	}

	if opts.ExplicitPath != "" {
		if _, statErr := os.Stat(opts.ExplicitPath); statErr != nil {
			return nil, &ValidationError{
				FilePath: opts.ExplicitPath,
				Message:  fmt.Sprintf("cannot read config file: %v", statErr),
			}
		}
		if err := loadFile(k, opts.ExplicitPath); err != nil {
			return nil, err
		}
		result.LoadedFrom = append(result.LoadedFrom, opts.ExplicitPath)
	}

	if !opts.IgnoreEnv {
		if err := k.Load(envProvider(), nil); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.Flags != nil {
		if err := k.Load(flagProvider(opts.Flags, k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := &config.Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "mapstructure"}); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("decode configuration: %v", err)}
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]map[string]any)
	}

	registry := opts.Registry
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	validation := ValidateWithRegistry(cfg, registry)
	if !validation.Valid() {
		first := validation.Errors[0]
		return nil, &first
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// defaults returns the lowest configuration layer. Select and ignore are
// left out so that an unset ignore stays distinguishable from an empty one.
func defaults() map[string]any {
	cfg := config.NewConfig()
	return map[string]any{
		"exclude":  cfg.Exclude,
		"filename": cfg.Filename,
		"format":   string(cfg.Format),
		"encoding": cfg.Encoding,
		"jobs":     cfg.Jobs,
		"color":    string(cfg.Color),
	}
}

// loadFile merges a config file into k, choosing the parser by extension.
func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch {
	case IsTOMLConfig(path):
		parser = TOML()
	case IsYAMLConfig(path):
		parser = yaml.Parser()
	default:
		return &ValidationError{
			FilePath: path,
			Message:  fmt.Sprintf("unsupported config file extension %q; use .yaml, .yml or .toml", filepath.Ext(path)),
		}
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return &ValidationError{FilePath: path, Message: err.Error()}
	}
	return nil
}

// flagProvider exposes changed flags under their config keys.
func flagProvider(flags *pflag.FlagSet, k *koanf.Koanf) *posflag.Posflag {
	return posflag.ProviderWithFlag(flags, keyDelim, k, func(f *pflag.Flag) (string, any) {
		if !f.Changed {
			return "", nil
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	})
}

// IsValidationError reports whether err is a configuration error.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
