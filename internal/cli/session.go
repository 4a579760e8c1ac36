package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gobqlint/internal/configloader"
	"github.com/yaklabco/gobqlint/internal/logging"
	"github.com/yaklabco/gobqlint/internal/ui/pretty"
	"github.com/yaklabco/gobqlint/pkg/config"
	"github.com/yaklabco/gobqlint/pkg/lint"
	_ "github.com/yaklabco/gobqlint/pkg/lint/rules" // Register built-in rules
	"github.com/yaklabco/gobqlint/pkg/plugin"
	"github.com/yaklabco/gobqlint/pkg/reporter"
	"github.com/yaklabco/gobqlint/pkg/runner"
)

// session holds the resolved configuration and rule set of one command.
type session struct {
	cfg      *config.Config
	registry *lint.Registry
	rules    *lint.RuleSet
	version  string
}

// loadSession resolves the configuration with flags layered on top, loads
// plugins and snapshots the configured rule set. Any failure here happens
// before a file is read.
func loadSession(cmd *cobra.Command, flags *pflag.FlagSet, version string) (*session, error) {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		ExplicitPath: configPath,
		Flags:        flags,
	})
	if err != nil {
		return nil, err
	}
	cfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfigFile, loadResult.LoadedFrom)
	}
	if data, err := cfg.ToYAML(); err == nil {
		logger.Debug("effective configuration\n" + string(data))
	}

	registry, err := plugin.Register(ctx, lint.DefaultRegistry, cfg.Plugins)
	if err != nil {
		return nil, err
	}

	rules, err := registry.Snapshot(cfg.RuleOptions())
	if err != nil {
		return nil, &configloader.ValidationError{Field: "rules", Message: err.Error()}
	}

	return &session{cfg: cfg, registry: registry, rules: rules, version: version}, nil
}

// checkOutput is where a check run writes.
type checkOutput struct {
	Out io.Writer
	Err io.Writer
}

// check runs one pass over paths with a fresh run state and writes the
// report, statistics, benchmark and count. The returned error is the run
// error, a write error, or ErrDiagnosticsFound.
func (s *session) check(ctx context.Context, paths []string, output checkOutput) (*runner.Result, error) {
	cfg := s.cfg
	logger := logging.FromContext(ctx)

	state := lint.NewRunState(s.rules, lint.NewFilter(cfg.Select, cfg.Ignore))
	rep, err := reporter.New(reporter.Options{
		Writer:     output.Out,
		Format:     cfg.Format,
		Color:      cfg.Color,
		ShowSource: cfg.ShowSource,
		ShowDoc:    cfg.ShowDoc,
		Rules:      s.rules,
		Version:    s.version,
	})
	if err != nil {
		return nil, &configloader.ValidationError{Field: "format", Value: string(cfg.Format), Message: err.Error()}
	}
	lintReporter := lint.NewReporter(state, rep, lint.ReporterOptions{
		Quiet:  cfg.Quiet,
		Repeat: cfg.Repeat,
	})

	runOpts := runner.OptionsFromConfig(cfg, paths)
	logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldJobs, runOpts.Jobs,
		logging.FieldFormat, cfg.Format,
	)

	start := time.Now()
	result, runErr := runner.New(s.rules, lintReporter).Run(ctx, runOpts)
	elapsed := time.Since(start)

	if err := rep.Finish(ctx, result); err != nil {
		return result, errors.Join(runErr, err)
	}

	if result != nil {
		logger.Debug("run complete",
			logging.FieldFilesChecked, result.Stats.FilesChecked,
			logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
			logging.FieldDiagnosticsTotal, result.Total,
			logging.FieldElapsed, elapsed,
		)
		if err := s.writeExtras(output, result, elapsed); err != nil {
			return result, errors.Join(runErr, err)
		}
	}

	if runErr != nil {
		return result, runErr
	}
	if result.HasIssues() {
		return result, ErrDiagnosticsFound
	}
	return result, nil
}

// writeExtras prints statistics and benchmark figures after a text report,
// then the total count on the error stream.
func (s *session) writeExtras(output checkOutput, result *runner.Result, elapsed time.Duration) error {
	cfg := s.cfg

	if cfg.Format == config.FormatText {
		if cfg.Statistics {
			styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, output.Out))
			opts := reporter.StatisticsOptions{Table: isTerminal(output.Out), Styles: styles}
			if err := reporter.WriteStatistics(output.Out, result.State, opts); err != nil {
				return err
			}
		}
		if cfg.Benchmark {
			if err := reporter.WriteBenchmark(output.Out, result.State, elapsed); err != nil {
				return err
			}
		}
	}

	if cfg.Count && result.Total > 0 {
		if err := reporter.WriteCount(output.Err, result.Total); err != nil {
			return err
		}
	}
	return nil
}
