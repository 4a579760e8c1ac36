package cli

import (
	"errors"

	"github.com/yaklabco/gobqlint/internal/configloader"
	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/plugin"
	"github.com/yaklabco/gobqlint/pkg/runner"
)

// Exit codes for gobqlint.
const (
	// ExitSuccess indicates no diagnostics were counted.
	ExitSuccess = 0

	// ExitDiagnostics indicates diagnostics remain, or a self-test failed.
	ExitDiagnostics = 1

	// ExitUsage indicates invalid command-line usage or configuration.
	ExitUsage = 64

	// ExitInternalError indicates a rule crash or another internal error.
	ExitInternalError = 70

	// ExitIOError indicates a target could not be read.
	ExitIOError = 74
)

// ErrDiagnosticsFound is returned when a check counted diagnostics.
var ErrDiagnosticsFound = errors.New("diagnostics found")

// ErrSelfTestFailed is returned when a rule example or test suite case
// did not produce the expected codes.
var ErrSelfTestFailed = errors.New("self-test failed")

// UsageError wraps a command-line parsing error.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError maps a command error to a process exit code. A rule
// crash wins over unreadable targets, which win over diagnostics.
func ExitCodeFromError(err error) int {
	var (
		ruleErr       *lint.RuleError
		validationErr *configloader.ValidationError
		loadErr       *plugin.LoadError
		usageErr      *UsageError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &ruleErr):
		return ExitInternalError
	case errors.As(err, &validationErr), errors.As(err, &loadErr), errors.As(err, &usageErr):
		return ExitUsage
	case errors.Is(err, runner.ErrTargetFailed):
		return ExitIOError
	case errors.Is(err, ErrDiagnosticsFound), errors.Is(err, ErrSelfTestFailed):
		return ExitDiagnostics
	default:
		return ExitInternalError
	}
}

// IsSilent reports whether err only signals an exit status and needs no
// log line.
func IsSilent(err error) bool {
	return errors.Is(err, ErrDiagnosticsFound) || errors.Is(err, ErrSelfTestFailed)
}
