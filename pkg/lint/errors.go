package lint

import (
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/gobqlint/pkg/fsutil"
)

// Error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrReadFailure indicates the file could not be read or decoded.
	ErrReadFailure = errors.New("read failure")

	// ErrDuplicateRule is returned when registering a name twice.
	ErrDuplicateRule = errors.New("duplicate rule")

	// ErrInvalidRule is returned when registering a nil or unnamed rule.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrRuleCrashed is wrapped by RuleError.
	ErrRuleCrashed = errors.New("rule crashed")
)

// RuleError reports a rule that failed while checking a file. It aborts
// the whole run.
type RuleError struct {
	Rule string
	File string
	Line int
	Err  error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("%s:%d: rule %s: %v", e.File, e.Line, e.Rule, e.Err)
}

// Unwrap returns the underlying failure.
func (e *RuleError) Unwrap() []error {
	return []error{ErrRuleCrashed, e.Err}
}

// categorizeError wraps an error with the appropriate read error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return fmt.Errorf("%w: %w", ErrReadFailure, err)
}
