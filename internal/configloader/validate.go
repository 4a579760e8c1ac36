package configloader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/gobqlint/pkg/config"
	"github.com/yaklabco/gobqlint/pkg/fsutil"
	"github.com/yaklabco/gobqlint/pkg/lint"
)

// maxQuiet is the highest meaningful quiet level.
const maxQuiet = 2

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "rules.maximum_line_length").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown rules).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// codePrefixPattern matches a code prefix such as "", "E", "E2" or "W291".
//
//nolint:gochecknoglobals // Compiled once.
var codePrefixPattern = regexp.MustCompile(`^[EW]?\d{0,3}$`)

// Validate checks a configuration against the built-in rules.
func Validate(cfg *config.Config) *ValidationResult {
	return ValidateWithRegistry(cfg, lint.DefaultRegistry)
}

// ValidateWithRegistry checks a configuration for errors and warnings.
// Rule options naming a rule missing from registry are warnings.
func ValidateWithRegistry(cfg *config.Config, registry *lint.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json, sarif", cfg.Format),
		})
	}

	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	if enc := fsutil.NormalizeEncoding(cfg.Encoding); enc != fsutil.EncodingUTF8 && enc != fsutil.EncodingLatin1 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "encoding",
			Value:   cfg.Encoding,
			Message: fmt.Sprintf("unsupported encoding %q; must be utf-8 or latin-1", cfg.Encoding),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.MaxLineLength < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "max_line_length",
			Value:   cfg.MaxLineLength,
			Message: "max_line_length must be >= 0 (0 means the rule default)",
		})
	}

	if cfg.Quiet < 0 || cfg.Quiet > maxQuiet {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "quiet",
			Value:   cfg.Quiet,
			Message: "quiet must be between 0 and 2",
		})
	}

	validateCodes("select", cfg.Select, result)
	validateCodes("ignore", cfg.Ignore, result)
	validatePatterns("exclude", cfg.Exclude, result)
	validatePatterns("filename", cfg.Filename, result)
	validateRules(cfg, registry, result)

	return result
}

// validateCodes checks that every entry is a code prefix.
func validateCodes(field string, codes []string, result *ValidationResult) {
	for i, code := range codes {
		if !codePrefixPattern.MatchString(code) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Value:   code,
				Message: fmt.Sprintf("invalid code prefix %q; expected forms like E, E2 or W291", code),
			})
		}
	}
}

// validatePatterns checks that patterns are valid globs.
func validatePatterns(field string, patterns []string, result *ValidationResult) {
	for i, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern %q", pattern),
			})
		}
	}
}

// validateRules warns about options for rules that do not exist.
func validateRules(cfg *config.Config, registry *lint.Registry, result *ValidationResult) {
	if registry == nil {
		return
	}
	for name := range cfg.Rules {
		if _, exists := registry.Get(name); !exists {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "rules." + name,
				Value:   name,
				Message: fmt.Sprintf("unknown rule %q; its options will be ignored", name),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidCode reports whether s is a valid code prefix.
func IsValidCode(s string) bool {
	return codePrefixPattern.MatchString(s)
}
