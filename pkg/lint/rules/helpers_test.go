package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobqlint/pkg/lint"
)

// checkSource runs a single rule over src and returns the diagnostics.
func checkSource(t *testing.T, rule lint.Rule, src string) []lint.Diagnostic {
	t.Helper()

	checker := lint.NewChecker("test.sql", lint.NewRuleSet(rule), lint.CheckerOptions{})
	result, err := checker.RunLines(context.Background(), lint.SplitLines(src))
	require.NoError(t, err)
	return result.Diagnostics
}

// positions returns "line:column message" for each diagnostic.
func positions(diags []lint.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.String()[len(d.Path)+1:])
	}
	return out
}
