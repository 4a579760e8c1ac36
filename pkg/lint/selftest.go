package lint

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// exampleRegex matches a rule example line: a code or "Okay", a colon and
// the source.
//
//nolint:gochecknoglobals // compiled once
var exampleRegex = regexp.MustCompile(`^(Okay|[EW]\d{3}):\s(.*)$`)

// okay marks an example that must produce no diagnostic.
const okay = "Okay"

// Example is one parsed rule example.
type Example struct {
	// Code is the expected code or "Okay".
	Code string

	// Lines is the example source split into physical lines.
	Lines []string
}

// ParseExample parses an example line. In the source part, a literal \n
// separates lines, \t stands for a tab and \s for a space. Every line gets
// a trailing newline.
func ParseExample(text string) (Example, bool) {
	m := exampleRegex.FindStringSubmatch(text)
	if m == nil {
		return Example{}, false
	}

	parts := strings.Split(m[2], `\n`)
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ReplaceAll(part, `\t`, "\t")
		part = strings.ReplaceAll(part, `\s`, " ")
		lines = append(lines, part+"\n")
	}
	return Example{Code: m[1], Lines: lines}, true
}

// SelfTestFailure describes one example that did not behave as declared.
type SelfTestFailure struct {
	Rule    string
	Example string
	Message string
}

// String formats the failure as "rule: message".
func (f SelfTestFailure) String() string {
	return fmt.Sprintf("%s: %s", f.Rule, f.Message)
}

// SelfTestResult summarizes a self-test run.
type SelfTestResult struct {
	Passed   int
	Failed   int
	Failures []SelfTestFailure
}

// RunSelfTest checks every example of every rule in rules against the full
// rule set. An "Okay" example fails when any code is found; a code example
// fails when that code is not found. Nothing is ignored.
func RunSelfTest(ctx context.Context, rules *RuleSet) (*SelfTestResult, error) {
	result := &SelfTestResult{}

	for _, rule := range rules.All() {
		for _, text := range rule.Examples() {
			example, ok := ParseExample(text)
			if !ok {
				continue
			}

			checker := NewChecker("stdin", rules, CheckerOptions{})
			fr, err := checker.RunLines(ctx, example.Lines)
			if err != nil {
				return nil, fmt.Errorf("self-test %s: %w", rule.Name(), err)
			}

			codes := make([]string, 0, len(fr.Diagnostics))
			for _, d := range fr.Diagnostics {
				if !slices.Contains(codes, d.Code()) {
					codes = append(codes, d.Code())
				}
			}
			slices.Sort(codes)

			message := ""
			switch {
			case example.Code == okay && len(codes) > 0:
				message = "incorrectly found " + strings.Join(codes, ", ")
			case example.Code != okay && !slices.Contains(codes, example.Code):
				message = "failed to find " + example.Code
			}

			if message == "" {
				result.Passed++
				continue
			}
			result.Failed++
			result.Failures = append(result.Failures, SelfTestFailure{
				Rule:    rule.Name(),
				Example: text,
				Message: message,
			})
		}
	}

	return result, nil
}
