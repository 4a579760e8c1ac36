package lint

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/gobqlint/pkg/fsutil"
)

// caseMarker starts a test case in a test suite file. The rest of the
// marker line lists the codes the case must produce.
const caseMarker = "#:"

// TestCase is one marked section of a test suite file.
type TestCase struct {
	// Expected lists the codes the case must produce, without "Okay".
	Expected []string

	// LineOffset is the number of file lines before the case.
	LineOffset int

	// Lines is the case source.
	Lines []string
}

// ParseTestSuite splits the lines of a test suite file into cases. Lines
// before the first marker form an "Okay" case. A marker with no codes
// disables the lines that follow it.
func ParseTestSuite(lines []string) []TestCase {
	lines = append(slices.Clone(lines), caseMarker+"\n")

	var cases []TestCase
	codes := []string{okay}
	offset := 0
	var current []string

	for idx, line := range lines {
		if !strings.HasPrefix(line, caseMarker) {
			if len(codes) > 0 {
				current = append(current, line)
			}
			continue
		}

		if len(codes) > 0 && idx > 0 {
			expected := make([]string, 0, len(codes))
			for _, code := range codes {
				if code != okay {
					expected = append(expected, code)
				}
			}
			cases = append(cases, TestCase{Expected: expected, LineOffset: offset, Lines: current})
		}

		offset = idx + 1
		codes = strings.Fields(line)[1:]
		current = nil
	}
	return cases
}

// TestSuiteFailure is an expectation a test case did not meet.
type TestSuiteFailure struct {
	Path       string
	LineOffset int
	Message    string
}

// String formats the failure as "path:offset:1: message".
func (f TestSuiteFailure) String() string {
	return fmt.Sprintf("%s:%d:1: %s", f.Path, f.LineOffset, f.Message)
}

// RunTestSuiteFile checks every case of the test suite file at path.
// Diagnostics whose code is not expected are reported through reporter as
// usual. The returned failures list expected codes that were missing or
// found more often than listed.
func RunTestSuiteFile(
	ctx context.Context,
	path string,
	rules *RuleSet,
	reporter *Reporter,
	opts CheckerOptions,
) ([]TestSuiteFailure, error) {
	text, _, err := fsutil.ReadSource(ctx, path, opts.Encoding)
	if err != nil {
		return nil, categorizeError(err)
	}

	var failures []TestSuiteFailure
	for _, tc := range ParseTestSuite(SplitLines(text)) {
		caseOpts := opts
		caseOpts.LineOffset = tc.LineOffset
		caseOpts.Expected = expectedCodes(tc.Expected)

		fr, err := NewChecker(path, rules, caseOpts).RunLines(ctx, tc.Lines)
		if err != nil {
			return failures, err
		}
		if _, err := reporter.ReportFile(fr); err != nil {
			return failures, err
		}

		failures = append(failures, compareCase(path, tc, fr, reporter.State().Filter)...)
	}
	return failures, nil
}

// expectedCodes strips the optional ":line:column" suffix from each code.
func expectedCodes(expected []string) []string {
	codes := make([]string, 0, len(expected))
	for _, e := range expected {
		code, _, _ := strings.Cut(e, ":")
		codes = append(codes, code)
	}
	return codes
}

func compareCase(path string, tc TestCase, fr *FileResult, filter Filter) []TestSuiteFailure {
	counts := make(map[string]int)
	for _, d := range fr.Diagnostics {
		if !filter.Ignored(d.Code()) {
			counts[d.Code()]++
		}
	}

	var failures []TestSuiteFailure
	fail := func(msg string) {
		failures = append(failures, TestSuiteFailure{Path: path, LineOffset: tc.LineOffset, Message: msg})
	}

	for _, extended := range tc.Expected {
		code, _, _ := strings.Cut(extended, ":")
		if counts[code] == 0 {
			fail(fmt.Sprintf("error %s not found", extended))
			continue
		}
		counts[code]--
	}

	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		if extra := counts[code]; extra > 0 && slices.Contains(expectedCodes(tc.Expected), code) {
			fail(fmt.Sprintf("error %s found too many times (+%d)", code, extra))
		}
	}
	return failures
}
