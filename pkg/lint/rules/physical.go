package rules

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/sqltoken"
)

// DefaultMaxLineLength is the default maximum line length.
const DefaultMaxLineLength = 79

// indentOf returns the leading run of spaces and tabs.
func indentOf(line string) string {
	end := 0
	for end < len(line) && (line[end] == ' ' || line[end] == '\t') {
		end++
	}
	return line[:end]
}

func rstrip(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// indentOffset caps an offset into the indentation at the length of the
// line's content, so a whitespace-only line reports at its start.
func indentOffset(line string, offset int) int {
	return min(offset, utf8.RuneCountInString(rstrip(line)))
}

// TabsOrSpacesRule checks that indentation uses one character consistently.
// The expected character is the first indentation character in the file.
type TabsOrSpacesRule struct {
	lint.BaseRule
}

// NewTabsOrSpacesRule creates the E101 rule.
func NewTabsOrSpacesRule() *TabsOrSpacesRule {
	return &TabsOrSpacesRule{
		BaseRule: lint.NewBaseRule(
			"tabs_or_spaces",
			"Never mix tabs and spaces in indentation.",
			[]string{lint.FacetPhysicalLine, lint.FacetIndentChar},
			[]string{"E101"},
			`Okay: SELECT 1`,
			`Okay: \s\sSELECT 1`,
			`E101: \s\sSELECT a\n\s\t,b`,
		),
	}
}

// Check reports the first indentation character that differs from the
// file's indent character.
func (r *TabsOrSpacesRule) Check(s *lint.Subject) (*lint.Result, error) {
	for offset, char := range indentOf(s.PhysicalLine) {
		if char != s.IndentChar {
			return lint.Found(indentOffset(s.PhysicalLine, offset), "E101 indentation contains mixed spaces and tabs")
		}
	}
	return nil, nil
}

// TabsObsoleteRule checks for tabs in indentation.
type TabsObsoleteRule struct {
	lint.BaseRule
}

// NewTabsObsoleteRule creates the W191 rule.
func NewTabsObsoleteRule() *TabsObsoleteRule {
	return &TabsObsoleteRule{
		BaseRule: lint.NewBaseRule(
			"tabs_obsolete",
			"Indent with spaces; tabs are obsolete.",
			[]string{lint.FacetPhysicalLine},
			[]string{"W191"},
			`Okay: \s\sSELECT 1`,
			`W191: \tSELECT 1`,
		),
	}
}

// Check reports the first tab in the indentation.
func (r *TabsObsoleteRule) Check(s *lint.Subject) (*lint.Result, error) {
	if idx := strings.IndexByte(indentOf(s.PhysicalLine), '\t'); idx >= 0 {
		return lint.Found(indentOffset(s.PhysicalLine, idx), "W191 indentation contains tabs")
	}
	return nil, nil
}

// TrailingWhitespaceRule checks for whitespace at the end of a line.
type TrailingWhitespaceRule struct {
	lint.BaseRule
}

// NewTrailingWhitespaceRule creates the W291/W293 rule.
func NewTrailingWhitespaceRule() *TrailingWhitespaceRule {
	return &TrailingWhitespaceRule{
		BaseRule: lint.NewBaseRule(
			"trailing_whitespace",
			"Trailing whitespace is superfluous. A line holding nothing but "+
				"whitespace is reported separately so it can be filtered on its own.",
			[]string{lint.FacetPhysicalLine},
			[]string{"W291", "W293"},
			`Okay: SELECT 1`,
			`W291: SELECT 1\s\s\s`,
			`W293: SELECT 1\n\s\s\nSELECT 2`,
		),
	}
}

// Check reports trailing whitespace after stripping the line terminator
// and form feeds.
func (r *TrailingWhitespaceRule) Check(s *lint.Subject) (*lint.Result, error) {
	line := strings.TrimRight(s.PhysicalLine, "\n")
	line = strings.TrimRight(line, "\r")
	line = strings.TrimRight(line, "\x0c")

	stripped := rstrip(line)
	if line == stripped {
		return nil, nil
	}
	if stripped != "" {
		return lint.Found(utf8.RuneCountInString(stripped), "W291 trailing whitespace")
	}
	return lint.Found(0, "W293 blank line contains whitespace")
}

// TrailingBlankLinesRule checks for a blank last line.
type TrailingBlankLinesRule struct {
	lint.BaseRule
}

// NewTrailingBlankLinesRule creates the W391 rule.
func NewTrailingBlankLinesRule() *TrailingBlankLinesRule {
	return &TrailingBlankLinesRule{
		BaseRule: lint.NewBaseRule(
			"trailing_blank_lines",
			"Trailing blank lines are superfluous.",
			[]string{lint.FacetPhysicalLine, lint.FacetLines, lint.FacetLineNumber},
			[]string{"W391"},
			`Okay: SELECT 1\n\nSELECT 2`,
			`W391: SELECT 1\n`,
		),
	}
}

// Check reports a whitespace-only line when it is the last line.
func (r *TrailingBlankLinesRule) Check(s *lint.Subject) (*lint.Result, error) {
	if strings.TrimSpace(s.PhysicalLine) == "" && s.LineNumber == len(s.Lines) {
		return lint.Found(0, "W391 blank line at end of file")
	}
	return nil, nil
}

// MissingNewlineRule checks that the file ends with a newline.
type MissingNewlineRule struct {
	lint.BaseRule
}

// NewMissingNewlineRule creates the W292 rule.
func NewMissingNewlineRule() *MissingNewlineRule {
	return &MissingNewlineRule{
		BaseRule: lint.NewBaseRule(
			"missing_newline",
			"The last line of a file should end with a newline.",
			[]string{lint.FacetPhysicalLine},
			[]string{"W292"},
			`Okay: SELECT 1`,
		),
	}
}

// Check reports a line that has no trailing whitespace at all, which can
// only be a final line without a terminator.
func (r *MissingNewlineRule) Check(s *lint.Subject) (*lint.Result, error) {
	if rstrip(s.PhysicalLine) == s.PhysicalLine {
		return lint.Found(utf8.RuneCountInString(s.PhysicalLine), "W292 no newline at end of file")
	}
	return nil, nil
}

// MaxLineLengthRule checks that lines do not exceed a maximum length.
type MaxLineLengthRule struct {
	lint.BaseRule

	// Max is the longest allowed line, in characters.
	Max int
}

// lineLengthOptions are the options accepted by MaxLineLengthRule.
type lineLengthOptions struct {
	Max int `mapstructure:"max"`
}

// NewMaxLineLengthRule creates the E501 rule.
func NewMaxLineLengthRule() *MaxLineLengthRule {
	return &MaxLineLengthRule{
		BaseRule: lint.NewBaseRule(
			"maximum_line_length",
			"Limit all lines to a maximum of 79 characters so several windows "+
				"fit side by side. The limit is set with the max option.",
			[]string{lint.FacetPhysicalLine},
			[]string{"E501"},
			`Okay: SELECT 1`,
			`E501: SELECT `+strings.Repeat("a", 80),
		),
		Max: DefaultMaxLineLength,
	}
}

// Configure returns a copy of the rule with the max option applied.
func (r *MaxLineLengthRule) Configure(opts map[string]any) (lint.Rule, error) {
	parsed := lineLengthOptions{Max: r.Max}
	if err := lint.DecodeOptions(opts, &parsed); err != nil {
		return nil, err
	}
	if parsed.Max <= 0 {
		return nil, fmt.Errorf("max must be positive, got %d", parsed.Max)
	}

	clone := *r
	clone.Max = parsed.Max
	return &clone, nil
}

// Check reports lines whose right-stripped length exceeds Max.
func (r *MaxLineLengthRule) Check(s *lint.Subject) (*lint.Result, error) {
	length := utf8.RuneCountInString(rstrip(s.PhysicalLine))
	if length > r.Max {
		return lint.Found(r.Max, fmt.Sprintf("E501 line too long (%d characters)", length))
	}
	return nil, nil
}

// HyphenCommentRule checks for "--" comments, preferring "#".
type HyphenCommentRule struct {
	lint.BaseRule
}

// NewHyphenCommentRule creates the hyphen comment rule.
func NewHyphenCommentRule() *HyphenCommentRule {
	return &HyphenCommentRule{
		BaseRule: lint.NewBaseRule(
			"dont_use_hyphen_comment",
			"Use # for comments instead of --.",
			[]string{lint.FacetPhysicalLine, lint.FacetTokens},
			[]string{"W000"},
			`Okay: SELECT 1 # note`,
			`Okay: SELECT '--'`,
			`Okay: /* start\n-- inside */`,
			`W000: SELECT 1 -- note`,
		),
	}
}

// Check reports the first "--" comment on the line. Hyphens inside string
// literals, quoted names and block comments are not comments.
func (r *HyphenCommentRule) Check(s *lint.Subject) (*lint.Result, error) {
	offset := 0
	for _, tok := range s.Tokens {
		if tok.Type == sqltoken.Comment && !tok.Continued && strings.HasPrefix(tok.Value, "--") {
			return lint.Found(offset, "W000 Don't use `--` comment string, you should use `#` comment style")
		}
		offset += tok.Len()
	}
	return nil, nil
}
