package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gobqlint/pkg/lint"
)

//nolint:gochecknoglobals // compiled once
var (
	extraneousWhitespaceRegex     = regexp.MustCompile(`[\[({] | [\]}),;:]`)
	whitespaceAroundOperatorRegex = regexp.MustCompile(`([^\w\s]*)\s*(\t|  )\s*([^\w\s]*)`)
)

// operators holds the binary and unary operators recognized around
// whitespace runs.
//
//nolint:gochecknoglobals // static lookup table
var operators = map[string]struct{}{
	"!=": {}, "<>": {}, "<=": {}, ">=": {}, "<<": {}, ">>": {}, "||": {},
	"%": {}, "^": {}, "&": {}, "|": {}, "=": {}, "/": {}, "<": {}, ">": {},
	"*": {}, "+": {}, "-": {},
}

func isOperator(s string) bool {
	_, ok := operators[s]
	return ok
}

// runeIndex converts a byte index in s into a rune index.
func runeIndex(s string, byteIdx int) int {
	return utf8.RuneCountInString(s[:byteIdx])
}

// ExtraneousWhitespaceRule checks for whitespace just inside brackets and
// before separators.
type ExtraneousWhitespaceRule struct {
	lint.BaseRule
}

// NewExtraneousWhitespaceRule creates the E201/E202/E203 rule.
func NewExtraneousWhitespaceRule() *ExtraneousWhitespaceRule {
	return &ExtraneousWhitespaceRule{
		BaseRule: lint.NewBaseRule(
			"extraneous_whitespace",
			"Avoid whitespace immediately inside brackets and immediately "+
				"before a comma or semicolon.",
			[]string{lint.FacetLogicalLine},
			[]string{"E201", "E202", "E203"},
			`Okay: SELECT f(a[1], b)`,
			`E201: SELECT f( a)`,
			`E202: SELECT f(a )`,
			`E203: SELECT a , b`,
		),
	}
}

// Check reports the first extraneous whitespace.
func (r *ExtraneousWhitespaceRule) Check(s *lint.Subject) (*lint.Result, error) {
	line := s.LogicalLine
	for _, loc := range extraneousWhitespaceRegex.FindAllStringIndex(line, -1) {
		text := line[loc[0]:loc[1]]
		char := strings.TrimSpace(text)
		found := loc[0]

		if text == char+" " {
			return lint.Found(runeIndex(line, found)+1, fmt.Sprintf("E201 whitespace after '%s'", char))
		}
		if found > 0 && line[found-1] != ',' {
			code := "E203"
			if strings.Contains("}])", char) {
				code = "E202"
			}
			return lint.Found(runeIndex(line, found), fmt.Sprintf("%s whitespace before '%s'", code, char))
		}
	}
	return nil, nil
}

// WhitespaceAroundOperatorRule checks for runs of whitespace or tabs next
// to an operator.
type WhitespaceAroundOperatorRule struct {
	lint.BaseRule
}

// NewWhitespaceAroundOperatorRule creates the E221-E224 rule.
func NewWhitespaceAroundOperatorRule() *WhitespaceAroundOperatorRule {
	return &WhitespaceAroundOperatorRule{
		BaseRule: lint.NewBaseRule(
			"whitespace_around_operator",
			"Use a single space around an operator, never more and never a tab.",
			[]string{lint.FacetLogicalLine},
			[]string{"E221", "E222", "E223", "E224"},
			`Okay: SELECT a = b`,
			`E221: SELECT a  = b`,
			`E222: SELECT a =  b`,
			`E223: SELECT a\t= b`,
			`E224: SELECT a =\tb`,
		),
	}
}

// Check reports the first offending whitespace run.
func (r *WhitespaceAroundOperatorRule) Check(s *lint.Subject) (*lint.Result, error) {
	line := s.LogicalLine
	for _, m := range whitespaceAroundOperatorRegex.FindAllStringSubmatchIndex(line, -1) {
		before := line[m[2]:m[3]]
		whitespace := line[m[4]:m[5]]
		after := line[m[6]:m[7]]
		tab := whitespace == "\t"
		offset := runeIndex(line, m[4])

		switch {
		case isOperator(before):
			if tab {
				return lint.Found(offset, "E224 tab after operator")
			}
			return lint.Found(offset, "E222 multiple spaces after operator")
		case isOperator(after):
			if tab {
				return lint.Found(offset, "E223 tab before operator")
			}
			return lint.Found(offset, "E221 multiple spaces before operator")
		}
	}
	return nil, nil
}

// MissingWhitespaceRule checks for a space after each comma.
type MissingWhitespaceRule struct {
	lint.BaseRule
}

// NewMissingWhitespaceRule creates the E231 rule.
func NewMissingWhitespaceRule() *MissingWhitespaceRule {
	return &MissingWhitespaceRule{
		BaseRule: lint.NewBaseRule(
			"missing_whitespace",
			"Put a space after each comma.",
			[]string{lint.FacetLogicalLine},
			[]string{"E231"},
			`Okay: SELECT a, b`,
			`Okay: SELECT f(a,)`,
			`E231: SELECT a,b`,
		),
	}
}

// Check reports the first comma not followed by whitespace.
func (r *MissingWhitespaceRule) Check(s *lint.Subject) (*lint.Result, error) {
	runes := []rune(s.LogicalLine)
	for idx := 0; idx < len(runes)-1; idx++ {
		if runes[idx] != ',' {
			continue
		}
		next := runes[idx+1]
		if next == ' ' || next == '\t' || next == ')' || next == ']' {
			continue
		}
		return lint.Found(idx, "E231 missing whitespace after ','")
	}
	return nil, nil
}

// WhitespaceAfterCommaRule checks for more than one space or a tab after a
// separator. Its codes are ignored by default.
type WhitespaceAfterCommaRule struct {
	lint.BaseRule
}

// NewWhitespaceAfterCommaRule creates the E241/E242 rule.
func NewWhitespaceAfterCommaRule() *WhitespaceAfterCommaRule {
	return &WhitespaceAfterCommaRule{
		BaseRule: lint.NewBaseRule(
			"whitespace_after_comma",
			"Avoid extra spaces or tabs after a comma or semicolon.",
			[]string{lint.FacetLogicalLine},
			[]string{"E241", "E242"},
			`Okay: SELECT a, b`,
			`E241: SELECT a,  b`,
			`E242: SELECT a,\tb`,
		),
	}
}

// Check reports the first separator followed by extra whitespace.
func (r *WhitespaceAfterCommaRule) Check(s *lint.Subject) (*lint.Result, error) {
	line := s.LogicalLine
	for _, sep := range []string{",", ";", ":"} {
		if found := strings.Index(line, sep+"  "); found > -1 {
			return lint.Found(runeIndex(line, found)+1, fmt.Sprintf("E241 multiple spaces after '%s'", sep))
		}
		if found := strings.Index(line, sep+"\t"); found > -1 {
			return lint.Found(runeIndex(line, found)+1, fmt.Sprintf("E242 tab after '%s'", sep))
		}
	}
	return nil, nil
}
