// Package lint provides the rule model, registry, checker and reporting
// core for gobqlint.
package lint

import (
	"strings"

	"github.com/yaklabco/gobqlint/pkg/sqltoken"
)

// Granularity is the unit of input a rule inspects.
type Granularity string

// Rule granularities. A rule's granularity is the one its first declared
// facet name starts with.
const (
	GranularityPhysical Granularity = "physical_line"
	GranularityToken    Granularity = "token"
	GranularityLogical  Granularity = "logical_line"
)

// Granularities lists every granularity in checking order.
func Granularities() []Granularity {
	return []Granularity{GranularityPhysical, GranularityToken, GranularityLogical}
}

// Facet names a rule may declare as input. The checker binds each declared
// facet to the current value of that name.
const (
	FacetPhysicalLine = "physical_line"
	FacetIndentChar   = "indent_char"
	FacetLines        = "lines"
	FacetLineNumber   = "line_number"
	FacetToken        = "token"
	FacetOffset       = "offset"
	FacetTokens       = "tokens"
	FacetTokenIndex   = "token_index"
	FacetLogicalLine  = "logical_line"
	FacetFilename     = "filename"
)

// Facets returns every facet name the checker can bind.
func Facets() []string {
	return []string{
		FacetPhysicalLine, FacetIndentChar, FacetLines, FacetLineNumber,
		FacetToken, FacetOffset, FacetTokens, FacetTokenIndex,
		FacetLogicalLine, FacetFilename,
	}
}

// IsFacet reports whether name is a known facet.
func IsFacet(name string) bool {
	for _, f := range Facets() {
		if f == name {
			return true
		}
	}
	return false
}

// GranularityOf returns the granularity selected by the first facet.
func GranularityOf(facets []string) (Granularity, bool) {
	if len(facets) == 0 {
		return "", false
	}
	for _, g := range Granularities() {
		if strings.HasPrefix(facets[0], string(g)) {
			return g, true
		}
	}
	return "", false
}

// Result is a single finding returned by a rule. Offset is a 0-based rune
// offset into the inspected unit. Message starts with a four character
// code such as "W291" followed by a space and the text.
type Result struct {
	Offset  int
	Message string
}

// Found is a convenience for returning a finding from Check.
func Found(offset int, message string) (*Result, error) {
	return &Result{Offset: offset, Message: message}, nil
}

// Rule defines the interface that all lint rules must implement.
type Rule interface {
	// Name returns the unique rule name (e.g., "trailing_whitespace").
	Name() string

	// Facets returns the ordered input names the rule consumes. The first
	// entry selects the rule's granularity.
	Facets() []string

	// Codes returns the diagnostic codes the rule may emit.
	Codes() []string

	// Description returns a human-readable description of the rule.
	Description() string

	// Examples returns self-test lines of the form "CODE: source" or
	// "Okay: source".
	Examples() []string

	// Check inspects one unit of input.
	//
	// Rules must:
	//   - Return nil when there is nothing to report.
	//   - Be pure: the same Subject always yields the same Result.
	//   - Return error only for internal failures, not violations.
	Check(s *Subject) (*Result, error)
}

// Configurable is implemented by rules that accept options from
// configuration.
type Configurable interface {
	Rule

	// Configure returns a copy of the rule with opts applied. The receiver
	// is not modified.
	Configure(opts map[string]any) (Rule, error)
}

// Subject carries every facet value for one rule invocation.
type Subject struct {
	Filename     string
	PhysicalLine string
	IndentChar   rune
	Lines        []string
	LineNumber   int
	Token        sqltoken.Token
	Offset       int
	Tokens       []sqltoken.Token
	TokenIndex   int
	LogicalLine  string
}

// Facet returns the value bound to a facet name.
func (s *Subject) Facet(name string) (any, bool) {
	switch name {
	case FacetPhysicalLine:
		return s.PhysicalLine, true
	case FacetIndentChar:
		return string(s.IndentChar), true
	case FacetLines:
		return s.Lines, true
	case FacetLineNumber:
		return s.LineNumber, true
	case FacetToken:
		return s.Token, true
	case FacetOffset:
		return s.Offset, true
	case FacetTokens:
		return s.Tokens, true
	case FacetTokenIndex:
		return s.TokenIndex, true
	case FacetLogicalLine:
		return s.LogicalLine, true
	case FacetFilename:
		return s.Filename, true
	default:
		return nil, false
	}
}
