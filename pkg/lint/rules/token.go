package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/sqltoken"
)

// UpperCaseKeywordRule checks that keywords are written in upper case.
type UpperCaseKeywordRule struct {
	lint.BaseRule
}

// NewUpperCaseKeywordRule creates the upper case keyword rule.
func NewUpperCaseKeywordRule() *UpperCaseKeywordRule {
	return &UpperCaseKeywordRule{
		BaseRule: lint.NewBaseRule(
			"use_upper_case_keyword",
			"Write keywords in upper case.",
			[]string{lint.FacetToken, lint.FacetOffset},
			[]string{"W000"},
			`Okay: SELECT a FROM t`,
			`W000: select a FROM t`,
		),
	}
}

// Check reports a keyword token that is not upper case.
func (r *UpperCaseKeywordRule) Check(s *lint.Subject) (*lint.Result, error) {
	if s.Token.IsKeyword && !isUpper(s.Token.Value) {
		return lint.Found(s.Offset, fmt.Sprintf("W000 Use upper case for keyword `%s`", s.Token.Value))
	}
	return nil, nil
}

// isUpper reports whether s has at least one cased character and all of
// its cased characters are upper case.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// ExplicitAliasRule checks that aliases are introduced with AS.
type ExplicitAliasRule struct {
	lint.BaseRule
}

// NewExplicitAliasRule creates the explicit alias rule.
func NewExplicitAliasRule() *ExplicitAliasRule {
	return &ExplicitAliasRule{
		BaseRule: lint.NewBaseRule(
			"use_explicit_alias",
			"Introduce column and table aliases with AS.",
			[]string{lint.FacetToken, lint.FacetOffset, lint.FacetTokens, lint.FacetTokenIndex},
			[]string{"W000"},
			`Okay: SELECT a AS b FROM t AS u`,
			`Okay: SELECT CAST(x AS INT64) AS y`,
			`Okay: CREATE SCHEMA mydataset;`,
			`Okay: ALTER TABLE t DROP COLUMN c;`,
			`Okay: ALTER TABLE t ADD COLUMN c STRING;`,
			`Okay: EXPORT DATA OPTIONS(uri = 'gs://b/*.csv') AS SELECT 1;`,
			`W000: SELECT a b FROM t`,
			"W000: SELECT a FROM `p.d.t` u",
		),
	}
}

// Words that sit next to a name without being an alias: data types, a
// few clause words that are not reserved, and the unreserved words of DDL
// and data movement statements. A name that is, or follows, one of these
// is never reported.
//
//nolint:gochecknoglobals // static lookup table
var nonAliasWords = map[string]struct{}{
	"BIGDECIMAL": {}, "BIGINT": {}, "BIGNUMERIC": {}, "BOOL": {}, "BOOLEAN": {},
	"BYTEINT": {}, "BYTES": {}, "DATE": {}, "DATETIME": {}, "DECIMAL": {},
	"FLOAT": {}, "FLOAT64": {}, "GEOGRAPHY": {}, "INT": {}, "INT64": {},
	"INTEGER": {}, "JSON": {}, "NUMERIC": {}, "SMALLINT": {}, "STRING": {},
	"TIME": {}, "TIMESTAMP": {}, "TINYINT": {},
	"CLUSTER": {}, "DETERMINISTIC": {}, "IMMEDIATE": {}, "ZONE": {},

	"ACCESS": {}, "ADD": {}, "ASSIGNMENT": {}, "CAPACITY": {}, "CASCADE": {},
	"CLONE": {}, "COLUMN": {}, "COLUMNS": {}, "CONSTRAINT": {}, "COPY": {},
	"DATA": {}, "ENFORCED": {}, "EXPORT": {}, "EXTERNAL": {}, "FOREIGN": {},
	"INDEX": {}, "KEY": {}, "LOAD": {}, "MATERIALIZED": {}, "MODEL": {},
	"OVERWRITE": {}, "POLICY": {}, "PRIMARY": {}, "PROCEDURE": {},
	"REFERENCES": {}, "RENAME": {}, "RESERVATION": {}, "RESTRICT": {},
	"ROW": {}, "SCHEMA": {}, "SEARCH": {}, "SNAPSHOT": {}, "TYPE": {},
	"VECTOR": {},
}

func isNonAliasWord(tok *sqltoken.Token) bool {
	_, ok := nonAliasWords[strings.ToUpper(tok.Value)]
	return ok
}

// Check reports a name that directly follows another name, a quoted name
// or a closing parenthesis, separated only by whitespace.
func (r *ExplicitAliasRule) Check(s *lint.Subject) (*lint.Result, error) {
	tok := s.Token
	if tok.Type != sqltoken.Name {
		return nil, nil
	}
	if isNonAliasWord(&tok) {
		return nil, nil
	}

	prev, spaced := previousToken(s.Tokens, s.TokenIndex)
	if prev == nil || !spaced {
		return nil, nil
	}
	if prev.Type == sqltoken.Name && isNonAliasWord(prev) {
		return nil, nil
	}
	if prev.Type != sqltoken.Name && prev.Type != sqltoken.QuotedName && !prev.Is(sqltoken.Punctuation, ")") {
		return nil, nil
	}

	// A following "(" or "." means a call or a qualified name, not an alias.
	if next := nextToken(s.Tokens, s.TokenIndex); next != nil &&
		(next.Is(sqltoken.Punctuation, "(") || next.Is(sqltoken.Punctuation, ".")) {
		return nil, nil
	}

	if strings.EqualFold(strings.Trim(prev.Value, "`"), tok.Value) {
		return nil, nil
	}

	return lint.Found(s.Offset, "W000 Alias needs keywords")
}

// previousToken returns the nearest non-whitespace token before idx and
// whether whitespace separated the two.
func previousToken(tokens []sqltoken.Token, idx int) (*sqltoken.Token, bool) {
	spaced := false
	for i := idx - 1; i >= 0; i-- {
		if tokens[i].Type == sqltoken.Whitespace {
			spaced = true
			continue
		}
		return &tokens[i], spaced
	}
	return nil, spaced
}

// nextToken returns the nearest non-whitespace token after idx.
func nextToken(tokens []sqltoken.Token, idx int) *sqltoken.Token {
	for i := idx + 1; i < len(tokens); i++ {
		if tokens[i].Type != sqltoken.Whitespace {
			return &tokens[i]
		}
	}
	return nil
}
