// Package sqltoken splits BigQuery-flavored SQL source into a lossless
// token stream.
//
// Every byte of the input belongs to exactly one token, so concatenating
// the Value of all tokens reproduces the input. Whitespace, newlines and
// comments are emitted as tokens of their own; lint rules skip them with
// Token.IsSignificant.
package sqltoken

import (
	"strings"
	"unicode/utf8"
)

// Type identifies the lexical category of a token.
type Type int

// Token types.
const (
	Error Type = iota
	Whitespace
	Newline
	Comment
	Keyword
	Name
	QuotedName
	String
	Number
	Operator
	Punctuation
	Parameter
)

//nolint:gochecknoglobals // lookup table for Type.String
var typeNames = map[Type]string{
	Error:       "error",
	Whitespace:  "whitespace",
	Newline:     "newline",
	Comment:     "comment",
	Keyword:     "keyword",
	Name:        "name",
	QuotedName:  "quoted_name",
	String:      "string",
	Number:      "number",
	Operator:    "operator",
	Punctuation: "punctuation",
	Parameter:   "parameter",
}

// String returns the lowercase name of the token type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Token is one lexical unit of SQL source.
type Token struct {
	Type  Type
	Value string

	// Normalized is the upper-cased value for keywords and the raw value
	// for everything else.
	Normalized string

	// IsKeyword reports whether the token is a reserved keyword.
	IsKeyword bool

	// Continued marks a block comment or triple-quoted string opened on an
	// earlier line.
	Continued bool
}

// String returns the raw token text.
func (t Token) String() string {
	return t.Value
}

// Len returns the token length in runes. Column offsets reported by lint
// rules are measured in runes.
func (t Token) Len() int {
	return utf8.RuneCountInString(t.Value)
}

// IsSignificant reports whether the token carries syntax, i.e. it is not
// whitespace, a newline or a comment.
func (t Token) IsSignificant() bool {
	switch t.Type {
	case Whitespace, Newline, Comment:
		return false
	default:
		return true
	}
}

// Is reports whether the token has the given type and value.
func (t Token) Is(typ Type, value string) bool {
	return t.Type == typ && t.Value == value
}

// IsOpenBracket reports whether the token opens a bracket pair.
func (t Token) IsOpenBracket() bool {
	return t.Type == Punctuation && (t.Value == "(" || t.Value == "[" || t.Value == "{")
}

// IsCloseBracket reports whether the token closes a bracket pair.
func (t Token) IsCloseBracket() bool {
	return t.Type == Punctuation && (t.Value == ")" || t.Value == "]" || t.Value == "}")
}

// Join concatenates the raw values of tokens.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Value)
	}
	return sb.String()
}

// Significant returns the tokens that are not whitespace, newlines or
// comments, preserving order.
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsSignificant() {
			out = append(out, tok)
		}
	}
	return out
}
