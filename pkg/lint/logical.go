package lint

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gobqlint/pkg/sqltoken"
)

// LogicalLine is a statement-level unit built from one or more physical
// lines. Comments and insignificant whitespace are dropped and string
// contents are replaced with "x" so rules never match inside literals.
type LogicalLine struct {
	// Text is the normalized source of the logical line.
	Text string

	// Tokens are the significant tokens, unmodified.
	Tokens []sqltoken.Token

	// Line is the physical line the logical line starts on.
	Line int

	mapping []logicalMapping
}

// logicalMapping ties a rune offset in Text to a physical position.
type logicalMapping struct {
	offset int
	line   int
	col    int
}

// Position maps a rune offset in Text to a physical line number and
// 0-based column.
func (l *LogicalLine) Position(offset int) (int, int) {
	if len(l.mapping) == 0 {
		return l.Line, offset
	}
	idx := sort.Search(len(l.mapping), func(i int) bool {
		return l.mapping[i].offset > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	m := l.mapping[idx]
	return m.line, m.col + offset - m.offset
}

type placedToken struct {
	tok  sqltoken.Token
	line int
	col  int
	gap  string // whitespace preceding the token on the same line
}

// logicalBuilder accumulates significant tokens until a statement ends.
type logicalBuilder struct {
	depth  int
	tokens []placedToken
}

// feed adds one physical line of tokens and returns the logical lines it
// completed. A logical line ends at a semicolon outside brackets or at a
// blank line outside brackets.
func (b *logicalBuilder) feed(lineNumber int, tokens []sqltoken.Token) []*LogicalLine {
	var done []*LogicalLine

	blank := true
	col := 0
	gap := ""
	skipSpace := false
	for _, tok := range tokens {
		switch tok.Type {
		case sqltoken.Whitespace:
			if !skipSpace {
				gap += tok.Value
			}
		case sqltoken.Comment:
			blank = false
			// A comment and the whitespace around it collapse to one space.
			gap = " "
			skipSpace = true
		case sqltoken.Newline:
		default:
			blank = false
			b.tokens = append(b.tokens, placedToken{tok: tok, line: lineNumber, col: col, gap: gap})
			gap = ""
			skipSpace = false
			b.track(tok)
			if b.depth == 0 && tok.Is(sqltoken.Punctuation, ";") {
				done = append(done, b.flush())
			}
		}
		col += tok.Len()
	}

	if blank && b.depth == 0 && len(b.tokens) > 0 {
		done = append(done, b.flush())
	}
	return done
}

func (b *logicalBuilder) track(tok sqltoken.Token) {
	switch {
	case tok.IsOpenBracket():
		b.depth++
	case tok.IsCloseBracket():
		if b.depth > 0 {
			b.depth--
		}
	}
}

// flush builds a logical line from the buffered tokens and resets the
// buffer. It returns nil when nothing is buffered.
func (b *logicalBuilder) flush() *LogicalLine {
	if len(b.tokens) == 0 {
		return nil
	}

	line := &LogicalLine{
		Line:    b.tokens[0].line,
		Tokens:  make([]sqltoken.Token, 0, len(b.tokens)),
		mapping: make([]logicalMapping, 0, len(b.tokens)),
	}

	var sb strings.Builder
	length := 0
	for i, pt := range b.tokens {
		if i > 0 {
			sep := separator(b.tokens[i-1], pt)
			sb.WriteString(sep)
			length += utf8.RuneCountInString(sep)
		}

		text := pt.tok.Value
		if pt.tok.Type == sqltoken.String {
			text = muteString(text)
		}
		line.mapping = append(line.mapping, logicalMapping{offset: length, line: pt.line, col: pt.col})
		line.Tokens = append(line.Tokens, pt.tok)
		sb.WriteString(text)
		length += utf8.RuneCountInString(text)
	}
	line.Text = sb.String()

	b.tokens = b.tokens[:0]
	b.depth = 0
	return line
}

// separator returns the text placed between two adjacent tokens of a
// logical line. Tokens on the same physical line keep their original
// spacing. Across a line break a single space is used, except after an
// opening bracket or before a closing one. A comma is always followed by
// a space.
func separator(prev, cur placedToken) string {
	if prev.line == cur.line {
		return cur.gap
	}
	if prev.tok.Is(sqltoken.Punctuation, ",") {
		return " "
	}
	if prev.tok.IsOpenBracket() || cur.tok.IsCloseBracket() {
		return ""
	}
	return " "
}

// muteString replaces the contents of a string literal with "x", keeping
// its prefix and quotes.
func muteString(value string) string {
	start := strings.IndexAny(value, `'"`)
	if start < 0 {
		return value
	}

	quote := value[start : start+1]
	if strings.HasPrefix(value[start:], strings.Repeat(quote, 3)) {
		quote = strings.Repeat(quote, 3)
	}

	bodyStart := start + len(quote)
	bodyEnd := len(value)
	if len(value) >= bodyStart+len(quote) && strings.HasSuffix(value, quote) {
		bodyEnd = len(value) - len(quote)
	}

	body := value[bodyStart:bodyEnd]
	return value[:bodyStart] + strings.Repeat("x", utf8.RuneCountInString(body)) + value[bodyEnd:]
}
