package sqltoken

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	singleQuote       = '\''
	doubleQuote       = '"'
	backtick          = '`'
	blockCommentClose = "*/"
	punctuationChars  = "()[]{},;.:"
	operatorChars     = "+-*/%=<>!|&^~"
)

//nolint:gochecknoglobals // two-character operators, longest match first
var twoCharOperators = []string{"<=", ">=", "<>", "!=", "||", "<<", ">>", "=>"}

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingBlockComment
	pendingTripleString
)

// Scanner tokenizes source one physical line at a time. Block comments and
// triple-quoted strings may span lines; the scanner remembers that it is
// inside one and resumes it on the next call to ScanLine.
//
// A Scanner is not safe for concurrent use.
type Scanner struct {
	pending pendingKind
	delim   string
	prev    Token
}

// NewScanner returns a scanner positioned at the start of a file.
func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanLine tokenizes line, which normally carries its own line terminator.
// Input containing several lines is accepted too.
func (s *Scanner) ScanLine(line string) []Token {
	lx := &lexer{input: line, scanner: s}
	return lx.run()
}

// InBlock reports whether the scanner stopped inside a multi-line block
// comment or string.
func (s *Scanner) InBlock() bool {
	return s.pending != pendingNone
}

// Reset returns the scanner to its initial state.
func (s *Scanner) Reset() {
	*s = Scanner{}
}

// Tokenize splits input into tokens using a fresh Scanner.
func Tokenize(input string) []Token {
	return NewScanner().ScanLine(input)
}

type lexer struct {
	input   string
	pos     int
	tokens  []Token
	scanner *Scanner
}

func (l *lexer) run() []Token {
	if l.scanner.pending != pendingNone {
		l.resume()
	}
	for l.pos < len(l.input) {
		l.next()
	}
	return l.tokens
}

// resume finishes a block comment or triple-quoted string left open by the
// previous line.
func (l *lexer) resume() {
	typ := Comment
	escapes := false
	if l.scanner.pending == pendingTripleString {
		typ = String
		escapes = true
	}

	end, found := l.scanUntil(0, l.scanner.delim, escapes, false)
	l.emit(typ, end)
	l.tokens[len(l.tokens)-1].Continued = true
	if found {
		l.scanner.pending = pendingNone
		l.scanner.delim = ""
	}
}

func (l *lexer) next() {
	ch := l.input[l.pos]

	switch {
	case ch == '\n':
		l.emit(Newline, l.pos+1)
	case ch == '\r':
		end := l.pos + 1
		if end < len(l.input) && l.input[end] == '\n' {
			end++
		}
		l.emit(Newline, end)
	case isSpace(ch):
		end := l.pos
		for end < len(l.input) && isSpace(l.input[end]) {
			end++
		}
		l.emit(Whitespace, end)
	case ch == '#', ch == '-' && l.peek(1) == '-':
		l.lineComment()
	case ch == '/' && l.peek(1) == '*':
		l.blockComment()
	case ch == singleQuote, ch == doubleQuote:
		l.stringLiteral(l.pos)
	case ch == backtick:
		l.quotedName()
	case isDigit(ch), ch == '.' && isDigit(l.peek(1)) && !l.prevIsOperand():
		l.number()
	case ch == '@':
		l.parameter()
	case ch == '?':
		l.emit(Parameter, l.pos+1)
	case strings.IndexByte(punctuationChars, ch) >= 0:
		l.emit(Punctuation, l.pos+1)
	case strings.IndexByte(operatorChars, ch) >= 0:
		l.operator()
	default:
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if isIdentStart(r) {
			l.word()
			return
		}
		l.emit(Error, l.pos+size)
	}
}

// emit appends the token spanning [l.pos, end) and advances.
func (l *lexer) emit(typ Type, end int) {
	value := l.input[l.pos:end]
	tok := Token{Type: typ, Value: value, Normalized: value}
	if typ == Keyword {
		tok.Normalized = strings.ToUpper(value)
		tok.IsKeyword = true
	}
	if tok.IsSignificant() {
		l.scanner.prev = tok
	}
	l.tokens = append(l.tokens, tok)
	l.pos = end
}

func (l *lexer) peek(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *lexer) lineComment() {
	end := strings.IndexAny(l.input[l.pos:], "\r\n")
	if end < 0 {
		l.emit(Comment, len(l.input))
		return
	}
	l.emit(Comment, l.pos+end)
}

func (l *lexer) blockComment() {
	end, found := l.scanUntil(l.pos+2, blockCommentClose, false, false)
	if !found {
		l.scanner.pending = pendingBlockComment
		l.scanner.delim = blockCommentClose
	}
	l.emit(Comment, end)
}

// stringLiteral scans a string whose opening quote is at quoteAt. The token
// starts at l.pos so that an r or b prefix stays part of it.
func (l *lexer) stringLiteral(quoteAt int) {
	q := l.input[quoteAt]
	delim := string(q)
	if triple := strings.Repeat(delim, 3); strings.HasPrefix(l.input[quoteAt:], triple) {
		delim = triple
	}

	multiline := len(delim) == 3
	end, found := l.scanUntil(quoteAt+len(delim), delim, true, !multiline)
	if !found && multiline {
		l.scanner.pending = pendingTripleString
		l.scanner.delim = delim
	}
	l.emit(String, end)
}

func (l *lexer) quotedName() {
	end, _ := l.scanUntil(l.pos+1, string(backtick), true, true)
	l.emit(QuotedName, end)
}

// scanUntil looks for delim starting at from. It returns the offset just
// past delim and true, or the offset where scanning stopped and false.
func (l *lexer) scanUntil(from int, delim string, escapes, stopAtNewline bool) (int, bool) {
	i := from
	for i < len(l.input) {
		c := l.input[i]
		switch {
		case escapes && c == '\\':
			i += 2
			continue
		case stopAtNewline && (c == '\n' || c == '\r'):
			return i, false
		case strings.HasPrefix(l.input[i:], delim):
			return i + len(delim), true
		}
		i++
	}
	return len(l.input), false
}

func (l *lexer) number() {
	end := l.pos
	if l.input[end] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') && isHexDigit(l.peek(2)) {
		end += 2
		for end < len(l.input) && isHexDigit(l.input[end]) {
			end++
		}
		l.emit(Number, end)
		return
	}

	end = l.skipDigits(end)
	if end < len(l.input) && l.input[end] == '.' {
		end = l.skipDigits(end + 1)
	}
	if end < len(l.input) && (l.input[end] == 'e' || l.input[end] == 'E') {
		exp := end + 1
		if exp < len(l.input) && (l.input[exp] == '+' || l.input[exp] == '-') {
			exp++
		}
		if exp < len(l.input) && isDigit(l.input[exp]) {
			end = l.skipDigits(exp)
		}
	}
	l.emit(Number, end)
}

func (l *lexer) skipDigits(from int) int {
	for from < len(l.input) && isDigit(l.input[from]) {
		from++
	}
	return from
}

func (l *lexer) parameter() {
	end := l.pos + 1
	if end < len(l.input) && l.input[end] == '@' {
		end++
	}
	l.emit(Parameter, l.scanIdent(end))
}

func (l *lexer) operator() {
	for _, op := range twoCharOperators {
		if strings.HasPrefix(l.input[l.pos:], op) {
			l.emit(Operator, l.pos+len(op))
			return
		}
	}
	l.emit(Operator, l.pos+1)
}

func (l *lexer) word() {
	end := l.scanIdent(l.pos)
	word := l.input[l.pos:end]

	if end < len(l.input) && (l.input[end] == singleQuote || l.input[end] == doubleQuote) && isStringPrefix(word) {
		l.stringLiteral(end)
		return
	}

	if IsKeyword(word) && !l.scanner.prev.Is(Punctuation, ".") {
		l.emit(Keyword, end)
		return
	}
	l.emit(Name, end)
}

func (l *lexer) scanIdent(from int) int {
	for from < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[from:])
		if !isIdentPart(r) {
			break
		}
		from += size
	}
	return from
}

// prevIsOperand reports whether the token right before the cursor can be
// followed by a member access, as in t.col or arr[0].field.
func (l *lexer) prevIsOperand() bool {
	if len(l.tokens) == 0 {
		return false
	}
	prev := l.tokens[len(l.tokens)-1]
	switch prev.Type {
	case Name, QuotedName:
		return true
	case Punctuation:
		return prev.IsCloseBracket()
	default:
		return false
	}
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "b", "rb", "br":
		return true
	default:
		return false
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
