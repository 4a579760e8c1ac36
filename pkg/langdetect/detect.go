// Package langdetect sniffs file content to decide whether a file with no
// recognizable name holds SQL. It uses go-enry for shebangs, binary
// detection and classification, and the SQL tokenizer for statement
// openers.
package langdetect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/gobqlint/pkg/sqltoken"
)

// SniffLimit is the number of leading bytes read by DetectFile.
const SniffLimit = 8 << 10

// Language names returned by Detect.
const (
	LangSQL    = "sql"
	LangText   = "text"
	LangBinary = "binary"
	langGo     = "go"
	langJSON   = "json"
	langBash   = "bash"
)

// statementOpeners are the keywords a BigQuery script or query starts with.
//
//nolint:gochecknoglobals // static lookup table
var statementOpeners = map[string]struct{}{
	"SELECT": {}, "WITH": {}, "INSERT": {}, "UPDATE": {}, "DELETE": {},
	"MERGE": {}, "CREATE": {}, "ALTER": {}, "DROP": {}, "DECLARE": {},
	"BEGIN": {}, "SET": {}, "TRUNCATE": {},
}

// Detect returns the detected language for content: "sql", "text",
// "binary" or a lower-case enry language name.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return LangText
	}

	if enry.IsBinary(content) {
		return LangBinary
	}

	// Shebang first; it is the most reliable signal.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if startsWithStatement(content) {
		return LangSQL
	}

	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	candidates := []string{
		"SQL", "PLSQL", "PLpgSQL", "TSQL", "Go", "Python", "Shell",
		"JavaScript", "Ruby", "JSON", "YAML", "Markdown",
	}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang)
	}

	return LangText
}

// IsSQL reports whether content looks like SQL.
func IsSQL(content []byte) bool {
	return Detect(content) == LangSQL
}

// DetectFile reads the head of the file at path and detects its language.
func DetectFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from target discovery
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, SniffLimit)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return Detect(head[:n]), nil
}

// startsWithStatement reports whether the first significant token, after
// any comments, is a keyword that opens a statement.
func startsWithStatement(content []byte) bool {
	for _, tok := range sqltoken.Tokenize(string(content)) {
		if !tok.IsSignificant() {
			continue
		}
		if !tok.IsKeyword {
			return false
		}
		_, ok := statementOpeners[tok.Normalized]
		return ok
	}
	return false
}

// detectByPattern recognizes a few formats that the classifier tends to
// confuse with SQL.
func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)

	if bytes.HasPrefix(trimmed, []byte("package ")) {
		return langGo
	}
	if (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`"`)) {
		return langJSON
	}
	return ""
}

// normalize converts go-enry language names to lower-case identifiers.
// Every SQL dialect enry knows counts as SQL.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return langBash
	case "SQL", "PLSQL", "PLpgSQL", "TSQL", "SQLPL":
		return LangSQL
	}
	return strings.ToLower(lang)
}
