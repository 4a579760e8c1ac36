package pretty

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/yaklabco/gobqlint/pkg/lint"
)

// FormatDiagnostic formats a diagnostic as path:line:column:class message.
// Without color the result is exactly lint.Diagnostic.String.
func (s *Styles) FormatDiagnostic(d lint.Diagnostic) string {
	if !s.enabled {
		return d.String()
	}

	class := d.Class()
	return fmt.Sprintf("%s%s%s %s %s",
		s.Render(s.FilePath, d.Path),
		s.Render(s.Location, fmt.Sprintf(":%d:%d:", d.Line, d.Column())),
		s.Render(s.ClassStyle(class), class),
		s.Render(s.Code, d.Code()),
		s.Render(s.Message, d.Text()),
	)
}

// FormatSource renders the right-stripped source line followed by a caret
// under the column at offset. Characters before the caret become spaces,
// except whitespace, which is kept so tabs stay aligned.
func (s *Styles) FormatSource(line string, offset int) string {
	var builder strings.Builder
	builder.WriteString(s.Render(s.SourceLine, strings.TrimRightFunc(line, unicode.IsSpace)))
	builder.WriteString("\n")
	builder.WriteString(CaretPadding(line, offset))
	builder.WriteString(s.Render(s.Caret, "^"))
	builder.WriteString("\n")
	return builder.String()
}

// FormatDoc renders a rule description, one output line per text line.
func (s *Styles) FormatDoc(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}

	var builder strings.Builder
	for _, line := range strings.Split(doc, "\n") {
		builder.WriteString(s.Render(s.Doc, strings.TrimRight(line, " \t")))
		builder.WriteString("\n")
	}
	return builder.String()
}

// CaretPadding returns offset characters of padding: the runes of line
// with every non-space rune replaced by a space, then plain spaces past
// its end.
func CaretPadding(line string, offset int) string {
	var builder strings.Builder
	runes := []rune(line)
	for i := range offset {
		if i < len(runes) && unicode.IsSpace(runes[i]) {
			builder.WriteRune(runes[i])
		} else {
			builder.WriteByte(' ')
		}
	}
	return builder.String()
}
