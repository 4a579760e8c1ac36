package pretty

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NewTable returns a go-pretty table writer mirrored to w. Header colors
// follow the styles' color setting.
func NewTable(w io.Writer, styles *Styles) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	style := t.Style()
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	if styles != nil && styles.Enabled() {
		style.Color.Header = text.Colors{text.Bold}
		style.Color.Border = text.Colors{text.FgHiBlack}
		style.Color.Separator = text.Colors{text.FgHiBlack}
	}
	return t
}
