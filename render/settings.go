package render

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Setting is one row of a settings listing.
type Setting struct {
	Name  string
	Value string
}

// Settings renders name/value pairs as a two-column table.
func Settings(settings []Setting) string {
	w := table.NewWriter()
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	w.SetStyle(style)
	w.AppendHeader(table.Row{"Setting", "Value"})
	for _, s := range settings {
		w.AppendRow(table.Row{s.Name, s.Value})
	}
	return w.Render() + "\n"
}
