// Package render turns fetched result sets into text.
package render

import (
	"encoding/csv"
	"fmt"
	"strings"
	"unicode"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bawdo/isql/backend"
)

// RowSeparator ends every row in the default layout.
const RowSeparator = "-----------------------------"

// Render lays out rs according to cfg. The result ends with a newline unless
// it is empty.
func Render(rs *backend.ResultSet, cfg Config) string {
	if rs == nil || len(rs.Columns) == 0 {
		return ""
	}
	if cfg.CSV {
		return CSV(rs, cfg)
	}
	switch cfg.Method {
	case MethodTable:
		return renderTable(rs, cfg, tableStyle(cfg))
	case MethodStyled:
		return renderTable(rs, cfg, styledStyle(cfg))
	}
	return renderLines(rs)
}

func renderLines(rs *backend.ResultSet) string {
	var b strings.Builder
	for _, row := range rs.Rows {
		for i, v := range row {
			fmt.Fprintf(&b, "%s :: %s\n", rs.Columns[i], v)
		}
		b.WriteString(RowSeparator)
		b.WriteByte('\n')
	}
	return b.String()
}

// CSV renders rs as RFC 4180 records, header first when enabled.
func CSV(rs *backend.ResultSet, cfg Config) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if cfg.ShowHeader {
		_ = w.Write(headers(rs.Columns, cfg.HeaderCase))
	}
	for _, row := range rs.Rows {
		_ = w.Write(row)
	}
	w.Flush()
	return b.String()
}

func renderTable(rs *backend.ResultSet, cfg Config, style table.Style) string {
	w := table.NewWriter()
	w.SetStyle(style)

	if cfg.ShowHeader {
		hdr := headers(rs.Columns, cfg.HeaderCase)
		vs := make(table.Row, len(hdr))
		for i, h := range hdr {
			vs[i] = h
		}
		w.AppendHeader(vs)
	}
	for _, row := range rs.Rows {
		vs := make(table.Row, len(row))
		for i, v := range row {
			vs[i] = v
		}
		w.AppendRow(vs)
	}

	align := textAlign(cfg.Align)
	configs := make([]table.ColumnConfig, len(rs.Columns))
	for i := range rs.Columns {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: align}
	}
	w.SetColumnConfigs(configs)

	return w.Render() + "\n"
}

func tableStyle(cfg Config) table.Style {
	style := table.StyleDefault
	switch cfg.Style {
	case StyleMSWord:
		style.Name = "msword"
		style.Box.MiddleSeparator = "|"
		style.Box.LeftSeparator = "|"
		style.Box.RightSeparator = "|"
		style.Box.TopSeparator = "|"
		style.Box.BottomSeparator = "|"
	case StylePlain:
		style.Name = "plain"
		style.Options.DrawBorder = false
		style.Options.SeparateColumns = false
		style.Options.SeparateHeader = false
	}
	style.Format.Header = text.FormatDefault
	applyBorder(&style, cfg.ShowBorder)
	return style
}

func styledStyle(cfg Config) table.Style {
	style := table.StyleRounded
	style.Name = "styled"
	style.Color.Header = text.Colors{text.Bold}
	style.Color.Border = text.Colors{text.FgHiBlack}
	style.Color.Separator = text.Colors{text.FgHiBlack}
	style.Format.Header = text.FormatDefault
	applyBorder(&style, cfg.ShowBorder)
	return style
}

func applyBorder(style *table.Style, on bool) {
	if on {
		return
	}
	style.Options.DrawBorder = false
	style.Options.SeparateColumns = false
	style.Options.SeparateHeader = false
}

// headers applies the header case; go-pretty's own header formatting is
// switched off so the text is used as given.
func headers(columns []string, hc HeaderCase) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		switch hc {
		case HeaderCap:
			out[i] = capitalize(c)
		case HeaderTitle:
			out[i] = text.FormatTitle.Apply(c)
		case HeaderUpper:
			out[i] = strings.ToUpper(c)
		case HeaderLower:
			out[i] = strings.ToLower(c)
		default:
			out[i] = c
		}
	}
	return out
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func textAlign(a Align) text.Align {
	switch a {
	case AlignLeft:
		return text.AlignLeft
	case AlignRight:
		return text.AlignRight
	}
	return text.AlignCenter
}
