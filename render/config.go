package render

import (
	"strings"

	"github.com/bawdo/isql/internal/failure"
)

// Method selects how a result set is laid out.
type Method string

const (
	// MethodDefault prints one "column :: value" line per cell.
	MethodDefault Method = "default"
	// MethodTable draws a bordered table.
	MethodTable Method = "table"
	// MethodStyled draws a rounded, colored table.
	MethodStyled Method = "styled"
)

// Style is the table style used by MethodTable.
type Style string

const (
	StyleDefault Style = "default"
	StyleMSWord  Style = "msword"
	StylePlain   Style = "plain"
)

// Align is the horizontal alignment of table cells.
type Align string

const (
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// HeaderCase is the capitalization applied to column headers.
type HeaderCase string

const (
	HeaderNone  HeaderCase = "none"
	HeaderCap   HeaderCase = "cap"
	HeaderTitle HeaderCase = "title"
	HeaderUpper HeaderCase = "upper"
	HeaderLower HeaderCase = "lower"
)

// Config holds the output settings that can be changed at runtime.
type Config struct {
	Method     Method
	Style      Style
	Align      Align
	HeaderCase HeaderCase
	ShowHeader bool
	ShowBorder bool
	CSV        bool
	Pager      bool
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Method:     MethodDefault,
		Style:      StyleDefault,
		Align:      AlignCenter,
		HeaderCase: HeaderNone,
		ShowHeader: true,
		ShowBorder: true,
	}
}

// ParseMethod accepts a method name or one of its aliases.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default":
		return MethodDefault, nil
	case "table", "pretty":
		return MethodTable, nil
	case "styled", "rich":
		return MethodStyled, nil
	}
	return "", failure.Input("unknown output method %q (default, table, styled)", s)
}

// ParseStyle accepts a table style name or one of its aliases.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default":
		return StyleDefault, nil
	case "msword", "msword_friendly":
		return StyleMSWord, nil
	case "plain", "plain_columns":
		return StylePlain, nil
	}
	return "", failure.Input("unknown output style %q (default, msword, plain)", s)
}

// ParseAlign accepts left/right/center or their first letter.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left":
		return AlignLeft, nil
	case "r", "right":
		return AlignRight, nil
	case "c", "center", "centre":
		return AlignCenter, nil
	}
	return "", failure.Input("unknown alignment %q (left, right, center)", s)
}

// ParseHeaderCase accepts a header capitalization rule.
func ParseHeaderCase(s string) (HeaderCase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return HeaderNone, nil
	case "cap":
		return HeaderCap, nil
	case "title":
		return HeaderTitle, nil
	case "upper":
		return HeaderUpper, nil
	case "lower":
		return HeaderLower, nil
	}
	return "", failure.Input("unknown header case %q (cap, title, upper, lower, none)", s)
}
