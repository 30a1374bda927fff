package render

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/isql/internal/failure"
)

func TestParseMethod(t *testing.T) {
	tests := map[string]Method{
		"default": MethodDefault,
		"TABLE":   MethodTable,
		"pretty":  MethodTable,
		"styled":  MethodStyled,
		"rich":    MethodStyled,
	}
	for in, want := range tests {
		got, err := ParseMethod(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseMethod("fancy")
	require.True(t, errors.Is(err, failure.ErrInput))
}

func TestParseStyle(t *testing.T) {
	tests := map[string]Style{
		"default":         StyleDefault,
		"MSWORD_FRIENDLY": StyleMSWord,
		"msword":          StyleMSWord,
		"plain_columns":   StylePlain,
	}
	for in, want := range tests {
		got, err := ParseStyle(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseStyle("gothic")
	require.Error(t, err)
}

func TestParseAlign(t *testing.T) {
	tests := map[string]Align{
		"l": AlignLeft, "LEFT": AlignLeft,
		"r": AlignRight, "right": AlignRight,
		"c": AlignCenter, "center": AlignCenter,
	}
	for in, want := range tests {
		got, err := ParseAlign(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseAlign("justify")
	require.Error(t, err)
}

func TestParseHeaderCase(t *testing.T) {
	tests := map[string]HeaderCase{
		"cap": HeaderCap, "Title": HeaderTitle, "upper": HeaderUpper,
		"lower": HeaderLower, "none": HeaderNone, "": HeaderNone,
	}
	for in, want := range tests {
		got, err := ParseHeaderCase(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseHeaderCase("snake")
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, MethodDefault, cfg.Method)
	require.True(t, cfg.ShowHeader)
	require.True(t, cfg.ShowBorder)
	require.False(t, cfg.CSV)
	require.False(t, cfg.Pager)
}
