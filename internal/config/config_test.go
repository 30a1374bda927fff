package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/isql/internal/failure"
	"github.com/bawdo/isql/render"
)

func TestLoadWritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("output:\n  method: pretty\n  csv: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "pretty", cfg.Output.Method)
	require.True(t, cfg.Output.CSV)
	require.True(t, cfg.Output.Header)
	require.Equal(t, DefaultPrompt, cfg.Prompt.Format)
	require.Equal(t, 5, cfg.Log.MaxBackups)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("output: [unterminated\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, errors.Is(err, failure.ErrInput))
}

func TestEnsureHome(t *testing.T) {
	home := filepath.Join(t.TempDir(), ".isql")
	require.NoError(t, EnsureHome(home))
	for _, dir := range []string{home, LogDir(home), filepath.Join(home, "snippets")} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestHomeFromEnvironment(t *testing.T) {
	t.Setenv("ISQL_HOME", "/tmp/isql-test-home")
	home, err := Home()
	require.NoError(t, err)
	require.Equal(t, "/tmp/isql-test-home", home)
}

func TestSnippetRoot(t *testing.T) {
	cfg := Default()
	require.Equal(t, "/home/u/.isql/snippets", cfg.SnippetRoot("/home/u/.isql"))
	cfg.General.Snippets = "/opt/snippets"
	require.Equal(t, "/opt/snippets", cfg.SnippetRoot("/home/u/.isql"))
}

func TestRenderConfig(t *testing.T) {
	cfg := Default()
	cfg.Output.Method = "rich"
	cfg.Output.Style = "msword_friendly"
	cfg.Output.Align = "l"
	cfg.Output.HCaps = "upper"
	cfg.Output.Pager = true

	got, err := cfg.RenderConfig()
	require.NoError(t, err)
	require.Equal(t, render.Config{
		Method:     render.MethodStyled,
		Style:      render.StyleMSWord,
		Align:      render.AlignLeft,
		HeaderCase: render.HeaderUpper,
		ShowHeader: true,
		ShowBorder: true,
		Pager:      true,
	}, got)
}

func TestRenderConfigRejectsUnknownMethod(t *testing.T) {
	cfg := Default()
	cfg.Output.Method = "hologram"
	_, err := cfg.RenderConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "output.method")
}
