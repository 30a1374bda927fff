// Package config loads the client's YAML settings file and prepares the
// ~/.isql home tree.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/bawdo/isql/internal/failure"
	"github.com/bawdo/isql/render"
)

// FileName is the settings file inside the home directory.
const FileName = "isql.yaml"

// DefaultPrompt shows type, server, user, database and line number.
const DefaultPrompt = "[$t|$s|$u|$d]::$n>"

type Config struct {
	General GeneralConfig `yaml:"general"`
	Prompt  PromptConfig  `yaml:"prompt"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
}

type GeneralConfig struct {
	// Snippets is the snippet root, relative to the home directory unless absolute.
	Snippets string `yaml:"snippets"`
}

type PromptConfig struct {
	Format string `yaml:"format"`
	ViMode bool   `yaml:"vi_mode"`
}

type OutputConfig struct {
	Method string `yaml:"method"`
	Style  string `yaml:"style"`
	Align  string `yaml:"align"`
	HCaps  string `yaml:"hcaps"`
	Header bool   `yaml:"header"`
	Border bool   `yaml:"border"`
	CSV    bool   `yaml:"csv"`
	Pager  bool   `yaml:"pager"`
}

type LogConfig struct {
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Level      string `yaml:"level"`
}

// Default returns the settings written on first start.
func Default() *Config {
	return &Config{
		General: GeneralConfig{Snippets: "snippets"},
		Prompt:  PromptConfig{Format: DefaultPrompt},
		Output: OutputConfig{
			Method: string(render.MethodDefault),
			Style:  string(render.StyleDefault),
			Align:  string(render.AlignCenter),
			HCaps:  string(render.HeaderNone),
			Header: true,
			Border: true,
		},
		Log: LogConfig{MaxSizeMB: 1, MaxBackups: 5, Level: "info"},
	}
}

// Home returns the client's home directory: $ISQL_HOME, or ~/.isql.
func Home() (string, error) {
	if h := os.Getenv("ISQL_HOME"); h != "" {
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", failure.Resource(err, "locate home directory")
	}
	return filepath.Join(home, ".isql"), nil
}

// EnsureHome creates home and its logs and snippets directories.
func EnsureHome(home string) error {
	for _, dir := range []string{home, LogDir(home), filepath.Join(home, "snippets")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return failure.Resource(err, "create %s", dir)
		}
	}
	return nil
}

// LogDir returns the log directory under home.
func LogDir(home string) string { return filepath.Join(home, "logs") }

// Path returns the settings file path under home.
func Path(home string) string { return filepath.Join(home, FileName) }

// Load reads the settings file at path. A missing file is created with the
// defaults. Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, failure.Resource(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, failure.Input("parse config %s: %v", path, err)
	}
	if cfg.Prompt.Format == "" {
		cfg.Prompt.Format = DefaultPrompt
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return failure.Resource(err, "write config %s", path)
	}
	return nil
}

// SnippetRoot resolves the snippet root against home.
func (c *Config) SnippetRoot(home string) string {
	if filepath.IsAbs(c.General.Snippets) {
		return c.General.Snippets
	}
	return filepath.Join(home, c.General.Snippets)
}

// RenderConfig converts the output section into render settings.
func (c *Config) RenderConfig() (render.Config, error) {
	out := render.Config{
		ShowHeader: c.Output.Header,
		ShowBorder: c.Output.Border,
		CSV:        c.Output.CSV,
		Pager:      c.Output.Pager,
	}
	var err error
	if out.Method, err = render.ParseMethod(c.Output.Method); err != nil {
		return render.Config{}, errors.Wrap(err, "output.method")
	}
	if out.Style, err = render.ParseStyle(c.Output.Style); err != nil {
		return render.Config{}, errors.Wrap(err, "output.style")
	}
	if out.Align, err = render.ParseAlign(c.Output.Align); err != nil {
		return render.Config{}, errors.Wrap(err, "output.align")
	}
	if out.HeaderCase, err = render.ParseHeaderCase(c.Output.HCaps); err != nil {
		return render.Config{}, errors.Wrap(err, "output.hcaps")
	}
	return out, nil
}
