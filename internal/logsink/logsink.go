// Package logsink writes the append-only session log: every executed
// statement and every error, stamped with the time and the acting user.
package logsink

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bawdo/isql/internal/failure"
)

// FileName is the active log file inside the log directory.
const FileName = "isql.log"

type Config struct {
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	Level      string
}

// Sink owns the rotating log file.
type Sink struct {
	lj     *lumberjack.Logger
	logger *slog.Logger
}

// Open starts logging to cfg.Dir/isql.log, rotating at MaxSizeMB and keeping
// MaxBackups old files. Every record carries user.
func Open(cfg Config, user string) (*Sink, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, failure.Resource(err, "create log directory %s", cfg.Dir)
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 1
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 5
	}
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, failure.Input("unknown log level %q", cfg.Level)
		}
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, FileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}
	h := slog.NewTextHandler(lj, &slog.HandlerOptions{Level: level})
	return &Sink{lj: lj, logger: slog.New(h).With("user", user)}, nil
}

// Logger returns the sink's logger.
func (s *Sink) Logger() *slog.Logger { return s.logger }

// Path returns the active log file.
func (s *Sink) Path() string { return s.lj.Filename }

// Close flushes and closes the log file.
func (s *Sink) Close() error { return s.lj.Close() }

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
