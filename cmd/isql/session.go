package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ergochat/readline"

	"github.com/bawdo/isql/backend"
	"github.com/bawdo/isql/cache"
	"github.com/bawdo/isql/internal/config"
	"github.com/bawdo/isql/internal/failure"
	"github.com/bawdo/isql/internal/logsink"
	"github.com/bawdo/isql/render"
	"github.com/bawdo/isql/snippets"
)

// ErrExit is returned by Execute when the operator asks to leave.
var ErrExit = errors.New("exit")

var errNotConnected = errors.Mark(errors.New("not connected (use 'connect' to reconnect)"), failure.ErrConnection)

// Session holds everything that survives between input lines: the pending
// statement buffer, history, output settings and the live connection.
type Session struct {
	db      backend.Database
	profile *backend.Profile
	params  backend.Params

	connMu      sync.Mutex // guards conn and cancel
	conn        backend.Conn
	cancel      context.CancelFunc // in-flight statement, nil when idle
	reconnectMu sync.Mutex

	buffer      string
	lineNo      int
	history     []string
	interrupted atomic.Bool
	lastError   bool
	wake        chan struct{}

	cache        *cache.Cache
	snippets     *snippets.Store
	output       render.Config
	outputFile   string
	promptFormat string
	quiet        bool
	terminal     bool   // stdout is a terminal; enables the pager
	configPath   string // reloaded by reparse
	inputDepth   int

	commands      []commandEntry
	outputOptions []outputOption

	log         *slog.Logger
	out         io.Writer
	errOut      io.Writer
	rl          lineReader // nil when input is not interactive
	shownPrompt string

	ask       func(label string) (string, error)
	runShell  func(command string) error
	runEditor func(path string) error
	runPager  func(text string) error
	after     func(time.Duration) <-chan time.Time
}

// lineReader is the part of the line editor a session prompts through.
type lineReader interface {
	SetPrompt(prompt string)
	ReadLine() (string, error)
}

// NewSession creates a session for one backend profile. It does not connect.
func NewSession(db backend.Database, profile *backend.Profile, params backend.Params, rl *readline.Instance) *Session {
	s := &Session{
		db:           db,
		profile:      profile,
		params:       profile.WithDefaults(params),
		lineNo:       1,
		wake:         make(chan struct{}, 1),
		cache:        cache.New(""),
		snippets:     snippets.Empty(),
		output:       render.DefaultConfig(),
		promptFormat: config.DefaultPrompt,
		log:          logsink.Discard(),
		out:          os.Stdout,
		errOut:       os.Stderr,
		after:        time.After,
	}
	if rl != nil {
		s.rl = rl
	}
	s.ask = s.readValue
	s.runShell = runShellCommand
	s.runEditor = runEditorCommand
	s.runPager = s.pageText
	s.initCommands()
	s.initOutputOptions()
	return s
}

// Execute classifies one input line and acts on it.
func (s *Session) Execute(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	switch trimmed[0] {
	case '!':
		return s.recallHistory(trimmed[1:])
	case ':':
		return s.setOutputOption(trimmed)
	case '@':
		return s.shellEscape(trimmed[1:])
	case '#':
		return s.insertSnippet(strings.TrimSpace(trimmed[1:]))
	}

	if strings.EqualFold(trimmed, "exit") {
		return ErrExit
	}

	word, args := splitCommand(trimmed)
	if cmd, ok := s.lookupCommand(word); ok {
		return cmd.handler(args)
	}

	s.appendLine(strings.TrimRight(line, "\r\n"))
	return nil
}

// appendLine adds one line to the pending statement.
func (s *Session) appendLine(line string) {
	s.buffer += line + "\n"
	s.lineNo++
}

// replaceBuffer swaps in new statement text, as history recall and file
// loading do, and echoes it.
func (s *Session) replaceBuffer(text string, lineNo int) {
	s.buffer = text
	s.lineNo = lineNo
	s.echo(text)
}

func (s *Session) clearBuffer() {
	s.buffer = ""
	s.lineNo = 1
}

func (s *Session) echo(text string) {
	_, _ = fmt.Fprint(s.out, text)
	if !strings.HasSuffix(text, "\n") {
		_, _ = fmt.Fprintln(s.out)
	}
}

// notice prints an informational message unless quiet, and logs it.
func (s *Session) notice(msg string) {
	if !s.quiet {
		_, _ = fmt.Fprintf(s.out, "  %s\n", msg)
	}
	s.log.Info(msg)
}

// serverMessage shows an informational message raised by the server.
func (s *Session) serverMessage(m backend.Message) {
	if m.State != 0 && m.Severity != 0 {
		s.notice(fmt.Sprintf("state=%d, sev=%d", m.State, m.Severity))
	}
	s.notice(m.String())
}

// ReportError prints err for the operator and records it in the log.
func (s *Session) ReportError(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintf(s.errOut, "  Error: %v\n", err)
	attrs := []any{"class", failure.Class(err), "err", err.Error()}

	var ee *backend.ExecutionError
	if errors.As(err, &ee) {
		_, _ = fmt.Fprintf(s.errOut, "  Error generated by %s\n", strings.TrimRight(ee.Statement, "\n"))
		attrs = append(attrs, "sql", ee.Statement, "kind", ee.Kind.String())
	}
	s.log.Error("command failed", attrs...)
}

// Connect opens the session's connection, replacing any existing one.
func (s *Session) Connect(ctx context.Context) error {
	s.reconnectMu.Lock()
	defer s.reconnectMu.Unlock()

	s.connMu.Lock()
	old := s.conn
	s.conn = nil
	s.connMu.Unlock()
	if old != nil {
		s.log.Info("disconnecting from server")
		if err := old.Close(); err != nil {
			s.log.Warn("close connection", "err", err.Error())
		}
	}

	s.log.Info("establishing connection to server", "type", s.profile.Type, "server", s.params.Server, "database", s.params.Database)
	conn, err := s.db.Connect(ctx, s.params)
	if err != nil {
		return err
	}
	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
	return nil
}

// reconnect reopens the connection after it was lost or abandoned.
func (s *Session) reconnect() error {
	if err := s.Connect(context.Background()); err != nil {
		s.log.Error("reconnect failed", "err", err.Error())
		return err
	}
	return nil
}

// Close releases the connection and the output cache.
func (s *Session) Close() {
	s.connMu.Lock()
	conn := s.conn
	s.conn = nil
	s.connMu.Unlock()
	if conn != nil {
		s.log.Info("disconnecting from server")
		if err := conn.Close(); err != nil {
			s.log.Warn("close connection", "err", err.Error())
		}
	}
	if err := s.cache.Remove(); err != nil {
		s.log.Warn("remove output cache", "err", err.Error())
	}
}

// beginStatement registers cancel for the statement about to run and returns
// the connection to run it on.
func (s *Session) beginStatement(cancel context.CancelFunc) backend.Conn {
	// Waits for a reconnect started by an interrupt to finish.
	s.reconnectMu.Lock()
	defer s.reconnectMu.Unlock()

	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.cancel = cancel
	return s.conn
}

func (s *Session) endStatement() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Interrupt abandons the statement in flight, if any, and reopens the
// connection. It is called from the signal goroutine.
func (s *Session) Interrupt() {
	s.log.Warn("interrupt received")
	s.interrupted.Store(true)

	s.connMu.Lock()
	cancel := s.cancel
	s.connMu.Unlock()

	if cancel != nil {
		cancel()
	}
	_ = s.reconnect()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pause waits d, returning early on interrupt.
func (s *Session) pause(d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-s.after(d):
	case <-s.wake:
	}
}

// currentDatabase asks the server which database is in use, reconnecting
// once if the connection turns out to be gone.
func (s *Session) currentDatabase() string {
	for attempt := 0; attempt < 2; attempt++ {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()
		if conn == nil {
			return ""
		}
		name, err := conn.CurrentDatabase(context.Background())
		if err == nil {
			return name
		}
		if !backend.IsConnectionLost(err) {
			s.log.Warn("current database", "err", err.Error())
			return ""
		}
		if s.reconnect() != nil {
			return ""
		}
	}
	return ""
}

// splitCommand separates the first word of line from the rest.
func splitCommand(line string) (word, args string) {
	line = strings.TrimSpace(line)
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}
