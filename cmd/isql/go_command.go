package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/ergochat/readline"

	"github.com/bawdo/isql/backend"
	"github.com/bawdo/isql/internal/failure"
	"github.com/bawdo/isql/placeholder"
	"github.com/bawdo/isql/render"
)

// goArgs holds the modifiers of a go command.
type goArgs struct {
	repeat int
	wait   time.Duration
	file   string
}

// parseGoArgs accepts "", "N", "N wait S" and "> path".
func parseGoArgs(args string) (goArgs, error) {
	g := goArgs{repeat: 1}
	args = strings.TrimSpace(args)
	if args == "" {
		return g, nil
	}
	if strings.HasPrefix(args, ">") {
		g.file = strings.TrimSpace(args[1:])
		if g.file == "" {
			return g, failure.Input("usage: go > <file>")
		}
		return g, nil
	}

	fields := strings.Fields(args)
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return g, failure.Input("go: repeat count must be a positive integer, got %q", fields[0])
	}
	g.repeat = n
	switch {
	case len(fields) == 1:
		return g, nil
	case len(fields) == 3 && strings.EqualFold(fields[1], "wait"):
		secs, err := strconv.Atoi(fields[2])
		if err != nil || secs < 0 {
			return g, failure.Input("go: wait must be a non-negative integer, got %q", fields[2])
		}
		g.wait = time.Duration(secs) * time.Second
		return g, nil
	}
	return g, failure.Input("usage: go [N [wait S]] | go > <file>")
}

// cmdGo submits the buffer, optionally repeating it with a pause between
// runs. The buffer is always cleared afterwards.
func (s *Session) cmdGo(args string) error {
	text := s.buffer
	prevFile := s.outputFile
	defer func() {
		s.outputFile = prevFile
		s.clearBuffer()
	}()

	s.history = append(s.history, text)
	s.interrupted.Store(false)
	s.lastError = false
	select {
	case <-s.wake:
	default:
	}

	g, err := parseGoArgs(args)
	if err != nil {
		return err
	}
	if g.file != "" {
		s.outputFile = g.file
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	for repeat := g.repeat; repeat > 0 && !s.interrupted.Load() && !s.lastError; {
		if err := s.submit(text); err != nil {
			s.lastError = true
			return err
		}
		repeat--
		if repeat > 0 && !s.interrupted.Load() {
			s.pause(g.wait)
		}
	}
	return nil
}

// submit runs one execution of text.
func (s *Session) submit(text string) error {
	start := time.Now()

	stmt, params, err := placeholder.Resolve(text, s.profile.Binding, s.ask)
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			s.interrupted.Store(true)
			_, _ = fmt.Fprintln(s.out, "  Query cancelled")
			return nil
		}
		return err
	}
	s.log.Info("executing statement", "sql", stmt, "params", params.Len())

	ctx, cancel := context.WithCancel(context.Background())
	conn := s.beginStatement(cancel)
	if conn == nil {
		s.endStatement()
		return errNotConnected
	}
	queryStart := time.Now()
	sets, err := conn.Execute(ctx, stmt, params.Args())
	queryTime := time.Since(queryStart)
	s.endStatement()

	if err != nil {
		var ee *backend.ExecutionError
		isExec := errors.As(err, &ee)
		if s.interrupted.Load() || (isExec && ee.Kind == backend.Cancelled) {
			s.interrupted.Store(true)
			s.log.Warn("statement cancelled", "sql", stmt)
			_, _ = fmt.Fprintln(s.out, "  Query cancelled")
			return nil
		}
		if isExec && ee.Kind == backend.ConnectionLost {
			s.notice("Connection lost, reconnecting")
			if rerr := s.reconnect(); rerr != nil {
				return errors.CombineErrors(err, rerr)
			}
		}
		return err
	}
	if s.interrupted.Load() {
		_, _ = fmt.Fprintln(s.out, "  Query cancelled")
		return nil
	}

	rows, err := s.emitResults(sets)
	if err != nil {
		return err
	}
	if !s.quiet {
		_, _ = fmt.Fprintf(s.out, "  Rows returned = %s  Query time elapsed = %.4f  Total time elapsed = %.4f\n",
			humanize.Comma(int64(rows)), queryTime.Seconds(), time.Since(start).Seconds())
	}
	s.log.Info("statement complete", "rows", rows, "query_seconds", queryTime.Seconds())
	return nil
}

// emitResults renders every result set with columns, routes it to the
// output targets and caches the screen rendering.
func (s *Session) emitResults(sets []*backend.ResultSet) (int, error) {
	var screen strings.Builder
	rows, shown := 0, 0
	for _, rs := range sets {
		if rs == nil || len(rs.Columns) == 0 {
			continue
		}
		shown++
		rows += rs.RowCount()
		screen.WriteString(render.Render(rs, s.output))
	}
	if shown == 0 {
		return rows, nil
	}

	if err := s.cache.Store(screen.String()); err != nil {
		s.log.Warn("store output cache", "err", err.Error())
	}

	if s.outputFile != "" {
		fileCfg := s.output
		if fileCfg.Method == render.MethodStyled {
			fileCfg.Method = render.MethodTable
		}
		var file strings.Builder
		for _, rs := range sets {
			if rs != nil && len(rs.Columns) > 0 {
				file.WriteString(render.Render(rs, fileCfg))
			}
		}
		if err := appendFile(s.outputFile, file.String()); err != nil {
			return rows, err
		}
		if s.output.CSV {
			_, _ = fmt.Fprintf(s.out, "  Output written to %s\n", s.outputFile)
			return rows, nil
		}
	}
	return rows, s.display(screen.String())
}
