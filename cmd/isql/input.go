package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/bawdo/isql/internal/failure"
)

// maxInputDepth bounds nested @exec files.
const maxInputDepth = 16

// RunFile feeds every line of path through Execute. Errors are reported and
// processing continues; exit stops the file and is returned to the caller.
func (s *Session) RunFile(path string) error {
	if s.inputDepth >= maxInputDepth {
		return failure.Input("input files nested deeper than %d", maxInputDepth)
	}
	f, err := os.Open(path)
	if err != nil {
		return failure.Resource(err, "open input file %s", path)
	}
	defer func() { _ = f.Close() }()

	s.inputDepth++
	defer func() { s.inputDepth-- }()
	s.log.Info("processing input file", "file", path)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if err := s.Execute(line); err != nil {
			if errors.Is(err, ErrExit) {
				return err
			}
			s.ReportError(err)
		}
	}
	if err := scanner.Err(); err != nil {
		return failure.Resource(err, "read input file %s", path)
	}
	return nil
}

// recallHistory handles "!N" and "!!".
func (s *Session) recallHistory(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "!" {
		if len(s.history) == 0 {
			return failure.IndexOutOfRange(0, 0)
		}
		s.recall(len(s.history) - 1)
		return nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return failure.Input("unknown history reference !%s (use !N or !!)", ref)
	}
	if n < 0 || n >= len(s.history) {
		return failure.IndexOutOfRange(n, len(s.history))
	}
	s.recall(n)
	return nil
}

func (s *Session) recall(n int) {
	s.buffer = s.history[n]
	s.lineNo++
	s.echo(s.buffer)
}

// insertSnippet appends the named snippet to the buffer. "#list" prints the
// snippet names instead.
func (s *Session) insertSnippet(name string) error {
	if name == "" {
		return failure.Input("usage: #<snippet> | #list")
	}
	if text, ok := s.snippets.Get(name); ok {
		s.buffer += text
		s.lineNo++
		s.echo(s.buffer)
		return nil
	}
	if strings.EqualFold(name, "list") {
		names := s.snippets.Names()
		if len(names) == 0 {
			_, _ = fmt.Fprintln(s.out, "  No snippets loaded")
			return nil
		}
		for _, n := range names {
			_, _ = fmt.Fprintf(s.out, "  %s\n", n)
		}
		return nil
	}
	return failure.Input("%s is not a known snippet (use #list)", name)
}
