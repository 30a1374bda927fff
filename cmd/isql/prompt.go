package main

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/bawdo/isql/internal/config"
	"github.com/bawdo/isql/internal/failure"
)

// readValue asks the operator for one placeholder value.
func (s *Session) readValue(label string) (string, error) {
	if s.rl == nil {
		return "", failure.Input("cannot prompt for %s: input is not interactive", strings.TrimSuffix(label, "? "))
	}
	s.rl.SetPrompt(label)
	defer s.rl.SetPrompt(s.shownPrompt)
	line, err := s.rl.ReadLine()
	if err != nil {
		return "", err
	}
	return line, nil
}

// nextPrompt expands the prompt for the next input line and remembers it, so
// a placeholder question can put it back without asking the server again.
func (s *Session) nextPrompt() string {
	s.shownPrompt = s.Prompt()
	return s.shownPrompt
}

// Prompt expands the configured prompt format. A broken format falls back to
// the default.
func (s *Session) Prompt() string {
	p, err := s.expandPrompt(s.promptFormat)
	if err != nil {
		s.log.Warn("prompt format", "format", s.promptFormat, "err", err.Error())
		p, _ = s.expandPrompt(config.DefaultPrompt)
	}
	return p + " "
}

// expandPrompt substitutes the $ variables of format:
//
//	$t  backend type       $s  server
//	$u  user               $d  current database
//	$n  line number        $f  output method
//
// "$" before any other character yields that character.
func (s *Session) expandPrompt(format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '$' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(format) {
			return "", errors.Newf("incomplete prompt format %q: trailing $", format)
		}
		i++
		switch format[i] {
		case 't':
			b.WriteString(s.profile.Type)
		case 's':
			if s.profile.FileBased {
				b.WriteString(s.params.File)
			} else {
				b.WriteString(s.params.Server)
			}
		case 'u':
			b.WriteString(s.params.User)
		case 'd':
			b.WriteString(s.currentDatabase())
		case 'n':
			b.WriteString(strconv.Itoa(s.lineNo))
		case 'f':
			b.WriteString(string(s.output.Method))
		default:
			b.WriteByte(format[i])
		}
	}
	return b.String(), nil
}

// validatePromptFormat rejects a format ending in a lone "$".
func validatePromptFormat(format string) error {
	for i := 0; i < len(format); i++ {
		if format[i] == '$' {
			if i+1 >= len(format) {
				return failure.Input("incomplete prompt format %q: trailing $", format)
			}
			i++
		}
	}
	return nil
}
