package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bawdo/isql/internal/failure"
)

const defaultEditor = "vi"

// shellEscape handles a line starting with "@".
func (s *Session) shellEscape(rest string) error {
	word, args := splitCommand(rest)
	lower := strings.ToLower(word)
	switch {
	case lower == "":
		return failure.Input("usage: @<command>")
	case strings.HasPrefix(lower, "edit"):
		idx := word[len("edit"):]
		if idx == "" {
			idx = args
		}
		return s.editBuffer(idx)
	case lower == "cd":
		return s.changeDir(args)
	case lower == "load":
		return s.loadFile(args)
	case lower == "exec":
		if args == "" {
			return failure.Input("usage: @exec <file>")
		}
		return s.RunFile(args)
	case lower == "def":
		return s.define(args)
	}
	cmdline := strings.TrimSpace(rest)
	s.log.Info("shell command", "cmd", cmdline)
	if err := s.runShell(cmdline); err != nil {
		return failure.Resource(err, "shell command %q", cmdline)
	}
	return nil
}

// editBuffer opens $EDITOR on the buffer, or on history[N] when idx is given,
// and replaces the buffer with the result.
func (s *Session) editBuffer(idx string) error {
	text := s.buffer
	if idx = strings.TrimSpace(idx); idx != "" {
		n, err := strconv.Atoi(idx)
		if err != nil {
			return failure.Input("usage: @edit[N]")
		}
		if n < 0 || n >= len(s.history) {
			return failure.IndexOutOfRange(n, len(s.history))
		}
		text = s.history[n]
	}

	f, err := os.CreateTemp("", "isql-*.sql")
	if err != nil {
		return failure.Resource(err, "create edit file")
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return failure.Resource(err, "write edit file %s", path)
	}
	if err := f.Close(); err != nil {
		return failure.Resource(err, "close edit file %s", path)
	}

	if err := s.runEditor(path); err != nil {
		return failure.Resource(err, "run editor")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return failure.Resource(err, "read edit file %s", path)
	}
	s.replaceBuffer(string(data), 2)
	return nil
}

func (s *Session) changeDir(dir string) error {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return failure.Resource(err, "home directory")
		}
		dir = home
	}
	if err := os.Chdir(dir); err != nil {
		return failure.Resource(err, "cd %s", dir)
	}
	wd, _ := os.Getwd()
	s.notice(fmt.Sprintf("Working directory is %s", wd))
	return nil
}

// loadFile replaces the buffer with the contents of path.
func (s *Session) loadFile(path string) error {
	if path == "" {
		return failure.Input("usage: @load <file>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return failure.Resource(err, "load %s", path)
	}
	s.replaceBuffer(string(data), 2)
	return nil
}

// define sets an environment variable for shell escapes and the editor.
func (s *Session) define(args string) error {
	key, value, ok := strings.Cut(args, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return failure.Input("usage: @def NAME=value")
	}
	if err := os.Setenv(key, strings.TrimSpace(value)); err != nil {
		return failure.Input("@def %s: %v", key, err)
	}
	return nil
}

func runShellCommand(command string) error {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func runEditorCommand(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}
	cmd := exec.Command("sh", "-c", editor+` "$1"`, "sh", path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
