package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bawdo/isql/internal/failure"
)

const defaultPager = "less -R"

// display writes text to the screen, through the pager when it is enabled
// and stdout is a terminal.
func (s *Session) display(text string) error {
	if s.output.Pager && s.terminal {
		err := s.runPager(text)
		if err == nil {
			return nil
		}
		s.log.Warn("pager failed", "err", err.Error())
	}
	_, _ = fmt.Fprint(s.out, text)
	return nil
}

// pageText pipes text into $PAGER.
func (s *Session) pageText(text string) error {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.Command("sh", "-c", pager)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// appendFile appends text to the output file at path.
func appendFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return failure.Resource(err, "open output file %s", path)
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return failure.Resource(err, "write output file %s", path)
	}
	if err := f.Close(); err != nil {
		return failure.Resource(err, "close output file %s", path)
	}
	return nil
}
