package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"

	"github.com/bawdo/isql/cache"
	"github.com/bawdo/isql/internal/config"
	"github.com/bawdo/isql/render"
)

// commandEntry maps a command word to its handler.
type commandEntry struct {
	name    string
	handler func(args string) error
	usage   string
}

// initCommands builds the named-command registry.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		{name: "go", handler: s.cmdGo, usage: "go [N [wait S]] | go > <file>"},
		{name: "reparse", handler: func(_ string) error { return s.cmdReparse() }, usage: "reparse"},
		{name: "reset", handler: func(_ string) error { return s.cmdReset() }, usage: "reset"},
		{name: "connect", handler: s.cmdConnect, usage: "connect [database]"},
		{name: "redisplay", handler: func(_ string) error { return s.cmdRedisplay() }, usage: "redisplay"},
		{name: "dump", handler: func(_ string) error { return s.cmdDump() }, usage: "dump"},
		{name: "help", handler: s.cmdHelp, usage: "help [topic]"},
		{name: "history", handler: func(_ string) error { return s.cmdHistory() }, usage: "history"},
	}
}

func (s *Session) lookupCommand(word string) (commandEntry, bool) {
	for _, cmd := range s.commands {
		if strings.EqualFold(cmd.name, word) {
			return cmd, true
		}
	}
	return commandEntry{}, false
}

// commandNames lists the command words for tab completion.
func (s *Session) commandNames() []string {
	names := make([]string, 0, len(s.commands)+1)
	for _, cmd := range s.commands {
		names = append(names, cmd.name)
	}
	names = append(names, "exit")
	sort.Strings(names)
	return names
}

func (s *Session) cmdReset() error {
	s.clearBuffer()
	return nil
}

func (s *Session) cmdConnect(args string) error {
	if db := strings.TrimSpace(args); db != "" {
		s.params.Database = db
	}
	if err := s.Connect(context.Background()); err != nil {
		return err
	}
	s.notice(fmt.Sprintf("Connected to %s", s.describeTarget()))
	return nil
}

func (s *Session) describeTarget() string {
	if s.profile.FileBased {
		return fmt.Sprintf("%s (%s)", s.profile.DSN(s.params), s.profile.Type)
	}
	target := s.params.Server + ":" + s.params.Port
	if s.params.Database != "" {
		target += "/" + s.params.Database
	}
	return fmt.Sprintf("%s (%s)", target, s.profile.Type)
}

// cmdReparse reloads the settings file and reconnects.
func (s *Session) cmdReparse() error {
	if s.configPath != "" {
		cfg, err := config.Load(s.configPath)
		if err != nil {
			return err
		}
		if err := s.applyConfig(cfg); err != nil {
			return err
		}
		s.notice(fmt.Sprintf("Reloaded %s", s.configPath))
	}
	return s.cmdConnect("")
}

// applyConfig adopts the output and prompt settings of cfg.
func (s *Session) applyConfig(cfg *config.Config) error {
	out, err := cfg.RenderConfig()
	if err != nil {
		return err
	}
	if err := validatePromptFormat(cfg.Prompt.Format); err != nil {
		return err
	}
	s.output = out
	s.promptFormat = cfg.Prompt.Format
	return nil
}

func (s *Session) cmdRedisplay() error {
	text, err := s.cache.Retrieve()
	if err != nil {
		if !errors.Is(err, cache.ErrNothingCached) {
			s.log.Warn("read output cache", "err", err.Error())
		}
		_, _ = fmt.Fprintln(s.out, "  No results to redisplay")
		return nil
	}
	_, _ = fmt.Fprintln(s.out, "  ** Fetching from cache **")
	return s.display(text)
}

func (s *Session) cmdHistory() error {
	if len(s.history) == 0 {
		_, _ = fmt.Fprintln(s.out, "  History is empty")
		return nil
	}
	for i, entry := range s.history {
		_, _ = fmt.Fprintf(s.out, "%d = %s\n", i, strings.TrimRight(entry, "\n"))
	}
	return nil
}

// cmdDump prints the current settings. The password is masked.
func (s *Session) cmdDump() error {
	password := ""
	if s.params.Password != "" {
		password = "****"
	}
	cacheState := "empty"
	if p := s.cache.Path(); p != "" {
		cacheState = fmt.Sprintf("%s (%s)", p, humanize.Bytes(uint64(s.cache.Size())))
	}
	settings := []render.Setting{
		{Name: "Server type", Value: s.profile.Type},
		{Name: "Server", Value: s.params.Server},
		{Name: "Port", Value: s.params.Port},
		{Name: "User", Value: s.params.User},
		{Name: "Password", Value: password},
		{Name: "Database", Value: s.params.Database},
		{Name: "SQLite file", Value: s.params.File},
		{Name: "Binding", Value: s.profile.Binding.Style.String()},
		{Name: "Output method", Value: string(s.output.Method)},
		{Name: "Output style", Value: string(s.output.Style)},
		{Name: "Output align", Value: string(s.output.Align)},
		{Name: "Header case", Value: string(s.output.HeaderCase)},
		{Name: "Header", Value: strconv.FormatBool(s.output.ShowHeader)},
		{Name: "Border", Value: strconv.FormatBool(s.output.ShowBorder)},
		{Name: "CSV", Value: strconv.FormatBool(s.output.CSV)},
		{Name: "Pager", Value: strconv.FormatBool(s.output.Pager)},
		{Name: "Output file", Value: s.outputFile},
		{Name: "Prompt", Value: s.promptFormat},
		{Name: "Line", Value: strconv.Itoa(s.lineNo)},
		{Name: "History", Value: humanize.Comma(int64(len(s.history))) + " entries"},
		{Name: "Snippets", Value: strconv.Itoa(s.snippets.Len())},
		{Name: "Cache", Value: cacheState},
		{Name: "Quiet", Value: strconv.FormatBool(s.quiet)},
	}
	_, _ = fmt.Fprint(s.out, render.Settings(settings))
	return nil
}
