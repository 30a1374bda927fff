package main

import (
	"fmt"
	"strings"

	"github.com/bawdo/isql/internal/failure"
	"github.com/bawdo/isql/render"
)

// outputOption is one ":name [value]" setting.
type outputOption struct {
	name   string
	set    func(value string) error
	show   func() string
	usage  string
	toggle bool // no value flips it
}

func (s *Session) initOutputOptions() {
	s.outputOptions = []outputOption{
		{
			name:  "method",
			usage: ":method default|table|styled",
			show:  func() string { return string(s.output.Method) },
			set: func(v string) error {
				m, err := render.ParseMethod(v)
				if err != nil {
					return err
				}
				s.output.Method = m
				return nil
			},
		},
		{
			name:  "style",
			usage: ":style default|msword|plain",
			show:  func() string { return string(s.output.Style) },
			set: func(v string) error {
				st, err := render.ParseStyle(v)
				if err != nil {
					return err
				}
				s.output.Style = st
				return nil
			},
		},
		{
			name:  "align",
			usage: ":align left|right|center",
			show:  func() string { return string(s.output.Align) },
			set: func(v string) error {
				a, err := render.ParseAlign(v)
				if err != nil {
					return err
				}
				s.output.Align = a
				return nil
			},
		},
		{
			name:  "hcaps",
			usage: ":hcaps none|cap|title|upper|lower",
			show:  func() string { return string(s.output.HeaderCase) },
			set: func(v string) error {
				hc, err := render.ParseHeaderCase(v)
				if err != nil {
					return err
				}
				s.output.HeaderCase = hc
				return nil
			},
		},
		toggleOption("header", &s.output.ShowHeader),
		toggleOption("border", &s.output.ShowBorder),
		toggleOption("csv", &s.output.CSV),
		toggleOption("pager", &s.output.Pager),
	}
}

// toggleOption flips *flag when given no value and accepts on/off otherwise.
func toggleOption(name string, flag *bool) outputOption {
	return outputOption{
		name:   name,
		usage:  ":" + name + " [on|off]",
		toggle: true,
		show:   func() string { return onOff(*flag) },
		set: func(v string) error {
			if v == "" {
				*flag = !*flag
				return nil
			}
			b, err := parseToggle(v)
			if err != nil {
				return err
			}
			*flag = b
			return nil
		},
	}
}

func parseToggle(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, failure.Input("expected on or off, got %q", v)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// setOutputOption handles a line of the form ":name [value]".
func (s *Session) setOutputOption(line string) error {
	name, value := splitCommand(strings.TrimPrefix(line, ":"))
	if name == "" {
		return failure.Input("usage: :<option> [value]")
	}
	opt, ok := s.lookupOutputOption(name)
	if !ok {
		return failure.Input("unknown output option :%s (options: %s)", name, strings.Join(s.outputOptionNames(), ", "))
	}

	if value == "" && !opt.toggle {
		_, _ = fmt.Fprintf(s.out, "  %s = %s\n", opt.name, opt.show())
		return nil
	}
	if err := opt.set(value); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s = %s\n", opt.name, opt.show())
	s.log.Info("output option changed", "option", opt.name, "value", opt.show())
	return nil
}

func (s *Session) lookupOutputOption(name string) (outputOption, bool) {
	for _, o := range s.outputOptions {
		if strings.EqualFold(o.name, name) {
			return o, true
		}
	}
	return outputOption{}, false
}

func (s *Session) outputOptionNames() []string {
	names := make([]string, len(s.outputOptions))
	for i, o := range s.outputOptions {
		names[i] = ":" + o.name
	}
	return names
}
