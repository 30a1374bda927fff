package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/isql/internal/failure"
)

var helpTopics = map[string]string{
	"go": `
  Running statements:
    go                        Run the buffer, then clear it
    go N                      Run the buffer N times
    go N wait S               Run N times, pausing S seconds between runs
    go > <file>               Run once, appending the output to <file>

  Repeats stop at the first error or on ^C.`,

	"history": `
  History:
    history                   List every statement run with go
    !N                        Copy history entry N into the buffer
    !!                        Copy the last history entry into the buffer
    @edit[N]                  Edit the buffer (or entry N) in $EDITOR`,

	"output": `
  Output settings:
    :method default|table|styled
    :style default|msword|plain
    :align left|right|center
    :hcaps none|cap|title|upper|lower
    :header [on|off]          Toggle column headers
    :border [on|off]          Toggle table borders
    :csv [on|off]             Toggle CSV output
    :pager [on|off]           Page output through $PAGER
    redisplay                 Show the last result again from the cache`,

	"shell": `
  Shell escapes:
    @cd <dir>                 Change the working directory
    @load <file>              Replace the buffer with <file>
    @exec <file>              Run every line of <file> as input
    @def NAME=value           Set an environment variable
    @<command>                Run <command> in the shell`,

	"snippets": `
  Snippets:
    #list                     List the snippets for this server type
    #<name>                   Append snippet <name> to the buffer

  Snippets are files under ~/.isql/snippets/<TYPE>/.`,

	"placeholders": `
  Placeholders:
    A name between two colons, such as :id:, is asked for when the
    statement runs and is passed to the server as a bound parameter.`,

	"prompt": `
  Prompt format (prompt.format in isql.yaml):
    $t server type    $s server    $u user    $d current database
    $n line number    $f output method
    $ before any other character prints that character`,
}

func (s *Session) cmdHelp(args string) error {
	topic := strings.ToLower(strings.TrimSpace(args))
	if topic == "" {
		s.printHelpIndex()
		return nil
	}
	if topic == "topics" {
		_, _ = fmt.Fprintf(s.out, "  Topics: %s\n", strings.Join(helpTopicNames(), ", "))
		return nil
	}
	text, ok := helpTopics[topic]
	if !ok {
		return failure.Input("no help for %q (topics: %s)", topic, strings.Join(helpTopicNames(), ", "))
	}
	_, _ = fmt.Fprintln(s.out, text)
	return nil
}

func (s *Session) printHelpIndex() {
	_, _ = fmt.Fprintln(s.out, `
  Commands:
    <sql>                     Add a line to the buffer
    go [N [wait S]]           Run the buffer
    reset                     Clear the buffer
    connect [database]        Reconnect, optionally to another database
    reparse                   Reload isql.yaml and reconnect
    redisplay                 Show the last result again
    dump                      Show the current settings
    history                   List previous statements
    help [topic]              Show help
    exit                      Leave isql`)
	_, _ = fmt.Fprintf(s.out, "\n  Topics: %s\n", strings.Join(helpTopicNames(), ", "))
}

func helpTopicNames() []string {
	names := make([]string, 0, len(helpTopics))
	for n := range helpTopics {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
