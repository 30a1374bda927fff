package main

import (
	"strings"
)

var shellCommands = []string{"cd", "def", "edit", "exec", "load"}

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of chars from end of line[:pos] that form the prefix being completed.
// newLine contains the suffixes to append for each candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := strings.TrimLeft(string(line[:pos]), " \t")

	var candidates []string
	prefix := lastToken(lineStr)
	switch {
	case strings.HasPrefix(lineStr, ":") && !strings.ContainsAny(lineStr, " \t"):
		candidates = filterPrefix(c.sess.outputOptionNames(), prefix)
	case strings.HasPrefix(lineStr, "@") && !strings.ContainsAny(lineStr, " \t"):
		candidates = prefixAll("@", filterPrefix(shellCommands, prefix[1:]))
	case strings.HasPrefix(lineStr, "#") && !strings.ContainsAny(lineStr, " \t"):
		candidates = prefixAll("#", filterPrefix(append([]string{"list"}, c.sess.snippets.Names()...), prefix[1:]))
	case strings.HasPrefix(strings.ToLower(lineStr), "help "):
		candidates = filterPrefix(append(helpTopicNames(), "topics"), prefix)
	case !strings.ContainsAny(lineStr, " \t"):
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	}

	for _, cand := range dedup(candidates) {
		suffix := cand[len(prefix):]
		newLine = append(newLine, []rune(suffix+" "))
	}
	length = len([]rune(prefix))
	return
}

func prefixAll(p string, items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = p + item
	}
	return out
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		result := make([]string, len(items))
		copy(result, items)
		return result
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// dedup removes duplicate strings while preserving order.
func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	var result []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the last space-separated token in s.
func lastToken(s string) string {
	lastSep := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' || s[i] == '\t' {
			lastSep = i
			break
		}
	}
	if lastSep >= 0 {
		return s[lastSep+1:]
	}
	return s
}
