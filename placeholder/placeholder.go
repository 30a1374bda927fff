// Package placeholder implements the colon placeholder mini-language: any
// :name: in a statement is replaced by a value the operator supplies at
// submission time.
//
// The scan is textual. A :name: inside a string literal or a comment is
// substituted like any other.
package placeholder

import (
	"database/sql"
	"regexp"

	"github.com/cockroachdb/errors"

	"github.com/bawdo/isql/backend"
)

var pattern = regexp.MustCompile(`:[^:\n]+:`)

// Prompter asks the operator for a value.
type Prompter func(label string) (string, error)

// Params holds the values collected for one submission.
type Params struct {
	// Named maps placeholder name to value (named binding).
	Named map[string]string
	// Positional holds values in marker order (positional binding).
	Positional []string

	order []string
}

// Args returns the driver arguments in binding order.
func (p Params) Args() []any {
	if len(p.Named) > 0 {
		args := make([]any, 0, len(p.order))
		for _, name := range p.order {
			args = append(args, sql.Named(name, p.Named[name]))
		}
		return args
	}
	args := make([]any, len(p.Positional))
	for i, v := range p.Positional {
		args[i] = v
	}
	return args
}

// Len returns the number of driver arguments.
func (p Params) Len() int {
	if len(p.Named) > 0 {
		return len(p.order)
	}
	return len(p.Positional)
}

// Scan returns the unique placeholders in text, in order of first appearance.
func Scan(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range pattern.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// Name strips the surrounding colons from a placeholder.
func Name(placeholder string) string {
	if len(placeholder) < 2 {
		return placeholder
	}
	return placeholder[1 : len(placeholder)-1]
}

// Resolve prompts once for every unique placeholder in text and rewrites it
// into the backend's native parameter syntax.
func Resolve(text string, b backend.Binding, ask Prompter) (string, Params, error) {
	found := Scan(text)
	if len(found) == 0 {
		return text, Params{}, nil
	}

	values := make(map[string]string, len(found))
	for _, ph := range found {
		v, err := ask(ph + "? ")
		if err != nil {
			return "", Params{}, errors.Wrapf(err, "value for %s", ph)
		}
		values[ph] = v
	}

	if b.Style == backend.Named {
		return resolveNamed(text, b, found, values)
	}
	return resolvePositional(text, b, found, values)
}

func resolveNamed(text string, b backend.Binding, found []string, values map[string]string) (string, Params, error) {
	p := Params{Named: make(map[string]string, len(found))}
	for _, ph := range found {
		name := Name(ph)
		p.Named[name] = values[ph]
		p.order = append(p.order, name)
	}
	out := pattern.ReplaceAllStringFunc(text, func(ph string) string {
		return b.Prefix + Name(ph)
	})
	return out, p, nil
}

func resolvePositional(text string, b backend.Binding, found []string, values map[string]string) (string, Params, error) {
	if b.Marker == nil {
		return "", Params{}, errors.New("positional binding without a marker")
	}
	var p Params
	if b.Indexed {
		index := make(map[string]int, len(found))
		for i, ph := range found {
			index[ph] = i + 1
			p.Positional = append(p.Positional, values[ph])
		}
		out := pattern.ReplaceAllStringFunc(text, func(ph string) string {
			return b.Marker(index[ph])
		})
		return out, p, nil
	}

	n := 0
	out := pattern.ReplaceAllStringFunc(text, func(ph string) string {
		n++
		p.Positional = append(p.Positional, values[ph])
		return b.Marker(n)
	})
	return out, p, nil
}
