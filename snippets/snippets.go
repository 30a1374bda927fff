// Package snippets loads the reusable SQL fragments kept per backend type.
//
// Snippets live in <root>/<TYPE>/, one file per snippet; the snippet name is
// the file name without its extension.
package snippets

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bawdo/isql/internal/failure"
)

// Store holds the snippets loaded for one backend type. It is read-only after
// Load.
type Store struct {
	dir  string
	text map[string]string
}

// Load reads every snippet in root/backendType, creating the directory when
// it does not exist yet.
func Load(root, backendType string) (*Store, error) {
	dir := filepath.Join(root, backendType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, failure.Resource(err, "create snippet directory %s", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, failure.Resource(err, "read snippet directory %s", dir)
	}

	s := &Store{dir: dir, text: make(map[string]string, len(entries))}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, failure.Resource(err, "read snippet %s", e.Name())
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		s.text[name] = string(data)
	}
	return s, nil
}

// Empty returns a store without snippets.
func Empty() *Store {
	return &Store{text: map[string]string{}}
}

// Dir returns the directory the store was loaded from.
func (s *Store) Dir() string { return s.dir }

// Get returns the text of the named snippet.
func (s *Store) Get(name string) (string, bool) {
	t, ok := s.text[name]
	return t, ok
}

// Names returns the snippet names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.text))
	for n := range s.text {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of snippets.
func (s *Store) Len() int { return len(s.text) }
