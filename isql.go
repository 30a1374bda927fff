// Package isql runs SQL against MSSQL, MySQL, PostgreSQL, SQLite and Oracle
// servers the way the isql command line client does.
//
// This package re-exports commonly used types and functions from subpackages
// for convenience. Advanced users can import subpackages directly:
//   - github.com/bawdo/isql/backend (server profiles and connections)
//   - github.com/bawdo/isql/placeholder (:name: substitution)
//   - github.com/bawdo/isql/render (result layout)
//   - github.com/bawdo/isql/cache (last-result cache)
//   - github.com/bawdo/isql/snippets (per-backend SQL fragments)
package isql

import (
	"context"

	"github.com/bawdo/isql/backend"
	"github.com/bawdo/isql/internal/failure"
	"github.com/bawdo/isql/placeholder"
	"github.com/bawdo/isql/render"
)

// --- Backend Types ---

// Profile describes one supported server type.
type Profile = backend.Profile

// Params holds connection parameters.
type Params = backend.Params

// Conn is an open connection.
type Conn = backend.Conn

// ResultSet is one tabular result.
type ResultSet = backend.ResultSet

// ExecutionError reports a statement the server did not complete.
type ExecutionError = backend.ExecutionError

// --- Profiles ---

var (
	MSSQL    = backend.MSSQL
	MySQL    = backend.MySQL
	Postgres = backend.Postgres
	SQLite   = backend.SQLite
	Oracle   = backend.Oracle
)

// Lookup finds a profile by type name or alias.
func Lookup(name string) (*Profile, bool) {
	return backend.Lookup(name)
}

// Connect opens a connection for the named server type.
func Connect(ctx context.Context, serverType string, p Params) (Conn, error) {
	profile, ok := backend.Lookup(serverType)
	if !ok {
		return nil, failure.Input("unknown server type %q", serverType)
	}
	return backend.SQLDatabase{Profile: profile}.Connect(ctx, p)
}

// --- Placeholders and rendering ---

// Prompter supplies the value of one placeholder.
type Prompter = placeholder.Prompter

// Bind rewrites the :name: placeholders in text for profile, asking for each
// value once, and returns the statement with its driver arguments.
func Bind(text string, profile *Profile, ask Prompter) (string, []any, error) {
	stmt, params, err := placeholder.Resolve(text, profile.Binding, ask)
	if err != nil {
		return "", nil, err
	}
	return stmt, params.Args(), nil
}

// RenderConfig holds output settings.
type RenderConfig = render.Config

// DefaultRenderConfig returns the default output settings.
func DefaultRenderConfig() RenderConfig {
	return render.DefaultConfig()
}

// Render lays out rs according to cfg.
func Render(rs *ResultSet, cfg RenderConfig) string {
	return render.Render(rs, cfg)
}
