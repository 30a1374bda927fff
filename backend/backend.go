// Package backend describes the database products the client can talk to and the
// capability it needs from each of them: connect, execute, report the current
// database, close.
//
// Every product-specific convention (driver, default port, parameter binding,
// connection string shape, current-database query) lives in one Profile, so
// callers never branch on the product name.
package backend

import (
	"context"
	"fmt"
	"strings"
)

// Database opens connections for one backend profile.
type Database interface {
	Connect(ctx context.Context, p Params) (Conn, error)
}

// Conn is a live connection handle. A Conn is used by one goroutine at a time;
// Close may be called from another goroutine to abandon an in-flight statement.
type Conn interface {
	Execute(ctx context.Context, stmt string, args []any) ([]*ResultSet, error)
	CurrentDatabase(ctx context.Context) (string, error)
	Close() error
}

// Params holds the connection parameters collected from flags and config.
type Params struct {
	Server   string
	Port     string
	User     string
	Password string
	Database string
	File     string // SQLite database file
	AppName  string
}

// ResultSet is one fully fetched result of a statement. Values are already
// converted to text; NULL is rendered as "NULL".
type ResultSet struct {
	Columns []string
	Rows    [][]string
}

// RowCount returns the number of fetched rows.
func (rs *ResultSet) RowCount() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// Message is an informational message the server raised while a statement
// ran, such as PRINT output.
type Message struct {
	Proc     string
	Line     int
	State    int
	Severity int
	Text     string
}

func (m Message) String() string {
	return fmt.Sprintf("%s:line %d:\n%s", m.Proc, m.Line, m.Text)
}

// BindStyle selects how statement parameters are passed to the driver.
type BindStyle int

const (
	Positional BindStyle = iota
	Named
)

func (s BindStyle) String() string {
	if s == Named {
		return "named"
	}
	return "positional"
}

// Binding describes a backend's native parameter syntax.
type Binding struct {
	Style BindStyle
	// Prefix is prepended to a parameter name for named binding (":" gives :name).
	Prefix string
	// Marker renders the positional marker for the i-th (1-based) parameter.
	Marker func(i int) string
	// Indexed reports whether Marker uses its argument, so a repeated parameter
	// can reuse the index of its first appearance.
	Indexed bool
}

// Profile is the capability descriptor of one supported database product.
type Profile struct {
	Type        string // canonical name: MSSQL, MYSQL, PSQL, SQLITE, ORACLE
	Aliases     []string
	Driver      string // database/sql driver name
	DefaultPort string
	Binding     Binding
	// CurrentDatabaseQuery returns the name of the database in use; empty when the
	// product has no such notion.
	CurrentDatabaseQuery string
	// FileBased profiles take a file path instead of server credentials.
	FileBased bool

	dsn func(p Params) string
	// notice converts a driver notice into a Message; false drops it. Nil
	// means the driver cannot return messages.
	notice func(n fmt.Stringer) (Message, bool)
}

// ReportsMessages reports whether statements on this profile can return
// informational messages alongside their results.
func (pr *Profile) ReportsMessages() bool {
	return pr.notice != nil
}

// DSN renders the driver connection string for p, applying profile defaults.
func (pr *Profile) DSN(p Params) string {
	return pr.dsn(pr.WithDefaults(p))
}

// WithDefaults fills the profile's default port and application name.
func (pr *Profile) WithDefaults(p Params) Params {
	if p.Port == "" {
		p.Port = pr.DefaultPort
	}
	if p.AppName == "" {
		p.AppName = "isql"
	}
	return p
}

var profiles = []*Profile{MSSQL, MySQL, Postgres, SQLite, Oracle}

// Lookup finds a profile by canonical name or alias, case-insensitively.
func Lookup(name string) (*Profile, bool) {
	name = strings.TrimSpace(name)
	for _, p := range profiles {
		if strings.EqualFold(p.Type, name) {
			return p, true
		}
		for _, a := range p.Aliases {
			if strings.EqualFold(a, name) {
				return p, true
			}
		}
	}
	return nil, false
}

// Types returns the canonical names of all supported profiles.
func Types() []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Type
	}
	return out
}
