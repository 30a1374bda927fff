package backend

import (
	"fmt"
	"net"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres talks to PostgreSQL through pgx.
// Parameters are positional and numbered: $1, $2, ...
var Postgres = &Profile{
	Type:        "PSQL",
	Aliases:     []string{"postgres", "postgresql", "pg"},
	Driver:      "pgx",
	DefaultPort: "5432",
	Binding: Binding{
		Style:   Positional,
		Marker:  func(i int) string { return fmt.Sprintf("$%d", i) },
		Indexed: true,
	},
	CurrentDatabaseQuery: "SELECT current_database()",
	dsn:                  postgresDSN,
}

func postgresDSN(p Params) string {
	var userInfo *url.Userinfo
	if p.Password != "" {
		userInfo = url.UserPassword(p.User, p.Password)
	} else if p.User != "" {
		userInfo = url.User(p.User)
	}
	q := url.Values{}
	q.Set("application_name", p.AppName)
	u := &url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     net.JoinHostPort(p.Server, p.Port),
		Path:     "/" + p.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}
