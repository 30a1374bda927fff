package backend

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
)

// MSSQL talks to Microsoft SQL Server.
// Parameters are positional and numbered: @p1, @p2, ...
var MSSQL = &Profile{
	Type:        "MSSQL",
	Aliases:     []string{"sqlserver", "mssql"},
	Driver:      "sqlserver",
	DefaultPort: "1433",
	Binding: Binding{
		Style:   Positional,
		Marker:  func(i int) string { return fmt.Sprintf("@p%d", i) },
		Indexed: true,
	},
	CurrentDatabaseQuery: "SELECT DB_NAME()",
	dsn:                  mssqlDSN,
	notice:               mssqlNotice,
}

// mssqlNotice keeps PRINT output and other messages below severity 11. Higher
// severities arrive as errors. Database change notices are dropped.
func mssqlNotice(n fmt.Stringer) (Message, bool) {
	e, ok := n.(mssql.Error)
	if !ok {
		text := n.String()
		return Message{Text: text}, strings.TrimSpace(text) != ""
	}
	if e.Class > 10 || strings.TrimSpace(e.Message) == "" {
		return Message{}, false
	}
	if strings.HasPrefix(e.Message, "Changed ") {
		return Message{}, false
	}
	return Message{
		Proc:     e.ProcName,
		Line:     int(e.LineNo),
		State:    int(e.State),
		Severity: int(e.Class),
		Text:     e.Message,
	}, true
}

func mssqlDSN(p Params) string {
	q := url.Values{}
	if p.Database != "" {
		q.Set("database", p.Database)
	}
	q.Set("app name", p.AppName)
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Server, p.Port),
		RawQuery: q.Encode(),
	}
	return u.String()
}
