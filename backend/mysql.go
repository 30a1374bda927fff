package backend

import (
	"net"

	"github.com/go-sql-driver/mysql"
)

// MySQL talks to MySQL and MariaDB.
// Parameters are positional and anonymous: ?, ?, ...
var MySQL = &Profile{
	Type:        "MYSQL",
	Aliases:     []string{"mysql", "mariadb"},
	Driver:      "mysql",
	DefaultPort: "3306",
	Binding: Binding{
		Style:  Positional,
		Marker: func(_ int) string { return "?" },
	},
	CurrentDatabaseQuery: "SELECT DATABASE()",
	dsn:                  mysqlDSN,
}

func mysqlDSN(p Params) string {
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Server, p.Port)
	cfg.DBName = p.Database
	cfg.MultiStatements = true
	cfg.Params = map[string]string{"autocommit": "true"}
	return cfg.FormatDSN()
}
