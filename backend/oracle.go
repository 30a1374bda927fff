package backend

import (
	"strconv"

	goora "github.com/sijms/go-ora/v2"
)

// Oracle talks to Oracle Database through the pure-Go go-ora driver. The
// database parameter names the service.
// Parameters are named: :name.
var Oracle = &Profile{
	Type:        "ORACLE",
	Aliases:     []string{"oracle", "ora"},
	Driver:      "oracle",
	DefaultPort: "1521",
	Binding: Binding{
		Style:  Named,
		Prefix: ":",
	},
	CurrentDatabaseQuery: "SELECT sys_context('userenv', 'instance_name') FROM dual",
	dsn:                  oracleDSN,
}

func oracleDSN(p Params) string {
	port, err := strconv.Atoi(p.Port)
	if err != nil {
		port = 1521
	}
	return goora.BuildUrl(p.Server, port, p.Database, p.User, p.Password, nil)
}
