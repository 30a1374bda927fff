package backend

import (
	_ "modernc.org/sqlite"
)

// SQLite opens a local database file through the pure-Go modernc driver.
// Parameters are named: :name.
var SQLite = &Profile{
	Type:    "SQLITE",
	Aliases: []string{"sqlite", "sqlite3"},
	Driver:  "sqlite",
	Binding: Binding{
		Style:  Named,
		Prefix: ":",
	},
	FileBased: true,
	dsn:       sqliteDSN,
}

func sqliteDSN(p Params) string {
	switch {
	case p.File != "":
		return p.File
	case p.Database != "":
		return p.Database
	}
	return ":memory:"
}
