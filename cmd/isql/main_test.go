package main

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/bawdo/isql/backend"
	"github.com/bawdo/isql/internal/failure"
	"github.com/bawdo/isql/internal/testutil"
)

func TestResolveProfile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cli  CLI
		want *backend.Profile
	}{
		{"explicit type", CLI{ServerType: "psql", Server: "db"}, backend.Postgres},
		{"type alias", CLI{ServerType: "mariadb"}, backend.MySQL},
		{"server defaults to mssql", CLI{Server: "db"}, backend.MSSQL},
		{"file defaults to sqlite", CLI{SQLiteDB: "orders.db"}, backend.SQLite},
		{"server wins over file", CLI{Server: "db", SQLiteDB: "orders.db"}, backend.MSSQL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveProfile(&tt.cli)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got.Type, tt.want.Type)
		})
	}
}

func TestResolveProfileErrors(t *testing.T) {
	t.Parallel()
	for _, cli := range []CLI{{ServerType: "db2"}, {}} {
		_, err := resolveProfile(&cli)
		if !errors.Is(err, failure.ErrInput) {
			t.Errorf("%+v: expected input error, got %v", cli, err)
		}
	}
	_, err := resolveProfile(&CLI{ServerType: "db2"})
	testutil.AssertContains(t, err.Error(), strings.Join(backend.Types(), ", "))
}

func TestRedactArgs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"short flag", []string{"-S", "db", "-P", "secret"}, []string{"-S", "db", "-P", "****"}},
		{"long flag", []string{"--password", "secret", "-q"}, []string{"--password", "****", "-q"}},
		{"long with value", []string{"--password=secret"}, []string{"--password=****"}},
		{"short joined", []string{"-Psecret", "-U", "sa"}, []string{"-P****", "-U", "sa"}},
		{"trailing flag", []string{"-U", "sa", "-P"}, []string{"-U", "sa", "-P"}},
		{"port untouched", []string{"-p", "1433", "--port=1433"}, []string{"-p", "1433", "--port=1433"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := append([]string(nil), tt.args...)
			got := redactArgs(in)
			testutil.AssertEqual(t, strings.Join(got, " "), strings.Join(tt.want, " "))
			testutil.AssertEqual(t, strings.Join(in, " "), strings.Join(tt.args, " "))
		})
	}
}
