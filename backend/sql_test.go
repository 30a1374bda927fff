package backend_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/bawdo/isql/backend"
	"github.com/bawdo/isql/internal/failure"
	"github.com/bawdo/isql/internal/testutil"
)

// --- Integration Tests (SQLite in-memory) ---

func openSQLite(t *testing.T) backend.Conn {
	t.Helper()
	conn, err := backend.SQLDatabase{Profile: backend.SQLite}.Connect(context.Background(), backend.Params{File: ":memory:"})
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func seed(t *testing.T, conn backend.Conn) {
	t.Helper()
	ctx := context.Background()
	for _, stmt := range []string{
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, email TEXT)",
		"INSERT INTO users (id, name, email) VALUES (1, 'Alice', 'alice@example.com')",
		"INSERT INTO users (id, name, email) VALUES (2, 'Bob', NULL)",
	} {
		sets, err := conn.Execute(ctx, stmt, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, len(sets), 0)
	}
}

func TestSQLiteSelect(t *testing.T) {
	t.Parallel()
	conn := openSQLite(t)
	seed(t, conn)

	sets, err := conn.Execute(context.Background(), "SELECT id, name, email FROM users ORDER BY id", nil)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(sets), 1)
	rs := sets[0]
	testutil.AssertEqual(t, len(rs.Columns), 3)
	testutil.AssertEqual(t, rs.Columns[1], "name")
	testutil.AssertEqual(t, rs.RowCount(), 2)
	testutil.AssertEqual(t, rs.Rows[0][1], "Alice")
	testutil.AssertEqual(t, rs.Rows[1][2], "NULL")
}

func TestSQLiteEmptySelectKeepsColumns(t *testing.T) {
	t.Parallel()
	conn := openSQLite(t)
	seed(t, conn)

	sets, err := conn.Execute(context.Background(), "SELECT id FROM users WHERE id > 100", nil)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(sets), 1)
	testutil.AssertEqual(t, sets[0].Columns[0], "id")
	testutil.AssertEqual(t, sets[0].RowCount(), 0)
}

func TestSQLiteNamedParameters(t *testing.T) {
	t.Parallel()
	conn := openSQLite(t)
	seed(t, conn)

	sets, err := conn.Execute(context.Background(),
		"SELECT name FROM users WHERE id = :id",
		[]any{sql.Named("id", "2")})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sets[0].Rows[0][0], "Bob")
}

func TestSQLiteStateSurvivesBetweenStatements(t *testing.T) {
	t.Parallel()
	conn := openSQLite(t)
	ctx := context.Background()

	_, err := conn.Execute(ctx, "CREATE TEMP TABLE scratch (v TEXT)", nil)
	testutil.AssertNoError(t, err)
	_, err = conn.Execute(ctx, "INSERT INTO scratch VALUES ('kept')", nil)
	testutil.AssertNoError(t, err)
	sets, err := conn.Execute(ctx, "SELECT v FROM scratch", nil)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sets[0].Rows[0][0], "kept")
}

func TestSQLiteRejectedStatement(t *testing.T) {
	t.Parallel()
	conn := openSQLite(t)

	_, err := conn.Execute(context.Background(), "SELECT * FROM missing_table", nil)
	testutil.AssertError(t, err)

	var ee *backend.ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExecutionError, got %T", err)
	}
	testutil.AssertEqual(t, ee.Kind, backend.Rejected)
	testutil.AssertEqual(t, ee.Statement, "SELECT * FROM missing_table")
	testutil.AssertEqual(t, errors.Is(err, failure.ErrExecution), true)
	testutil.AssertEqual(t, backend.IsConnectionLost(err), false)
	testutil.AssertEqual(t, failure.Class(err), "execution")
}

func TestSQLiteCancelledStatement(t *testing.T) {
	t.Parallel()
	conn := openSQLite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conn.Execute(ctx, "SELECT 1", nil)
	testutil.AssertError(t, err)
	var ee *backend.ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExecutionError, got %T", err)
	}
	testutil.AssertEqual(t, ee.Kind, backend.Cancelled)
}

func TestSQLiteCurrentDatabaseIsEmpty(t *testing.T) {
	t.Parallel()
	conn := openSQLite(t)
	name, err := conn.CurrentDatabase(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, name, "")
}

func TestCloseTwice(t *testing.T) {
	t.Parallel()
	conn, err := backend.SQLDatabase{Profile: backend.SQLite}.Connect(context.Background(), backend.Params{})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, conn.Close())
	testutil.AssertNoError(t, conn.Close())
}

func TestConnectNeedsServer(t *testing.T) {
	t.Parallel()
	_, err := backend.SQLDatabase{Profile: backend.Postgres}.Connect(context.Background(), backend.Params{User: "x"})
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, errors.Is(err, failure.ErrInput), true)
}

func TestIsConnectionLost(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, backend.IsConnectionLost(sql.ErrConnDone), true)
	testutil.AssertEqual(t, backend.IsConnectionLost(errors.Wrap(sql.ErrConnDone, "exec")), true)
	testutil.AssertEqual(t, backend.IsConnectionLost(errors.New("syntax error")), false)
	lost := &backend.ExecutionError{Kind: backend.ConnectionLost, Err: errors.New("gone")}
	testutil.AssertEqual(t, backend.IsConnectionLost(lost), true)
}
