package backend

import (
	"context"
	"database/sql"
	"net/url"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/golang-sql/sqlexp"

	"github.com/bawdo/isql/internal/failure"
)

// SQLDatabase opens database/sql connections for a profile.
type SQLDatabase struct {
	Profile *Profile
	// OnMessage receives server messages on profiles that report them. It is
	// called on the goroutine running Execute.
	OnMessage func(Message)
}

// Connect opens a pool with a single pinned session, so that session state
// (current database, temp tables, open transactions) survives between
// statements.
func (d SQLDatabase) Connect(ctx context.Context, p Params) (Conn, error) {
	pr := d.Profile
	if pr == nil {
		return nil, failure.Input("no backend profile")
	}
	p = pr.WithDefaults(p)
	if !pr.FileBased && p.Server == "" {
		return nil, failure.Input("%s needs a server", pr.Type)
	}
	dsn := pr.DSN(p)

	db, err := sql.Open(pr.Driver, dsn)
	if err != nil {
		return nil, failure.Connection(err, "open %s", SanitizeDSN(dsn))
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, failure.Connection(err, "connect %s", SanitizeDSN(dsn))
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, failure.Connection(err, "ping %s", SanitizeDSN(dsn))
	}
	return &sqlConn{db: db, conn: conn, profile: pr, onMessage: d.OnMessage}, nil
}

type sqlConn struct {
	db        *sql.DB
	conn      *sql.Conn
	profile   *Profile
	onMessage func(Message)

	closeOnce sync.Once
	closeErr  error
}

// Execute runs stmt and fetches every result set it produces. Statements
// that return no columns contribute no result set.
func (c *sqlConn) Execute(ctx context.Context, stmt string, args []any) ([]*ResultSet, error) {
	if c.onMessage != nil && c.profile.ReportsMessages() {
		return c.executeWithMessages(ctx, stmt, args)
	}
	rows, err := c.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, newExecutionError(stmt, err)
	}
	defer func() { _ = rows.Close() }()

	var sets []*ResultSet
	for {
		rs, err := fetchResultSet(rows)
		if err != nil {
			return nil, newExecutionError(stmt, err)
		}
		if rs != nil {
			sets = append(sets, rs)
		}
		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, newExecutionError(stmt, err)
	}
	return sets, nil
}

// executeWithMessages reads the driver's message queue, which interleaves
// result sets with notices and errors.
func (c *sqlConn) executeWithMessages(ctx context.Context, stmt string, args []any) ([]*ResultSet, error) {
	retmsg := &sqlexp.ReturnMessage{}
	qargs := append(append(make([]any, 0, len(args)+1), args...), retmsg)
	rows, err := c.conn.QueryContext(ctx, stmt, qargs...)
	if err != nil {
		return nil, newExecutionError(stmt, err)
	}
	defer func() { _ = rows.Close() }()

	var sets []*ResultSet
	var stmtErr error
	for active := true; active; {
		switch m := retmsg.Message(ctx).(type) {
		case sqlexp.MsgNotice:
			if msg, ok := c.profile.notice(m.Message); ok {
				c.onMessage(msg)
			}
		case sqlexp.MsgNext:
			rs, err := fetchResultSet(rows)
			if err != nil {
				return nil, newExecutionError(stmt, err)
			}
			if rs != nil {
				sets = append(sets, rs)
			}
		case sqlexp.MsgNextResultSet:
			active = rows.NextResultSet()
		case sqlexp.MsgError:
			stmtErr = errors.CombineErrors(stmtErr, m.Error)
		}
	}
	if stmtErr == nil {
		stmtErr = rows.Err()
	}
	if stmtErr == nil {
		stmtErr = ctx.Err()
	}
	if stmtErr != nil {
		return nil, newExecutionError(stmt, stmtErr)
	}
	return sets, nil
}

func (c *sqlConn) CurrentDatabase(ctx context.Context) (string, error) {
	if c.profile.CurrentDatabaseQuery == "" {
		return "", nil
	}
	var name sql.NullString
	if err := c.conn.QueryRowContext(ctx, c.profile.CurrentDatabaseQuery).Scan(&name); err != nil {
		return "", newExecutionError(c.profile.CurrentDatabaseQuery, err)
	}
	return name.String, nil
}

func (c *sqlConn) Close() error {
	c.closeOnce.Do(func() {
		err := c.conn.Close()
		if dbErr := c.db.Close(); err == nil {
			err = dbErr
		}
		c.closeErr = err
	})
	return c.closeErr
}

func fetchResultSet(rows *sql.Rows) (*ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "columns")
	}
	if len(columns) == 0 {
		for rows.Next() {
		}
		return nil, nil
	}

	rs := &ResultSet{Columns: columns}
	for rows.Next() {
		vals := make([]sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		row := make([]string, len(columns))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows")
	}
	return rs, nil
}

// SanitizeDSN masks the password in a connection string so it can be logged.
func SanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			masked := u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
			if u.RawQuery != "" {
				masked += "?" + u.RawQuery
			}
			return masked
		}
		return dsn
	}

	// user:pass@tcp(host)/db
	if atIdx := strings.LastIndex(dsn, "@"); atIdx > 0 {
		userPass := dsn[:atIdx]
		if colonIdx := strings.Index(userPass, ":"); colonIdx >= 0 {
			return userPass[:colonIdx+1] + "****" + dsn[atIdx:]
		}
	}
	return dsn
}
