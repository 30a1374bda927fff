package backend

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"net"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/go-sql-driver/mysql"

	"github.com/bawdo/isql/internal/failure"
)

// ErrorKind tells a rejected statement apart from a lost connection.
type ErrorKind int

const (
	// Rejected means the server refused the statement; the connection is fine.
	Rejected ErrorKind = iota
	// ConnectionLost means the connection is no longer usable.
	ConnectionLost
	// Cancelled means the statement was abandoned by the operator.
	Cancelled
)

func (k ErrorKind) String() string {
	switch k {
	case ConnectionLost:
		return "connection lost"
	case Cancelled:
		return "cancelled"
	default:
		return "rejected"
	}
}

// ExecutionError is returned by Conn.Execute when a statement fails.
type ExecutionError struct {
	Kind      ErrorKind
	Statement string
	Err       error
}

func (e *ExecutionError) Error() string { return e.Err.Error() }

func (e *ExecutionError) Unwrap() error { return e.Err }

func newExecutionError(stmt string, err error) error {
	kind := Rejected
	switch {
	case errors.Is(err, context.Canceled):
		kind = Cancelled
	case isConnectionLost(err):
		kind = ConnectionLost
	}
	return &ExecutionError{
		Kind:      kind,
		Statement: stmt,
		Err:       errors.Mark(err, failure.ErrExecution),
	}
}

// IsConnectionLost reports whether err says the connection must be reopened.
func IsConnectionLost(err error) bool {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.Kind == ConnectionLost
	}
	return isConnectionLost(err)
}

func isConnectionLost(err error) bool {
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, net.ErrClosed):
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
