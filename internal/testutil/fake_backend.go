package testutil

import (
	"context"
	"sync"

	"github.com/bawdo/isql/backend"
)

// Call records one statement sent to a FakeConn.
type Call struct {
	Stmt string
	Args []any
}

// FakeDatabase implements backend.Database in memory. Every Connect hands out
// a new FakeConn; statements from all of them are recorded in order.
type FakeDatabase struct {
	// Respond produces the result of a statement. Nil returns no result sets.
	Respond func(stmt string, args []any) ([]*backend.ResultSet, error)
	// ConnectErr, when set, fails every Connect.
	ConnectErr error
	// DBName is reported by CurrentDatabase.
	DBName string
	// Block, when set, holds every Execute until it is closed or the context
	// is cancelled. Started receives the statement once Execute is blocked.
	Block   chan struct{}
	Started chan string
	// Messages produces server messages for a statement; each is passed to
	// OnMessage before the statement's results are returned.
	Messages  func(stmt string) []backend.Message
	OnMessage func(backend.Message)

	mu       sync.Mutex
	calls    []Call
	conns    []*FakeConn
	params   []backend.Params
	connects int
}

var _ backend.Database = (*FakeDatabase)(nil)

func (d *FakeDatabase) Connect(_ context.Context, p backend.Params) (backend.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connects++
	d.params = append(d.params, p)
	if d.ConnectErr != nil {
		return nil, d.ConnectErr
	}
	c := &FakeConn{db: d}
	d.conns = append(d.conns, c)
	return c, nil
}

// Calls returns every statement executed so far.
func (d *FakeDatabase) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// Statements returns the text of every statement executed so far.
func (d *FakeDatabase) Statements() []string {
	calls := d.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Stmt
	}
	return out
}

// Connects returns how many times Connect was called.
func (d *FakeDatabase) Connects() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connects
}

// LastParams returns the parameters of the most recent Connect.
func (d *FakeDatabase) LastParams() backend.Params {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.params) == 0 {
		return backend.Params{}
	}
	return d.params[len(d.params)-1]
}

// Conns returns every connection handed out so far.
func (d *FakeDatabase) Conns() []*FakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*FakeConn(nil), d.conns...)
}

// FakeConn is a connection handed out by FakeDatabase.
type FakeConn struct {
	db *FakeDatabase

	mu     sync.Mutex
	closed bool
}

var _ backend.Conn = (*FakeConn)(nil)

func (c *FakeConn) Execute(ctx context.Context, stmt string, args []any) ([]*backend.ResultSet, error) {
	d := c.db
	d.mu.Lock()
	d.calls = append(d.calls, Call{Stmt: stmt, Args: args})
	block, started, respond := d.Block, d.Started, d.Respond
	messages, onMessage := d.Messages, d.OnMessage
	d.mu.Unlock()

	if block != nil {
		if started != nil {
			started <- stmt
		}
		select {
		case <-block:
		case <-ctx.Done():
			return nil, &backend.ExecutionError{Kind: backend.Cancelled, Statement: stmt, Err: ctx.Err()}
		}
	}
	if messages != nil && onMessage != nil {
		for _, m := range messages(stmt) {
			onMessage(m)
		}
	}
	if respond == nil {
		return nil, nil
	}
	return respond(stmt, args)
}

func (c *FakeConn) CurrentDatabase(context.Context) (string, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	return c.db.DBName, nil
}

func (c *FakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *FakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Rows builds a single result set for use in Respond functions.
func Rows(columns []string, rows ...[]string) []*backend.ResultSet {
	return []*backend.ResultSet{{Columns: columns, Rows: rows}}
}
