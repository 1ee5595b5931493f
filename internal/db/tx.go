package db

import (
	"context"
	"database/sql"
	"time"
)

// Tx is a transaction on a Connection.
type Tx struct {
	conn *Connection
	tx   *sql.Tx
}

func (t *Tx) Query(ctx context.Context, query string, args ...any) (*QueryResult, error) {
	return t.conn.query(ctx, t.tx, query, args)
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.conn.exec(ctx, t.tx, query, args)
}

func (t *Tx) Prepare(ctx context.Context, query string) (*Statement, error) {
	return t.conn.prepare(ctx, t.tx, query, nil, nil)
}

// Stmt returns a transaction-specific copy of a statement prepared on the
// connection.
func (t *Tx) Stmt(ctx context.Context, s *Statement) *Statement {
	return &Statement{
		conn:     t.conn,
		stmt:     t.tx.StmtContext(ctx, s.stmt),
		sql:      s.sql,
		names:    s.names,
		declared: s.declared,
	}
}

func (t *Tx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	observe(t.conn.ID(), "commit", start, err)
	return t.conn.wrap("commit", err)
}

func (t *Tx) Rollback() error {
	start := time.Now()
	err := t.tx.Rollback()
	observe(t.conn.ID(), "rollback", start, err)
	return t.conn.wrap("rollback", err)
}

func (t *Tx) FetchOne(ctx context.Context, query string, args ...any) (Row, error) {
	return fetchOne(ctx, t, query, args)
}

func (t *Tx) FetchAll(ctx context.Context, query string, args ...any) ([]Row, error) {
	return fetchAll(ctx, t, query, args)
}

func (t *Tx) FetchColumn(ctx context.Context, column int, query string, args ...any) ([]any, error) {
	return fetchColumn(ctx, t, column, query, args)
}

func (t *Tx) FetchValue(ctx context.Context, query string, args ...any) (any, error) {
	return fetchValue(ctx, t, query, args)
}

func (t *Tx) Get(ctx context.Context, dst any, query string, args ...any) error {
	return get(ctx, t, dst, query, args)
}

func (t *Tx) Select(ctx context.Context, dst any, query string, args ...any) error {
	return selectAll(ctx, t, dst, query, args)
}
