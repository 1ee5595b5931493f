package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/eduardofuncao/pamdb/internal/params"
)

// Statement is a prepared statement bound to its connection. Statements
// from PrepareNamed also remember their parameter names.
type Statement struct {
	conn     *Connection
	stmt     *sql.Stmt
	sql      string
	names    []string
	declared []params.Param
}

// SQL returns the statement text as sent to the driver.
func (s *Statement) SQL() string { return s.sql }

// Params returns the parameter name bound to each placeholder, in order.
func (s *Statement) Params() []string { return s.names }

func (s *Statement) Query(ctx context.Context, args ...any) (*QueryResult, error) {
	start := time.Now()
	rows, err := s.stmt.QueryContext(ctx, args...)
	observe(s.conn.ID(), "query", start, err)
	if err != nil {
		return nil, s.conn.wrap("query", err)
	}
	return newQueryResult(rows, s.conn.wrap)
}

func (s *Statement) Exec(ctx context.Context, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := s.stmt.ExecContext(ctx, args...)
	observe(s.conn.ID(), "exec", start, err)
	if err != nil {
		return nil, s.conn.wrap("exec", err)
	}
	return res, nil
}

func (s *Statement) QueryNamed(ctx context.Context, values map[string]any) (*QueryResult, error) {
	args, err := params.Args(s.names, values, s.declared)
	if err != nil {
		return nil, err
	}
	return s.Query(ctx, args...)
}

func (s *Statement) ExecNamed(ctx context.Context, values map[string]any) (sql.Result, error) {
	args, err := params.Args(s.names, values, s.declared)
	if err != nil {
		return nil, err
	}
	return s.Exec(ctx, args...)
}

func (s *Statement) Close() error {
	return s.conn.wrap("close", s.stmt.Close())
}
