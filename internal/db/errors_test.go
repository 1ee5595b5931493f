package db

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  string
		wantState string
	}{
		{name: "pq", err: &pq.Error{Code: "23505", Message: "duplicate"}, wantCode: "23505", wantState: "23505"},
		{name: "pgconn", err: &pgconn.PgError{Code: "42P01", Message: "missing table"}, wantCode: "42P01", wantState: "42P01"},
		{name: "mysql", err: &mysql.MySQLError{Number: 1062, SQLState: [5]byte{'2', '3', '0', '0', '0'}, Message: "dup"}, wantCode: "1062", wantState: "23000"},
		{name: "mssql", err: mssql.Error{Number: 2627, Message: "dup"}, wantCode: "2627"},
		{name: "plain", err: errors.New("broken pipe")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapError("main", "postgres", "query", tt.err)

			var dbErr *Error
			if !errors.As(err, &dbErr) {
				t.Fatalf("wrapError() = %T, want *Error", err)
			}
			if dbErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", dbErr.Code, tt.wantCode)
			}
			if dbErr.SQLState != tt.wantState {
				t.Errorf("SQLState = %q, want %q", dbErr.SQLState, tt.wantState)
			}
			if !reflect.DeepEqual(errors.Unwrap(err), tt.err) {
				t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), tt.err)
			}
		})
	}
}

func TestWrapErrorPassThrough(t *testing.T) {
	req := require.New(t)

	req.NoError(wrapError("main", "mysql", "exec", nil))

	first := wrapError("main", "mysql", "exec", sql.ErrNoRows)
	req.Same(first, wrapError("other", "pgx", "fetch", first))
	req.ErrorIs(first, sql.ErrNoRows)
	req.Equal("mysql/main: exec failed: sql: no rows in result set", first.Error())

	coded := &Error{Op: "query", Conn: "main", Driver: "postgres", Code: "23505", Err: errors.New("dup")}
	req.Equal("postgres/main: query failed [23505]: dup", coded.Error())
}

func TestNextKeepsFirstError(t *testing.T) {
	req := require.New(t)

	first := errors.New("row 2: integer overflow")
	res := &QueryResult{consumed: true, closed: true, err: first}

	req.False(res.Next())
	req.Same(first, res.Err())
	req.False(res.Next())
	req.Same(first, res.Err())
}
