package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	mssql "github.com/microsoft/go-mssqldb"
)

var (
	ErrResultConsumed   = errors.New("query result already consumed")
	ErrRewind           = errors.New("result iterator cannot be rewound once iteration has moved past the first row")
	ErrColumnOutOfRange = errors.New("column index out of range")
	ErrUnknownQuery     = errors.New("saved query not found")
)

// Error is the single error type returned for failed database operations.
// The driver error stays reachable through Unwrap, so errors.Is(err,
// sql.ErrNoRows) and errors.As(err, &pqErr) keep working.
type Error struct {
	Op       string // open, ping, query, exec, prepare, begin, commit, rollback, fetch, scan, close
	Conn     string
	Driver   string
	Code     string // driver specific error number or code, when known
	SQLState string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s: %s failed", e.Driver, e.Conn, e.Op)
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// codeExtractor pulls the code and SQLSTATE out of a driver error.
type codeExtractor func(err error) (code, sqlState string, ok bool)

var extractors []codeExtractor

func registerExtractor(fs ...codeExtractor) {
	extractors = append(extractors, fs...)
}

func init() {
	registerExtractor(pqCode, pgconnCode, mysqlCode, mssqlCode)
}

func pqCode(err error) (string, string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return "", "", false
	}
	return string(pqErr.Code), string(pqErr.Code), true
}

func pgconnCode(err error) (string, string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	return pgErr.Code, pgErr.Code, true
}

func mysqlCode(err error) (string, string, bool) {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return "", "", false
	}
	state := strings.TrimRight(string(myErr.SQLState[:]), "\x00")
	return strconv.Itoa(int(myErr.Number)), state, true
}

func mssqlCode(err error) (string, string, bool) {
	var msErr mssql.Error
	if !errors.As(err, &msErr) {
		return "", "", false
	}
	return strconv.Itoa(int(msErr.Number)), "", true
}

// wrapError translates err into an *Error. Errors that already are one
// pass through unchanged.
func wrapError(conn, driver, op string, err error) error {
	if err == nil {
		return nil
	}
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return err
	}

	e := &Error{Op: op, Conn: conn, Driver: driver, Err: err}
	for _, extract := range extractors {
		if code, state, ok := extract(err); ok {
			e.Code, e.SQLState = code, state
			break
		}
	}
	return e
}
