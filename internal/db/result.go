package db

import (
	"database/sql"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"
)

// Row is one fetched row. Values keep the column order.
type Row struct {
	columns []string
	values  []any
}

func (r Row) Columns() []string { return r.columns }
func (r Row) Values() []any     { return r.values }
func (r Row) Len() int          { return len(r.values) }

// Value returns the i-th value, nil when out of range.
func (r Row) Value(i int) any {
	if i < 0 || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// Get returns the value of the first column called name.
func (r Row) Get(name string) (any, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], true
		}
	}
	return nil, false
}

func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		if _, dup := m[c]; !dup {
			m[c] = r.values[i]
		}
	}
	return m
}

// QueryResult wraps a forward-only cursor. It can be consumed once, either
// by one of the fetch helpers, by its iterator, or through Next/Scan.
type QueryResult struct {
	rows    *sql.Rows
	columns []string
	wrap    func(op string, err error) error

	consumed bool
	raw      bool
	closed   bool
	err      error
	iter     *ResultIterator
}

func newQueryResult(rows *sql.Rows, wrap func(string, error) error) (*QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, wrap("fetch", err)
	}
	return &QueryResult{rows: rows, columns: columns, wrap: wrap}, nil
}

func (r *QueryResult) Columns() []string { return r.columns }

// Next advances the underlying cursor for use with Scan.
func (r *QueryResult) Next() bool {
	if !r.raw {
		if err := r.claim(); err != nil {
			if r.err == nil {
				r.err = err
			}
			return false
		}
		r.raw = true
	}
	if r.closed {
		return false
	}
	if !r.rows.Next() {
		r.finish()
		return false
	}
	return true
}

// Row returns the row Next moved to.
func (r *QueryResult) Row() (Row, error) {
	return r.readRow()
}

func (r *QueryResult) Scan(dest ...any) error {
	return r.wrap("scan", r.rows.Scan(dest...))
}

// Err returns the error, if any, that was encountered during iteration.
func (r *QueryResult) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.wrap("fetch", r.rows.Err())
}

func (r *QueryResult) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.wrap("close", r.rows.Close())
}

func (r *QueryResult) claim() error {
	if r.consumed {
		return ErrResultConsumed
	}
	r.consumed = true
	return nil
}

// finish closes the cursor and keeps the first iteration error.
func (r *QueryResult) finish() {
	if err := r.rows.Err(); err != nil && r.err == nil {
		r.err = r.wrap("fetch", err)
	}
	if err := r.Close(); err != nil && r.err == nil {
		r.err = err
	}
}

// scanNext reads the next row. ok is false once the cursor is exhausted,
// at which point it has been closed.
func (r *QueryResult) scanNext() (Row, bool, error) {
	if r.closed {
		return Row{}, false, r.err
	}
	if !r.rows.Next() {
		r.finish()
		return Row{}, false, r.err
	}

	row, err := r.readRow()
	if err != nil {
		r.err = err
		r.Close()
		return Row{}, false, err
	}
	return row, true, nil
}

// readRow scans the current cursor position into a Row.
func (r *QueryResult) readRow() (Row, error) {
	values := make([]any, len(r.columns))
	ptrs := make([]any, len(r.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return Row{}, r.wrap("scan", err)
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return Row{columns: r.columns, values: values}, nil
}

// FetchOne returns the first row and discards the rest. An empty result
// is an error wrapping sql.ErrNoRows.
func (r *QueryResult) FetchOne() (Row, error) {
	if err := r.claim(); err != nil {
		return Row{}, err
	}
	defer r.Close()

	row, ok, err := r.scanNext()
	if err != nil {
		return Row{}, err
	}
	if !ok {
		return Row{}, r.wrap("fetch", sql.ErrNoRows)
	}
	return row, nil
}

// FetchAll returns every row. An empty result yields an empty slice.
func (r *QueryResult) FetchAll() ([]Row, error) {
	if err := r.claim(); err != nil {
		return nil, err
	}
	defer r.Close()

	rows := []Row{}
	for {
		row, ok, err := r.scanNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

// FetchColumn returns the values of column i from every row. The result is
// consumed even when i is out of range.
func (r *QueryResult) FetchColumn(i int) ([]any, error) {
	if err := r.claim(); err != nil {
		return nil, err
	}
	defer r.Close()

	if i < 0 || i >= len(r.columns) {
		return nil, fmt.Errorf("%w: %d of %d", ErrColumnOutOfRange, i, len(r.columns))
	}

	values := []any{}
	for {
		row, ok, err := r.scanNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			return values, nil
		}
		values = append(values, row.values[i])
	}
}

// FetchValue returns the first column of the first row.
func (r *QueryResult) FetchValue() (any, error) {
	if err := r.claim(); err != nil {
		return nil, err
	}
	defer r.Close()

	if len(r.columns) == 0 {
		return nil, fmt.Errorf("%w: result has no columns", ErrColumnOutOfRange)
	}
	row, ok, err := r.scanNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, r.wrap("fetch", sql.ErrNoRows)
	}
	return row.values[0], nil
}

// ScanOne scans the single row of the result into dst, a pointer to a
// struct, map or scalar. No rows is an error wrapping sql.ErrNoRows.
func (r *QueryResult) ScanOne(dst any) error {
	if err := r.claim(); err != nil {
		return err
	}
	defer r.Close()
	return r.wrap("scan", sqlscan.ScanOne(dst, r.rows))
}

// ScanAll scans every row into dst, a pointer to a slice.
func (r *QueryResult) ScanAll(dst any) error {
	if err := r.claim(); err != nil {
		return err
	}
	defer r.Close()
	return r.wrap("scan", sqlscan.ScanAll(dst, r.rows))
}

// Iterator returns the single-pass iterator over this result. Repeated
// calls return the same iterator.
func (r *QueryResult) Iterator() *ResultIterator {
	if r.iter == nil {
		r.iter = &ResultIterator{result: r}
	}
	return r.iter
}
