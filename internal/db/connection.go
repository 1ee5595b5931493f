package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/eduardofuncao/pamdb/internal/config"
	"github.com/eduardofuncao/pamdb/internal/params"
)

var log = logging.Logger("db")

// querier is what *sql.DB and *sql.Tx have in common.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Connection is a named database connection. The driver handle is opened
// on first use and can be closed and reopened any number of times.
type Connection struct {
	cfg    *config.Database
	driver string
	info   driverInfo
	dsn    string
	pool   poolOptions

	mu sync.Mutex
	db *sql.DB
}

// NewConnection validates cfg and prepares the dsn. Nothing is opened.
func NewConnection(cfg *config.Database) (*Connection, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil database configuration")
	}
	expanded := cfg.Expanded()

	driver, ok := config.NormalizeDriver(expanded.Driver)
	if !ok {
		return nil, fmt.Errorf("connection %s: unsupported driver %q", cfg.ID, cfg.Driver)
	}
	info := drivers[driver]

	pool, driverOpts, err := splitOptions(expanded.Options)
	if err != nil {
		return nil, fmt.Errorf("connection %s: %w", cfg.ID, err)
	}
	dsn, err := info.buildDSN(expanded, driverOpts)
	if err != nil {
		return nil, fmt.Errorf("connection %s: %w", cfg.ID, err)
	}

	return &Connection{
		cfg:    cfg,
		driver: driver,
		info:   info,
		dsn:    dsn,
		pool:   pool,
	}, nil
}

func (c *Connection) ID() string     { return c.cfg.ID }
func (c *Connection) DBType() string { return c.driver }

// Config returns the configuration the connection was created from.
func (c *Connection) Config() *config.Database { return c.cfg }

func (c *Connection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db != nil
}

// Placeholder returns the driver's bind placeholder for the 1-based index.
func (c *Connection) Placeholder(i int) string { return c.info.placeholder(i) }

func (c *Connection) wrap(op string, err error) error {
	return wrapError(c.cfg.ID, c.driver, op, err)
}

func (c *Connection) open(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return c.db, nil
	}

	start := time.Now()
	db, err := sql.Open(c.info.sqlName, c.dsn)
	if err == nil {
		c.pool.apply(db)
		if err = db.PingContext(ctx); err != nil {
			db.Close()
		}
	}
	observe(c.cfg.ID, "open", start, err)
	if err != nil {
		log.Warnw("failed to open connection", "conn", c.cfg.ID, "driver", c.driver, "error", err)
		return nil, c.wrap("open", err)
	}

	c.db = db
	DBMeasures.OpenConnections.Inc()
	log.Infow("opened connection", "conn", c.cfg.ID, "driver", c.driver, "took", time.Since(start))
	return db, nil
}

// DB returns the underlying pool, opening it if needed.
func (c *Connection) DB(ctx context.Context) (*sql.DB, error) {
	return c.open(ctx)
}

// Ping opens the connection if needed and verifies it is alive.
func (c *Connection) Ping(ctx context.Context) error {
	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	start := time.Now()
	err = db.PingContext(ctx)
	observe(c.cfg.ID, "ping", start, err)
	return c.wrap("ping", err)
}

// Close closes the driver handle. Closing a closed connection is a no-op;
// the next use opens it again.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}

	err := c.db.Close()
	c.db = nil
	DBMeasures.OpenConnections.Dec()
	log.Debugw("closed connection", "conn", c.cfg.ID)
	return c.wrap("close", err)
}

func (c *Connection) Query(ctx context.Context, query string, args ...any) (*QueryResult, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	return c.query(ctx, db, query, args)
}

func (c *Connection) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	return c.exec(ctx, db, query, args)
}

func (c *Connection) Prepare(ctx context.Context, query string) (*Statement, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	return c.prepare(ctx, db, query, nil, nil)
}

// PrepareNamed prepares sql written with :name parameters. The returned
// statement accepts values by name through QueryNamed and ExecNamed.
func (c *Connection) PrepareNamed(ctx context.Context, query string) (*Statement, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	rewritten, names := params.Rewrite(query, c.info.placeholder)
	return c.prepare(ctx, db, rewritten, names, params.Extract(query))
}

// QueryNamed runs sql written with :name parameters.
func (c *Connection) QueryNamed(ctx context.Context, query string, values map[string]any) (*QueryResult, error) {
	rewritten, args, err := params.Bind(query, values, c.info.placeholder)
	if err != nil {
		return nil, err
	}
	return c.Query(ctx, rewritten, args...)
}

// ExecNamed runs sql written with :name parameters.
func (c *Connection) ExecNamed(ctx context.Context, query string, values map[string]any) (sql.Result, error) {
	rewritten, args, err := params.Bind(query, values, c.info.placeholder)
	if err != nil {
		return nil, err
	}
	return c.Exec(ctx, rewritten, args...)
}

// RunQuery runs a saved query, found by id or name, with named values.
func (c *Connection) RunQuery(ctx context.Context, selector string, values map[string]any) (*QueryResult, error) {
	q, ok := config.FindQuery(c.cfg.Queries, selector)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownQuery, selector, c.cfg.ID)
	}
	log.Debugw("running saved query", "conn", c.cfg.ID, "query", q.Name)
	return c.QueryNamed(ctx, q.SQL, values)
}

func (c *Connection) Begin(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	tx, err := db.BeginTx(ctx, opts)
	observe(c.cfg.ID, "begin", start, err)
	if err != nil {
		return nil, c.wrap("begin", err)
	}
	return &Tx{conn: c, tx: tx}, nil
}

// Transaction runs fn inside a transaction. It commits when fn returns nil
// and rolls back when fn fails or panics. Panics are re-raised after the
// rollback.
func (c *Connection) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := c.Begin(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (c *Connection) FetchOne(ctx context.Context, query string, args ...any) (Row, error) {
	return fetchOne(ctx, c, query, args)
}

func (c *Connection) FetchAll(ctx context.Context, query string, args ...any) ([]Row, error) {
	return fetchAll(ctx, c, query, args)
}

func (c *Connection) FetchColumn(ctx context.Context, column int, query string, args ...any) ([]any, error) {
	return fetchColumn(ctx, c, column, query, args)
}

func (c *Connection) FetchValue(ctx context.Context, query string, args ...any) (any, error) {
	return fetchValue(ctx, c, query, args)
}

// Get scans the single row returned by query into dst.
func (c *Connection) Get(ctx context.Context, dst any, query string, args ...any) error {
	return get(ctx, c, dst, query, args)
}

// Select scans every row returned by query into dst, a pointer to a slice.
func (c *Connection) Select(ctx context.Context, dst any, query string, args ...any) error {
	return selectAll(ctx, c, dst, query, args)
}

func (c *Connection) query(ctx context.Context, q querier, query string, args []any) (*QueryResult, error) {
	start := time.Now()
	rows, err := q.QueryContext(ctx, query, args...)
	observe(c.cfg.ID, "query", start, err)
	if err != nil {
		log.Debugw("query failed", "conn", c.cfg.ID, "error", err)
		return nil, c.wrap("query", err)
	}
	return newQueryResult(rows, c.wrap)
}

func (c *Connection) exec(ctx context.Context, q querier, query string, args []any) (sql.Result, error) {
	start := time.Now()
	res, err := q.ExecContext(ctx, query, args...)
	observe(c.cfg.ID, "exec", start, err)
	if err != nil {
		log.Debugw("exec failed", "conn", c.cfg.ID, "error", err)
		return nil, c.wrap("exec", err)
	}
	return res, nil
}

func (c *Connection) prepare(ctx context.Context, q querier, query string, names []string, declared []params.Param) (*Statement, error) {
	start := time.Now()
	stmt, err := q.PrepareContext(ctx, query)
	observe(c.cfg.ID, "prepare", start, err)
	if err != nil {
		return nil, c.wrap("prepare", err)
	}
	return &Statement{conn: c, stmt: stmt, sql: query, names: names, declared: declared}, nil
}
