package config

import (
	"fmt"
	"os"
	"strings"
)

// Canonical driver names. Aliases are folded into these by NormalizeDriver.
const (
	DriverPostgres  = "postgres"
	DriverPgx       = "pgx"
	DriverMySQL     = "mysql"
	DriverSQLite    = "sqlite"
	DriverOracle    = "oracle"
	DriverSQLServer = "sqlserver"
)

var driverAliases = map[string]string{
	"postgres":   DriverPostgres,
	"postgresql": DriverPostgres,
	"pgx":        DriverPgx,
	"mysql":      DriverMySQL,
	"mariadb":    DriverMySQL,
	"sqlite":     DriverSQLite,
	"sqlite3":    DriverSQLite,
	"oracle":     DriverOracle,
	"godror":     DriverOracle,
	"sqlserver":  DriverSQLServer,
	"mssql":      DriverSQLServer,
}

// Database is a single named database configuration.
type Database struct {
	ID       string            `mapstructure:"-" yaml:"-"`
	Driver   string            `mapstructure:"driver" yaml:"driver"`
	DSN      string            `mapstructure:"dsn" yaml:"dsn"`
	Username string            `mapstructure:"username" yaml:"username,omitempty"`
	Password string            `mapstructure:"password" yaml:"password,omitempty"`
	Options  map[string]string `mapstructure:"options" yaml:"options,omitempty"`
	Queries  map[string]Query  `mapstructure:"queries" yaml:"queries,omitempty"`
}

// NormalizeDriver folds a driver name or alias into its canonical form.
func NormalizeDriver(name string) (string, bool) {
	d, ok := driverAliases[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// SupportedDrivers returns the canonical driver names.
func SupportedDrivers() []string {
	return []string{
		DriverPostgres,
		DriverPgx,
		DriverMySQL,
		DriverSQLite,
		DriverOracle,
		DriverSQLServer,
	}
}

// InferDriver attempts to infer the driver from a connection string.
// Returns the empty string if unable to infer.
func InferDriver(dsn string) string {
	conn := strings.TrimSpace(dsn)

	switch {
	case strings.HasPrefix(conn, "postgres://"), strings.HasPrefix(conn, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(conn, "mysql://"), strings.HasPrefix(conn, "mariadb://"):
		return DriverMySQL
	case strings.HasPrefix(conn, "sqlserver://"), strings.HasPrefix(conn, "mssql://"):
		return DriverSQLServer
	case strings.HasPrefix(conn, "oracle://"):
		return DriverOracle
	case strings.HasPrefix(conn, "file:"), conn == ":memory:":
		return DriverSQLite
	}

	if strings.HasSuffix(conn, ".db") ||
		strings.HasSuffix(conn, ".sqlite") ||
		strings.HasSuffix(conn, ".sqlite3") {
		return DriverSQLite
	}

	return ""
}

// Normalize fills in the id and the canonical driver, and validates the record.
func (d *Database) Normalize(id string) error {
	d.ID = normalizeID(id)
	if d.ID == "" {
		return fmt.Errorf("database configuration without id")
	}
	if strings.TrimSpace(d.DSN) == "" {
		return fmt.Errorf("database %q: dsn is required", d.ID)
	}

	driver := d.Driver
	if driver == "" {
		driver = InferDriver(d.DSN)
		if driver == "" {
			return fmt.Errorf("database %q: driver not set and could not be inferred from dsn", d.ID)
		}
	}
	canonical, ok := NormalizeDriver(driver)
	if !ok {
		return fmt.Errorf("database %q: unsupported driver %q", d.ID, driver)
	}
	d.Driver = canonical

	queries := make(map[string]Query, len(d.Queries))
	for key, q := range d.Queries {
		if q.Name == "" {
			q.Name = key
		}
		queries[q.Name] = q
	}
	d.Queries = queries
	return nil
}

// Expanded returns a copy with ${VAR} references in the dsn and the
// credentials replaced from the environment.
func (d *Database) Expanded() *Database {
	cp := *d
	cp.DSN = os.ExpandEnv(d.DSN)
	cp.Username = os.ExpandEnv(d.Username)
	cp.Password = os.ExpandEnv(d.Password)
	return &cp
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
