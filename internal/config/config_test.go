package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFileYAML(t *testing.T) {
	req := require.New(t)

	path := writeConfig(t, "config.yaml", `
default_connection: Main
connections:
  main:
    driver: postgresql
    dsn: postgres://localhost/app
    username: app
    options:
      max_open_conns: 10
  reports:
    dsn: /var/lib/reports.sqlite
    queries:
      daily:
        name: daily
        id: 1
        sql: SELECT * FROM daily
`)

	f, err := LoadFile(path)
	req.NoError(err)
	req.Equal("main", f.DefaultID())
	req.Equal([]string{"main", "reports"}, f.IDs())
	req.True(f.FallbackToDefault())

	main, err := f.Get("MAIN")
	req.NoError(err)
	req.Equal("main", main.ID)
	req.Equal(DriverPostgres, main.Driver)
	req.Equal("app", main.Username)
	req.Equal("10", main.Options["max_open_conns"])

	reports, err := f.Get("reports")
	req.NoError(err)
	req.Equal(DriverSQLite, reports.Driver)
	q, ok := FindQuery(reports.Queries, "1")
	req.True(ok)
	req.Equal("SELECT * FROM daily", q.SQL)
}

func TestLoadFileINI(t *testing.T) {
	req := require.New(t)

	path := writeConfig(t, "database.ini", `
default_connection = legacy
fallback_to_default = false

[connections.legacy]
driver = mysql
dsn = tcp(127.0.0.1:3306)/legacy
username = root
password = ${LEGACY_DB_PASSWORD}
`)

	f, err := LoadFile(path)
	req.NoError(err)
	req.Equal("legacy", f.DefaultID())
	req.False(f.FallbackToDefault())

	d, err := f.Resolve("")
	req.NoError(err)
	req.Equal(DriverMySQL, d.Driver)
	req.Equal("${LEGACY_DB_PASSWORD}", d.Password)

	t.Setenv("LEGACY_DB_PASSWORD", "s3cret")
	req.Equal("s3cret", d.Expanded().Password)
	req.Equal("${LEGACY_DB_PASSWORD}", d.Password, "expansion must not modify the record")
}

func TestLoadFileProperties(t *testing.T) {
	req := require.New(t)

	path := writeConfig(t, "db.properties", `
connections.default.driver = sqlite3
connections.default.dsn = file:app.db
`)

	f, err := LoadFile(path)
	req.NoError(err)
	req.Equal(DefaultID, f.DefaultID())
	req.True(f.Has("default"))

	d, err := f.Resolve("missing")
	req.NoError(err)
	req.Equal("default", d.ID)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "missing dsn",
			file:    "config.yaml",
			content: "connections:\n  main:\n    driver: postgres\n",
		},
		{
			name:    "unknown driver",
			file:    "config.yaml",
			content: "connections:\n  main:\n    driver: cobol\n    dsn: x\n",
		},
		{
			name:    "driver cannot be inferred",
			file:    "config.yaml",
			content: "connections:\n  main:\n    dsn: host=localhost\n",
		},
		{
			name:    "unsupported format",
			file:    "config.xml",
			content: "<connections/>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Errorf("LoadFile() error = nil, want error")
			}
		})
	}
}

func TestKeyCaseSurvivesSave(t *testing.T) {
	req := require.New(t)

	path := writeConfig(t, "config.yaml", `
connections:
  shop:
    driver: mysql
    dsn: tcp(localhost:3306)/shop
    options:
      parseTime: true
      interpolateParams: "true"
    queries:
      DailyReport:
        name: DailyReport
        id: 1
        sql: SELECT * FROM orders WHERE day = :day
      topSellers:
        id: 2
        sql: SELECT * FROM products
`)

	check := func(f *File) {
		d, err := f.Get("shop")
		req.NoError(err)
		req.Equal(map[string]string{"parseTime": "true", "interpolateParams": "true"}, d.Options)

		q, ok := FindQuery(d.Queries, "DailyReport")
		req.True(ok)
		req.Equal(1, q.ID)
		q, ok = FindQuery(d.Queries, "topSellers")
		req.True(ok)
		req.Equal("topSellers", q.Name)

		_, err = d.SaveQuery(Query{Name: "DailyReport", SQL: "SELECT 1"})
		req.Error(err)
	}

	f, err := LoadFile(path)
	req.NoError(err)
	check(f)

	req.NoError(f.Save())
	reloaded, err := LoadFile(path)
	req.NoError(err)
	check(reloaded)
}

func TestLoadMissingFileStartsBlank(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	f, err := Load(path)
	req.NoError(err)
	req.Empty(f.IDs())
	req.Equal(path, f.Path())

	req.NoError(f.Add(&Database{ID: "Local", DSN: "local.db"}))
	req.NoError(f.SetDefault("local"))
	req.NoError(f.Save())

	reloaded, err := LoadFile(path)
	req.NoError(err)
	req.Equal("local", reloaded.DefaultID())
	d, err := reloaded.Get("local")
	req.NoError(err)
	req.Equal(DriverSQLite, d.Driver)
}

func TestSetDefaultUnknown(t *testing.T) {
	f := &File{Connections: map[string]*Database{}}
	err := f.SetDefault("nope")
	require.ErrorIs(t, err, ErrUnknownConfiguration)
}

func TestInferDriver(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://user@localhost/db", DriverPostgres},
		{"postgresql://localhost/db", DriverPostgres},
		{"mysql://localhost/db", DriverMySQL},
		{"sqlserver://sa@localhost", DriverSQLServer},
		{"file:test.db?cache=shared", DriverSQLite},
		{":memory:", DriverSQLite},
		{"/tmp/app.sqlite3", DriverSQLite},
		{"user:pass@tcp(localhost)/db", ""},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			if got := InferDriver(tt.dsn); got != tt.want {
				t.Errorf("InferDriver(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}
