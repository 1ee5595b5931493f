package db

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eduardofuncao/pamdb/internal/config"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Database
		opts map[string]string
		want string
	}{
		{
			name: "postgres url",
			cfg:  config.Database{Driver: config.DriverPostgres, DSN: "postgres://localhost:5432/app", Username: "app", Password: "pw"},
			opts: map[string]string{"sslmode": "disable"},
			want: "postgres://app:pw@localhost:5432/app?sslmode=disable",
		},
		{
			name: "postgres url keeps its own user",
			cfg:  config.Database{Driver: config.DriverPgx, DSN: "postgres://owner@localhost/app", Username: "app"},
			want: "postgres://owner@localhost/app",
		},
		{
			name: "postgres keywords",
			cfg:  config.Database{Driver: config.DriverPostgres, DSN: "host=localhost dbname=app", Username: "app", Password: "s3cret x"},
			want: "host=localhost dbname=app user=app password='s3cret x'",
		},
		{
			name: "postgres keywords already set",
			cfg:  config.Database{Driver: config.DriverPostgres, DSN: "host=localhost user=root", Username: "app"},
			want: "host=localhost user=root",
		},
		{
			name: "sqlserver keywords",
			cfg:  config.Database{Driver: config.DriverSQLServer, DSN: "server=localhost;database=app", Username: "sa", Password: "pw"},
			want: "server=localhost;database=app;user id=sa;password=pw",
		},
		{
			name: "sqlite ignores credentials",
			cfg:  config.Database{Driver: config.DriverSQLite, DSN: "/tmp/app.db", Username: "ignored"},
			want: "/tmp/app.db",
		},
		{
			name: "sqlite options",
			cfg:  config.Database{Driver: config.DriverSQLite, DSN: "/tmp/app.db"},
			opts: map[string]string{"_busy_timeout": "5000"},
			want: "file:/tmp/app.db?_busy_timeout=5000",
		},
		{
			name: "oracle connect string",
			cfg:  config.Database{Driver: config.DriverOracle, DSN: "db:1521/svc", Username: "scott", Password: "tiger"},
			want: `connectString="db:1521/svc" user="scott" password="tiger"`,
		},
		{
			name: "oracle lower-cased option",
			cfg:  config.Database{Driver: config.DriverOracle, DSN: "db:1521/svc"},
			opts: map[string]string{"poolmaxsessions": "4"},
			want: `connectString="db:1521/svc" poolMaxSessions="4"`,
		},
		{
			name: "oracle easy connect",
			cfg:  config.Database{Driver: config.DriverOracle, DSN: "scott/tiger@db:1521/svc", Username: "other"},
			want: "scott/tiger@db:1521/svc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := drivers[tt.cfg.Driver].buildDSN(&tt.cfg, tt.opts)
			if err != nil {
				t.Fatalf("buildDSN() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("buildDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	req := require.New(t)

	got, err := mysqlDSN(&config.Database{DSN: "tcp(localhost:3306)/app", Username: "u", Password: "p"}, map[string]string{"foo": "bar"})
	req.NoError(err)
	req.True(strings.HasPrefix(got, "u:p@tcp(localhost:3306)/app?"), got)
	req.Contains(got, "foo=bar")

	got, err = mysqlDSN(&config.Database{DSN: "mysql://root:pw@db:3306/shop", Username: "ignored"}, nil)
	req.NoError(err)
	req.True(strings.HasPrefix(got, "root:pw@tcp(db:3306)/shop"), got)

	got, err = mysqlDSN(&config.Database{DSN: "tcp(localhost:3306)/app"}, map[string]string{"parsetime": "true", "MultiStatements": "true"})
	req.NoError(err)
	req.Contains(got, "parseTime=true")
	req.Contains(got, "multiStatements=true")
	req.NotContains(got, "parsetime")
}

func TestSplitOptions(t *testing.T) {
	req := require.New(t)

	pool, rest, err := splitOptions(map[string]string{
		"max_open_conns":    "5",
		"conn_max_lifetime": "1m",
		"sslmode":           "disable",
	})
	req.NoError(err)
	req.Equal(5, pool.maxOpen)
	req.Equal(-1, pool.maxIdle)
	req.Equal(time.Minute, pool.maxLifetime)
	req.Equal(map[string]string{"sslmode": "disable"}, rest)

	_, _, err = splitOptions(map[string]string{"max_idle_conns": "lots"})
	req.Error(err)
}

func TestPlaceholders(t *testing.T) {
	tests := map[string]string{
		config.DriverPostgres:  "$2",
		config.DriverPgx:       "$2",
		config.DriverOracle:    ":2",
		config.DriverSQLServer: "@p2",
		config.DriverMySQL:     "?",
		config.DriverSQLite:    "?",
	}
	for driver, want := range tests {
		if got := drivers[driver].placeholder(2); got != want {
			t.Errorf("%s placeholder(2) = %q, want %q", driver, got, want)
		}
	}
}
