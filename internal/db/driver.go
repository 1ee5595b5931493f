package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/eduardofuncao/pamdb/internal/config"
)

type driverInfo struct {
	// name registered with database/sql
	sqlName     string
	placeholder func(index int) string
	buildDSN    func(cfg *config.Database, opts map[string]string) (string, error)
}

var drivers = map[string]driverInfo{
	config.DriverPostgres:  {sqlName: "postgres", placeholder: dollarPlaceholder, buildDSN: postgresDSN},
	config.DriverPgx:       {sqlName: "pgx", placeholder: dollarPlaceholder, buildDSN: postgresDSN},
	config.DriverMySQL:     {sqlName: "mysql", placeholder: questionPlaceholder, buildDSN: mysqlDSN},
	config.DriverSQLite:    {sqlName: "sqlite3", placeholder: questionPlaceholder, buildDSN: sqliteDSN},
	config.DriverOracle:    {sqlName: "godror", placeholder: oraclePlaceholder, buildDSN: oracleDSN},
	config.DriverSQLServer: {sqlName: "sqlserver", placeholder: sqlServerPlaceholder, buildDSN: sqlServerDSN},
}

func dollarPlaceholder(i int) string    { return fmt.Sprintf("$%d", i) }
func oraclePlaceholder(i int) string    { return fmt.Sprintf(":%d", i) }
func sqlServerPlaceholder(i int) string { return fmt.Sprintf("@p%d", i) }
func questionPlaceholder(int) string    { return "?" }

// Pool options understood in Database.Options. Everything else is passed
// to the driver through the dsn.
const (
	optMaxOpenConns    = "max_open_conns"
	optMaxIdleConns    = "max_idle_conns"
	optConnMaxLifetime = "conn_max_lifetime"
	optConnMaxIdleTime = "conn_max_idle_time"
)

type poolOptions struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

func splitOptions(options map[string]string) (poolOptions, map[string]string, error) {
	pool := poolOptions{maxOpen: -1, maxIdle: -1}
	driverOpts := make(map[string]string)

	for k, v := range options {
		var err error
		switch strings.ToLower(k) {
		case optMaxOpenConns:
			pool.maxOpen, err = strconv.Atoi(v)
		case optMaxIdleConns:
			pool.maxIdle, err = strconv.Atoi(v)
		case optConnMaxLifetime:
			pool.maxLifetime, err = time.ParseDuration(v)
		case optConnMaxIdleTime:
			pool.maxIdleTime, err = time.ParseDuration(v)
		default:
			driverOpts[k] = v
		}
		if err != nil {
			return pool, nil, fmt.Errorf("option %s: %w", k, err)
		}
	}
	return pool, driverOpts, nil
}

// apply sets the options that were given on the pool.
func (p poolOptions) apply(db *sql.DB) {
	if p.maxOpen >= 0 {
		db.SetMaxOpenConns(p.maxOpen)
	}
	if p.maxIdle >= 0 {
		db.SetMaxIdleConns(p.maxIdle)
	}
	if p.maxLifetime > 0 {
		db.SetConnMaxLifetime(p.maxLifetime)
	}
	if p.maxIdleTime > 0 {
		db.SetConnMaxIdleTime(p.maxIdleTime)
	}
}

// sortedKeys keeps generated dsns stable.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mysql and godror option names are case sensitive. These tables restore
// their spelling when a config format folded keys to lower case.
var (
	mysqlParams = caseTable(
		"allowAllFiles", "allowCleartextPasswords", "allowFallbackToPlaintext",
		"allowNativePasswords", "allowOldPasswords", "checkConnLiveness",
		"clientFoundRows", "columnsWithAlias", "connectionAttributes",
		"interpolateParams", "maxAllowedPacket", "multiStatements", "parseTime",
		"readTimeout", "rejectReadOnly", "serverPubKey", "writeTimeout",
	)
	oracleParams = caseTable(
		"configDir", "connectionClass", "enableEvents", "externalAuth",
		"heterogeneousPool", "libDir", "noTimezoneCheck", "perSessionTimezone",
		"poolIncrement", "poolMaxSessions", "poolMinSessions",
		"poolSessionMaxLifetime", "poolSessionTimeout", "poolWaitTimeout",
		"standaloneConnection",
	)
)

func caseTable(names ...string) map[string]string {
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[strings.ToLower(n)] = n
	}
	return m
}

func canonicalKeys(opts, known map[string]string) map[string]string {
	out := make(map[string]string, len(opts))
	for k, v := range opts {
		if name, ok := known[strings.ToLower(k)]; ok {
			k = name
		}
		out[k] = v
	}
	return out
}

func isURL(dsn string) bool {
	return strings.Contains(dsn, "://")
}

// urlDSN merges credentials and options into a url style dsn.
func urlDSN(dsn, user, pass string, opts map[string]string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	if user != "" && (u.User == nil || u.User.Username() == "") {
		if pass != "" {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(user)
		}
	}
	if len(opts) > 0 {
		q := u.Query()
		for _, k := range sortedKeys(opts) {
			q.Set(k, opts[k])
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// keywordDSN appends key=value pairs to a "host=x user=y" style dsn unless
// the key is already present.
func keywordDSN(dsn, sep string, pairs [][2]string) string {
	lower := strings.ToLower(dsn)
	var b strings.Builder
	b.WriteString(strings.TrimRight(dsn, sep+" "))
	for _, kv := range pairs {
		if kv[1] == "" || strings.Contains(lower, strings.ToLower(kv[0])+"=") {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(kv[0])
		b.WriteString("=")
		b.WriteString(kv[1])
	}
	return b.String()
}

func pqQuote(v string) string {
	if v == "" || strings.ContainsAny(v, ` '\`) {
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
	}
	return v
}

func postgresDSN(cfg *config.Database, opts map[string]string) (string, error) {
	if isURL(cfg.DSN) {
		return urlDSN(cfg.DSN, cfg.Username, cfg.Password, opts)
	}
	var pairs [][2]string
	if cfg.Username != "" {
		pairs = append(pairs, [2]string{"user", pqQuote(cfg.Username)})
	}
	if cfg.Password != "" {
		pairs = append(pairs, [2]string{"password", pqQuote(cfg.Password)})
	}
	for _, k := range sortedKeys(opts) {
		pairs = append(pairs, [2]string{k, pqQuote(opts[k])})
	}
	return keywordDSN(cfg.DSN, " ", pairs), nil
}

func sqlServerDSN(cfg *config.Database, opts map[string]string) (string, error) {
	if isURL(cfg.DSN) {
		return urlDSN(cfg.DSN, cfg.Username, cfg.Password, opts)
	}
	pairs := [][2]string{{"user id", cfg.Username}, {"password", cfg.Password}}
	for _, k := range sortedKeys(opts) {
		pairs = append(pairs, [2]string{k, opts[k]})
	}
	return keywordDSN(cfg.DSN, ";", pairs), nil
}

func mysqlDSN(cfg *config.Database, opts map[string]string) (string, error) {
	var (
		mc  *mysql.Config
		err error
	)
	if strings.HasPrefix(cfg.DSN, "mysql://") || strings.HasPrefix(cfg.DSN, "mariadb://") {
		mc, err = mysqlConfigFromURL(cfg.DSN)
	} else {
		mc, err = mysql.ParseDSN(cfg.DSN)
	}
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}

	if mc.User == "" {
		mc.User = cfg.Username
	}
	if mc.Passwd == "" {
		mc.Passwd = cfg.Password
	}
	opts = canonicalKeys(opts, mysqlParams)
	for _, k := range sortedKeys(opts) {
		if mc.Params == nil {
			mc.Params = make(map[string]string)
		}
		mc.Params[k] = opts[k]
	}
	return mc.FormatDSN(), nil
}

func mysqlConfigFromURL(dsn string) (*mysql.Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = u.Host
	mc.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		mc.User = u.User.Username()
		mc.Passwd, _ = u.User.Password()
	}
	if q := u.Query(); len(q) > 0 {
		mc.Params = make(map[string]string, len(q))
		for k := range q {
			mc.Params[k] = q.Get(k)
		}
	}
	return mc, nil
}

// sqliteDSN ignores credentials. Options become uri parameters.
func sqliteDSN(cfg *config.Database, opts map[string]string) (string, error) {
	if len(opts) == 0 {
		return cfg.DSN, nil
	}
	dsn := cfg.DSN
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	q := url.Values{}
	for _, k := range sortedKeys(opts) {
		q.Set(k, opts[k])
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + q.Encode(), nil
}

// oracleDSN produces a godror logfmt connect string when credentials are
// given separately, e.g. user="scott" password="tiger" connectString="db/svc".
// Easy connect strings (scott/tiger@db/svc) are used as they are.
func oracleDSN(cfg *config.Database, opts map[string]string) (string, error) {
	if isURL(cfg.DSN) {
		return urlDSN(cfg.DSN, cfg.Username, cfg.Password, opts)
	}
	if strings.Contains(cfg.DSN, "@") {
		return cfg.DSN, nil
	}

	dsn := cfg.DSN
	if !strings.Contains(dsn, "connectString=") {
		dsn = fmt.Sprintf("connectString=%q", dsn)
	}

	var pairs [][2]string
	if cfg.Username != "" {
		pairs = append(pairs,
			[2]string{"user", strconv.Quote(cfg.Username)},
			[2]string{"password", strconv.Quote(cfg.Password)},
		)
	}
	opts = canonicalKeys(opts, oracleParams)
	for _, k := range sortedKeys(opts) {
		pairs = append(pairs, [2]string{k, strconv.Quote(opts[k])})
	}
	return keywordDSN(dsn, " ", pairs), nil
}
