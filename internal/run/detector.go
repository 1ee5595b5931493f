package run

import "strings"

var selectKeywords = []string{"SELECT", "WITH", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "PRAGMA", "VALUES"}

var sqlKeywords = []string{
	"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "ALTER", "TRUNCATE",
	"WITH", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "GRANT", "REVOKE",
	"BEGIN", "COMMIT", "ROLLBACK", "PRAGMA", "VALUES", "MERGE", "CALL",
}

// IsSelectQuery reports whether sql returns rows.
func IsSelectQuery(sql string) bool {
	return startsWithKeyword(sql, selectKeywords)
}

// IsLikelySQL reports whether s looks like a statement rather than the
// name or id of a saved query.
func IsLikelySQL(s string) bool {
	return startsWithKeyword(s, sqlKeywords)
}

func startsWithKeyword(s string, keywords []string) bool {
	upper := strings.ToUpper(strings.TrimLeft(s, " \t\r\n("))
	for _, kw := range keywords {
		if upper == kw || strings.HasPrefix(upper, kw+" ") || strings.HasPrefix(upper, kw+"\n") || strings.HasPrefix(upper, kw+"\t") {
			return true
		}
	}
	return false
}
