package parser

import (
	"regexp"
	"strings"

	"github.com/eduardofuncao/pamdb/internal/styles"
)

// clauses start a new line when formatting. Longest first.
var clauses = []string{
	"FULL OUTER JOIN", "LEFT OUTER JOIN", "RIGHT OUTER JOIN",
	"LEFT JOIN", "RIGHT JOIN", "INNER JOIN", "FULL JOIN", "CROSS JOIN",
	"INSERT INTO", "DELETE FROM", "GROUP BY", "ORDER BY",
	"UNION ALL", "FETCH FIRST",
	"SELECT", "FROM", "WHERE", "HAVING",
	"LIMIT", "OFFSET", "UNION", "UPDATE", "VALUES", "SET",
}

var highlightKeywords = []string{
	"SELECT", "FROM", "WHERE", "JOIN", "LEFT", "RIGHT", "INNER", "FULL", "CROSS", "OUTER",
	"ON", "GROUP", "BY", "HAVING", "ORDER", "LIMIT", "OFFSET", "UNION", "ALL",
	"INSERT", "INTO", "UPDATE", "DELETE", "VALUES", "SET", "AND", "OR", "NOT",
	"IN", "EXISTS", "BETWEEN", "LIKE", "IS", "NULL", "DISTINCT", "AS",
	"CASE", "WHEN", "THEN", "ELSE", "END", "FETCH", "FIRST", "ROWS", "ONLY",
	"CREATE", "TABLE", "DROP", "ALTER", "WITH", "RETURNING",
}

var (
	clauseRegex  = wordsRegex(clauses)
	keywordRegex = wordsRegex(highlightKeywords)
)

func wordsRegex(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(w), " ", `\s+`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// FormatSQLWithLineBreaks puts every major clause on its own line.
func FormatSQLWithLineBreaks(sql string) string {
	if sql == "" {
		return ""
	}

	formatted := clauseRegex.ReplaceAllStringFunc(sql, func(match string) string {
		return "\n" + match
	})

	var lines []string
	for _, line := range strings.Split(formatted, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

// HighlightSQL colors keywords and string literals for the terminal.
func HighlightSQL(sql string) string {
	var b strings.Builder
	for i, part := range strings.Split(sql, "'") {
		if i > 0 {
			b.WriteString(styles.SQLString.Render("'"))
		}
		if i%2 == 1 {
			b.WriteString(styles.SQLString.Render(part))
			continue
		}
		b.WriteString(keywordRegex.ReplaceAllStringFunc(part, func(s string) string { return styles.SQLKeyword.Render(s) }))
	}
	return b.String()
}
