// Package params handles :name and :name|default parameters in SQL text.
package params

import (
	"regexp"
	"strings"
)

// Matches :param_name|default_value. The default may be a quoted string
// with spaces: 'Green apple'. Group 1 is the name, group 2 the default.
var paramRegex = regexp.MustCompile(`:([A-Za-z_]\w*)(?:\|('(?:[^'\\]|\\.)*'|(?:[^'\s\\,)]+)))?`)

// Param is a named parameter found in SQL text.
type Param struct {
	Name       string
	Default    string
	HasDefault bool
}

// Extract returns the parameters in order of first appearance. Comments
// are ignored, and so are postgres casts such as ::int.
func Extract(sql string) []Param {
	clean := removeComments(sql)

	var out []Param
	seen := make(map[string]int)
	for _, m := range findParams(clean) {
		name := clean[m[2]:m[3]]
		p := Param{Name: name}
		if m[4] >= 0 {
			p.Default = unquote(clean[m[4]:m[5]])
			p.HasDefault = true
		}

		if i, ok := seen[name]; ok {
			if p.HasDefault {
				out[i] = p
			}
			continue
		}
		seen[name] = len(out)
		out = append(out, p)
	}
	return out
}

// Defaults maps every parameter name to its default value, "" when none.
func Defaults(sql string) map[string]string {
	defs := make(map[string]string)
	for _, p := range Extract(sql) {
		defs[p.Name] = p.Default
	}
	return defs
}

// Required maps the parameters declared without a default to "". An
// explicit empty default is not required.
func Required(sql string) map[string]string {
	req := make(map[string]string)
	for _, p := range Extract(sql) {
		if !p.HasDefault {
			req[p.Name] = ""
		}
	}
	return req
}

// findParams returns the regex matches that are real parameters: not part
// of a cast, a string literal, a quoted identifier or a comment.
func findParams(sql string) [][]int {
	skip := scan(sql)

	var out [][]int
	for _, m := range paramRegex.FindAllStringSubmatchIndex(sql, -1) {
		if m[0] > 0 && sql[m[0]-1] == ':' {
			continue
		}
		if within(skip, m[0]) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func unquote(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && strings.HasPrefix(v, "'") && strings.HasSuffix(v, "'") {
		v = v[1 : len(v)-1]
		v = strings.ReplaceAll(v, "''", "'")
		v = strings.ReplaceAll(v, "\\'", "'")
	}
	return v
}

// span is a byte range of sql that holds no parameters.
type span struct {
	start, end int
	comment    bool
}

// scan finds string literals, quoted identifiers and comments. Quotes
// inside comments and comment markers inside quotes are plain text. A
// doubled quote inside a literal is an escaped quote.
func scan(sql string) []span {
	var out []span
	for i := 0; i < len(sql); i++ {
		switch {
		case sql[i] == '\'' || sql[i] == '"':
			end := closingQuote(sql, i)
			out = append(out, span{start: i, end: end})
			i = end - 1
		case strings.HasPrefix(sql[i:], "--"):
			end := len(sql)
			if nl := strings.IndexByte(sql[i:], '\n'); nl != -1 {
				end = i + nl
			}
			out = append(out, span{start: i, end: end, comment: true})
			i = end - 1
		case strings.HasPrefix(sql[i:], "/*"):
			end := len(sql)
			if c := strings.Index(sql[i+2:], "*/"); c != -1 {
				end = i + 2 + c + 2
			}
			out = append(out, span{start: i, end: end, comment: true})
			i = end - 1
		}
	}
	return out
}

// closingQuote returns the index just past the quote that closes the one at
// open, or len(sql) when it is never closed.
func closingQuote(sql string, open int) int {
	q := sql[open]
	for j := open + 1; j < len(sql); j++ {
		if sql[j] != q {
			continue
		}
		if j+1 < len(sql) && sql[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(sql)
}

func within(spans []span, pos int) bool {
	for _, s := range spans {
		if pos >= s.start && pos < s.end {
			return true
		}
	}
	return false
}

// removeComments drops -- and /* */ comments, leaving literals intact.
func removeComments(sql string) string {
	var (
		b    strings.Builder
		last int
	)
	for _, s := range scan(sql) {
		if !s.comment {
			continue
		}
		b.WriteString(sql[last:s.start])
		last = s.end
	}
	b.WriteString(sql[last:])
	return b.String()
}
