package params

import (
	"fmt"
	"strings"
)

// Placeholder renders the driver placeholder for the 1-based index.
type Placeholder func(index int) string

// Rewrite strips comments and replaces every parameter with a driver
// placeholder. With numbered placeholders ($1, :1, @p1) a parameter used
// twice keeps its index; with positional ones (?) every occurrence gets its
// own slot. It returns the rewritten sql and the parameter name of each
// slot in order.
func Rewrite(sql string, placeholder Placeholder) (string, []string) {
	sql = removeComments(sql)
	positional := placeholder(1) == placeholder(2)

	var (
		b     strings.Builder
		names []string
		last  int
	)
	index := make(map[string]int)

	for _, m := range findParams(sql) {
		name := sql[m[2]:m[3]]
		i, ok := index[name]
		if !ok || positional {
			names = append(names, name)
			i = len(names)
			index[name] = i
		}
		b.WriteString(sql[last:m[0]])
		b.WriteString(placeholder(i))
		last = m[1]
	}
	b.WriteString(sql[last:])

	return strings.TrimSpace(b.String()), names
}

// Args orders values by names. Missing values fall back to the declared
// defaults, an explicit empty one included; a parameter with
// neither is an error.
func Args(names []string, values map[string]any, declared []Param) ([]any, error) {
	defaults := make(map[string]Param, len(declared))
	for _, p := range declared {
		defaults[p.Name] = p
	}

	args := make([]any, 0, len(names))
	for _, name := range names {
		if v, ok := values[name]; ok {
			args = append(args, v)
			continue
		}
		if p, ok := defaults[name]; ok && p.HasDefault {
			args = append(args, p.Default)
			continue
		}
		return nil, fmt.Errorf("missing value for parameter: %s", name)
	}
	return args, nil
}

// Bind rewrites sql for the driver and returns the ordered arguments.
func Bind(sql string, values map[string]any, placeholder Placeholder) (string, []any, error) {
	rewritten, names := Rewrite(sql, placeholder)
	args, err := Args(names, values, Extract(sql))
	if err != nil {
		return "", nil, err
	}
	return rewritten, args, nil
}

// Display substitutes values into sql for showing it to a person. The
// result is never sent to a database.
func Display(sql string, values map[string]string) string {
	var (
		b    strings.Builder
		last int
	)
	for _, m := range findParams(sql) {
		v, ok := values[sql[m[2]:m[3]]]
		if !ok {
			continue
		}
		b.WriteString(sql[last:m[0]])
		if isNumeric(v) {
			b.WriteString(v)
		} else {
			b.WriteString("'" + strings.ReplaceAll(v, "'", "''") + "'")
		}
		last = m[1]
	}
	b.WriteString(sql[last:])
	return b.String()
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}

	hasDigits := false
	hasDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigits = true
		case r == '.' && !hasDot && i > 0 && i < len(s)-1:
			hasDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			return false
		}
	}
	return hasDigits
}
