package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Query is a saved, named SQL statement attached to a database configuration.
type Query struct {
	Name string `mapstructure:"name" yaml:"name"`
	ID   int    `mapstructure:"id" yaml:"id"`
	SQL  string `mapstructure:"sql" yaml:"sql"`
}

// FindQuery looks a query up by numeric id or by name. An exact name wins
// over a case-insensitive match.
func FindQuery(queries map[string]Query, selector string) (Query, bool) {
	if id, err := strconv.Atoi(selector); err == nil {
		for _, q := range queries {
			if q.ID == id {
				return q, true
			}
		}
		return Query{}, false
	}
	if q, ok := queries[selector]; ok {
		return q, true
	}
	return findFold(queries, selector)
}

// findFold returns the lowest-id query whose name matches name ignoring case.
func findFold(queries map[string]Query, name string) (Query, bool) {
	var (
		found Query
		ok    bool
	)
	for _, q := range queries {
		if strings.EqualFold(q.Name, name) && (!ok || q.ID < found.ID) {
			found, ok = q, true
		}
	}
	return found, ok
}

// NextQueryID returns the smallest unused positive id.
func NextQueryID(queries map[string]Query) int {
	used := make(map[int]bool, len(queries))
	for _, q := range queries {
		used[q.ID] = true
	}
	for i := 1; ; i++ {
		if !used[i] {
			return i
		}
	}
}

// SaveQuery stores q on the database, assigning an id when q.ID is zero.
// A different query with the same name, ignoring case, is rejected.
func (d *Database) SaveQuery(q Query) (Query, error) {
	if q.Name == "" || q.SQL == "" {
		return Query{}, fmt.Errorf("query needs a name and sql")
	}
	if d.Queries == nil {
		d.Queries = make(map[string]Query)
	}
	for key, existing := range d.Queries {
		if !strings.EqualFold(existing.Name, q.Name) {
			continue
		}
		if q.ID != existing.ID {
			return Query{}, fmt.Errorf("query '%s' already exists", existing.Name)
		}
		delete(d.Queries, key)
	}
	if q.ID == 0 {
		q.ID = NextQueryID(d.Queries)
	}
	d.Queries[q.Name] = q
	return q, nil
}

// SortedQueries returns the saved queries ordered by id.
func (d *Database) SortedQueries() []Query {
	list := make([]Query, 0, len(d.Queries))
	for _, q := range d.Queries {
		list = append(list, q)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
