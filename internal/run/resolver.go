package run

import (
	"fmt"

	"github.com/eduardofuncao/pamdb/internal/config"
	"github.com/eduardofuncao/pamdb/internal/db"
)

// Resolved is a statement ready to run, either inline sql or a saved query.
type Resolved struct {
	Query config.Query
	Saved bool
}

// Resolve treats selector as inline sql when it looks like sql, and as the
// name or id of a query saved on conn otherwise.
func Resolve(conn *db.Connection, selector string) (Resolved, error) {
	if selector == "" {
		return Resolved{}, fmt.Errorf("no query given")
	}
	if IsLikelySQL(selector) {
		return Resolved{Query: config.Query{Name: "<inline>", SQL: selector}}, nil
	}

	q, ok := config.FindQuery(conn.Config().Queries, selector)
	if !ok {
		return Resolved{}, fmt.Errorf("%w: %s", db.ErrUnknownQuery, selector)
	}
	return Resolved{Query: q, Saved: true}, nil
}
