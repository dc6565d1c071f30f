package database

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MatchAny builds a predicate matching column against any of ids. Postgres
// gets a single array parameter; SQLite gets an IN list. An empty ids
// matches nothing.
func MatchAny(driver Driver, column string, ids []uuid.UUID) (string, []any) {
	if len(ids) == 0 {
		return "1 = 0", nil
	}
	if driver == DriverPostgres {
		values := make([]string, len(ids))
		for i, id := range ids {
			values[i] = id.String()
		}
		return column + " = ANY(?::uuid[])", []any{pq.Array(values)}
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return column + " IN (?" + strings.Repeat(", ?", len(ids)-1) + ")", args
}
