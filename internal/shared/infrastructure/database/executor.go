package database

import (
	"context"
	"database/sql"
)

// Row is satisfied by both *sql.Row and pgx.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is satisfied by *sql.Rows and by the pgx wrapper in the postgres package.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports the effect of an Exec.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs queries. Repositories write `?` placeholders; the Postgres
// implementation rebinds them.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that can be committed or rolled back.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a pooled handle that can start transactions.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
	Ping(ctx context.Context) error
	Driver() Driver
}

// WrapSQLResult adapts sql.Result.
func WrapSQLResult(r sql.Result) Result { return r }

type sqlRows struct{ *sql.Rows }

// WrapSQLRows adapts *sql.Rows.
func WrapSQLRows(r *sql.Rows) Rows { return sqlRows{r} }

// RowsAffectedOrZero returns the affected row count, treating drivers that
// cannot report it as zero.
func RowsAffectedOrZero(r Result) int64 {
	if r == nil {
		return 0
	}
	n, err := r.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
