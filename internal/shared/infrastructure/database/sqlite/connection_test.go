package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
)

func openMemory(t *testing.T) database.Connection {
	t.Helper()
	conn, err := NewConnection(context.Background(), database.Config{SQLitePath: MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(context.Background(), `CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL)`)
	require.NoError(t, err)
	return conn
}

func countNotes(t *testing.T, ex database.Executor) int {
	t.Helper()
	var n int
	require.NoError(t, ex.QueryRow(context.Background(), `SELECT COUNT(*) FROM notes`).Scan(&n))
	return n
}

func TestNewConnection_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cmt.db")

	conn, err := database.NewConnection(ctx, database.Config{URL: path})
	require.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, conn.Ping(ctx))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
	assert.FileExists(t, path)
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)

	res, err := conn.Exec(ctx, `INSERT INTO notes (body) VALUES (?), (?)`, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), database.RowsAffectedOrZero(res))

	rows, err := conn.Query(ctx, `SELECT body FROM notes ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var bodies []string
	for rows.Next() {
		var b string
		require.NoError(t, rows.Scan(&b))
		bodies = append(bodies, b)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"a", "b"}, bodies)

	var missing string
	err = conn.QueryRow(ctx, `SELECT body FROM notes WHERE id = ?`, 99).Scan(&missing)
	assert.True(t, database.IsNoRows(err))
}

func TestUnitOfWork(t *testing.T) {
	ctx := context.Background()

	t.Run("commit persists", func(t *testing.T) {
		conn := openMemory(t)
		uow := database.NewUnitOfWork(conn)

		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)
		_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO notes (body) VALUES (?)`, "kept")
		require.NoError(t, err)
		require.NoError(t, uow.Commit(txCtx))

		assert.Equal(t, 1, countNotes(t, conn))
	})

	t.Run("rollback discards", func(t *testing.T) {
		conn := openMemory(t)
		uow := database.NewUnitOfWork(conn)

		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)
		_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO notes (body) VALUES (?)`, "dropped")
		require.NoError(t, err)
		require.NoError(t, uow.Rollback(txCtx))

		assert.Equal(t, 0, countNotes(t, conn))
	})

	t.Run("nested begin joins outer transaction", func(t *testing.T) {
		conn := openMemory(t)
		uow := database.NewUnitOfWork(conn)

		outer, err := uow.Begin(ctx)
		require.NoError(t, err)
		inner, err := uow.Begin(outer)
		require.NoError(t, err)
		assert.Same(t, database.TxFromContext(outer), database.TxFromContext(inner))

		_, err = database.ExecutorFromContext(inner, conn).Exec(inner, `INSERT INTO notes (body) VALUES (?)`, "x")
		require.NoError(t, err)
		require.NoError(t, uow.Commit(inner))
		require.NoError(t, uow.Rollback(outer))

		assert.Equal(t, 0, countNotes(t, conn))
	})

	t.Run("commit without transaction", func(t *testing.T) {
		uow := database.NewUnitOfWork(openMemory(t))
		assert.Error(t, uow.Commit(ctx))
		assert.Error(t, uow.Rollback(ctx))
	})

	t.Run("ping after close fails", func(t *testing.T) {
		conn := openMemory(t)
		require.NoError(t, conn.Close())
		err := conn.Ping(ctx)
		assert.Error(t, err)
		assert.False(t, errors.Is(err, context.Canceled))
	})
}
