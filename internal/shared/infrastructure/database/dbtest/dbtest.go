// Package dbtest opens a migrated in-memory SQLite database for repository
// tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/sqlite"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/migrations"
)

// Open returns a fresh migrated connection closed at test cleanup.
func Open(t testing.TB) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	return conn
}

// InsertProject writes a bare project row so child tables satisfy their
// foreign keys.
func InsertProject(t testing.TB, conn database.Connection, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	_, err := conn.Exec(context.Background(),
		`INSERT INTO projects (id, name, status, created_at, updated_at) VALUES (?, ?, 'active', ?, ?)`,
		id, name, now, now)
	require.NoError(t, err)
	return id
}

// InsertMilestone writes a bare milestone row under projectID.
func InsertMilestone(t testing.TB, conn database.Connection, projectID uuid.UUID, due time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	_, err := conn.Exec(context.Background(),
		`INSERT INTO milestones (id, project_id, title, due_date, created_at, updated_at) VALUES (?, ?, 'Milestone', ?, ?, ?)`,
		id, projectID, due, now, now)
	require.NoError(t, err)
	return id
}
