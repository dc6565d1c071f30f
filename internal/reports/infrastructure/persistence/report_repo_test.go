package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/dbtest"
)

func TestReportRepository(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := NewReportRepository(conn)
	projectID := dbtest.InsertProject(t, conn, "P1")
	by := uuid.New()

	first, err := domain.NewReport(projectID, "", &by, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	time.Sleep(5 * time.Millisecond)
	second, err := domain.NewReport(projectID, "", nil, domain.Filters{"format": "pdf"})
	require.NoError(t, err)
	second.AttachFile("reports/p/r.pdf")
	require.NoError(t, second.UpdateProgress(100, time.Now()))
	require.NoError(t, repo.Save(ctx, second))

	loaded, err := repo.FindByID(ctx, first.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, loaded.Status())
	assert.Equal(t, domain.DefaultFilters(), loaded.Filters())
	assert.Equal(t, by, *loaded.CreatedBy())
	assert.Nil(t, loaded.FilePath())

	list, err := repo.FindByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID(), list[0].ID())
	assert.Equal(t, domain.StatusCompleted, list[0].Status())
	assert.Equal(t, "reports/p/r.pdf", *list[0].FilePath())
	assert.NotNil(t, list[0].CompletedAt())

	loaded.MarkFailed(time.Now())
	require.NoError(t, repo.Save(ctx, loaded))
	reloaded, err := repo.FindByID(ctx, first.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, reloaded.Status())
	assert.NotNil(t, reloaded.CompletedAt())

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestReportRepository_MalformedFilters(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := NewReportRepository(conn)
	projectID := dbtest.InsertProject(t, conn, "P1")

	r, err := domain.NewReport(projectID, "", nil, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, r))
	_, err = conn.Exec(ctx, `UPDATE reports SET filters = ? WHERE id = ?`, "{broken", r.ID())
	require.NoError(t, err)

	loaded, err := repo.FindByID(ctx, r.ID())
	require.NoError(t, err)
	assert.Empty(t, loaded.Filters())
}
