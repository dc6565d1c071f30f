package queries

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	"github.com/MohamedAbusurra/CS438class/internal/reports/infrastructure/persistence"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/dbtest"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/storage"
)

func TestReportQueries(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := persistence.NewReportRepository(conn)
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	q := NewReportQueries(repo, blobs)
	projectID := dbtest.InsertProject(t, conn, "P1")

	pending, err := domain.NewReport(projectID, "", nil, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, pending))

	time.Sleep(5 * time.Millisecond)
	done, err := domain.NewReport(projectID, "", nil, nil)
	require.NoError(t, err)
	_, err = blobs.Put(ctx, "reports/p/done.pdf", strings.NewReader("%PDF-1.3 body"), "application/pdf")
	require.NoError(t, err)
	done.AttachFile("reports/p/done.pdf")
	require.NoError(t, done.UpdateProgress(100, time.Now()))
	require.NoError(t, repo.Save(ctx, done))

	t.Run("status", func(t *testing.T) {
		status, err := q.GetReportStatus(ctx, pending.ID())
		require.NoError(t, err)
		assert.Equal(t, "pending", status["status"])
		assert.Equal(t, 0, status["progress"])
		assert.Nil(t, status["file_path"])

		_, err = q.GetReportStatus(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := q.ListProjectReports(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, done.ID().String(), list[0]["id"])
		assert.Equal(t, pending.ID().String(), list[1]["id"])
	})

	t.Run("download", func(t *testing.T) {
		_, err := q.DownloadReport(ctx, pending.ID())
		assert.ErrorIs(t, err, domain.ErrReportNotReady)

		d, err := q.DownloadReport(ctx, done.ID())
		require.NoError(t, err)
		defer d.Body.Close()
		body, err := io.ReadAll(d.Body)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.3 body", string(body))
		assert.Equal(t, "application/pdf", d.ContentType)
	})

	t.Run("get", func(t *testing.T) {
		got, err := q.GetReport(ctx, done.ID())
		require.NoError(t, err)
		assert.Equal(t, "completed", got["status"])
	})
}
