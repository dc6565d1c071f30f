package queries

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/internal/files/domain"
	"github.com/MohamedAbusurra/CS438class/internal/files/infrastructure/persistence"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/dbtest"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/storage"
)

func TestFileQueries(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := persistence.NewFileRepository(conn)
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	q := NewFileQueries(repo, blobs)
	projectID := dbtest.InsertProject(t, conn, "P1")

	f, err := domain.NewFile(domain.NewFileParams{ProjectID: projectID, UploadedBy: uuid.New(), FileName: "img.PNG", Size: 3})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, f))
	require.NoError(t, repo.SaveVersion(ctx, f.FirstVersion()))
	_, err = blobs.Put(ctx, f.StorageKey(), strings.NewReader("png"), f.ContentType())
	require.NoError(t, err)

	list, err := q.ListProjectFiles(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "png", list[0]["file_type"])

	got, err := q.GetFile(ctx, f.ID())
	require.NoError(t, err)
	assert.Len(t, got["versions"], 1)

	opened, err := q.OpenFile(ctx, f.ID())
	require.NoError(t, err)
	defer opened.Body.Close()
	body, err := io.ReadAll(opened.Body)
	require.NoError(t, err)
	assert.Equal(t, "png", string(body))
	assert.Equal(t, "image/png", opened.ContentType)

	_, err = q.GetFile(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}
