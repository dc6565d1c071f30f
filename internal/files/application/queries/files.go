package queries

import (
	"context"
	"fmt"
	"io"

	"github.com/MohamedAbusurra/CS438class/internal/files/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/storage"
	"github.com/google/uuid"
)

// FileQueries reads file metadata and content.
type FileQueries struct {
	repo  domain.Repository
	blobs storage.BlobStore
}

// NewFileQueries creates a FileQueries.
func NewFileQueries(repo domain.Repository, blobs storage.BlobStore) *FileQueries {
	return &FileQueries{repo: repo, blobs: blobs}
}

// ListProjectFiles returns the project's files, newest first.
func (q *FileQueries) ListProjectFiles(ctx context.Context, projectID uuid.UUID) ([]map[string]any, error) {
	files, err := q.repo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(files))
	for _, f := range files {
		out = append(out, f.Serialize())
	}
	return out, nil
}

// GetFile returns the file with its version history under "versions".
func (q *FileQueries) GetFile(ctx context.Context, fileID uuid.UUID) (map[string]any, error) {
	f, err := q.repo.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	versions, err := q.repo.FindVersions(ctx, fileID)
	if err != nil {
		return nil, err
	}
	out := f.Serialize()
	history := make([]map[string]any, 0, len(versions))
	for _, v := range versions {
		history = append(history, v.Serialize())
	}
	out["versions"] = history
	return out, nil
}

// OpenedFile is a file's current content.
type OpenedFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// OpenFile opens the current version for reading. The caller closes Body.
func (q *FileQueries) OpenFile(ctx context.Context, fileID uuid.UUID) (*OpenedFile, error) {
	f, err := q.repo.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	body, err := q.blobs.Open(ctx, f.StorageKey())
	if err != nil {
		return nil, fmt.Errorf("failed to open file content: %w", err)
	}
	return &OpenedFile{Name: f.FileName(), ContentType: f.ContentType(), Size: f.Size(), Body: body}, nil
}
