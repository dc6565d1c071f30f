package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/files/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/storage"
	"github.com/google/uuid"
)

// ProjectGuard fails with the project's not-found error when the project
// does not exist.
type ProjectGuard interface {
	EnsureExists(ctx context.Context, projectID uuid.UUID) error
}

// UploadFileCommand carries an upload. Size must be known up front so the
// limit is enforced before anything is written.
type UploadFileCommand struct {
	ProjectID   uuid.UUID
	UploadedBy  uuid.UUID
	FileName    string
	FileType    string
	Description string
	Size        int64
	Body        io.Reader
}

// UploadFileResult identifies the stored file.
type UploadFileResult struct {
	FileID uuid.UUID
	File   map[string]any
}

// UploadFileHandler handles the UploadFileCommand.
type UploadFileHandler struct {
	repo     domain.Repository
	projects ProjectGuard
	blobs    storage.BlobStore
	uow      sharedApplication.UnitOfWork
	logger   *slog.Logger
}

// NewUploadFileHandler creates a new UploadFileHandler.
func NewUploadFileHandler(
	repo domain.Repository,
	projects ProjectGuard,
	blobs storage.BlobStore,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *UploadFileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadFileHandler{repo: repo, projects: projects, blobs: blobs, uow: uow, logger: logger}
}

// Handle writes the blob first, then the metadata. If the metadata write
// fails the blob is removed again.
func (h *UploadFileHandler) Handle(ctx context.Context, cmd UploadFileCommand) (*UploadFileResult, error) {
	file, err := domain.NewFile(domain.NewFileParams{
		ProjectID:   cmd.ProjectID,
		UploadedBy:  cmd.UploadedBy,
		FileName:    cmd.FileName,
		FileType:    cmd.FileType,
		Size:        cmd.Size,
		Description: cmd.Description,
	})
	if err != nil {
		return nil, err
	}
	if err := h.projects.EnsureExists(ctx, cmd.ProjectID); err != nil {
		return nil, err
	}

	if err := putLimited(ctx, h.blobs, file.StorageKey(), cmd.Body, cmd.Size, file.ContentType()); err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.repo.Save(txCtx, file); err != nil {
			return err
		}
		return h.repo.SaveVersion(txCtx, file.FirstVersion())
	})
	if err != nil {
		removeBlob(ctx, h.blobs, h.logger, file.StorageKey())
		return nil, err
	}

	return &UploadFileResult{FileID: file.ID(), File: file.Serialize()}, nil
}

// putLimited stores body under key and fails when it is longer than size.
func putLimited(ctx context.Context, blobs storage.BlobStore, key string, body io.Reader, size int64, contentType string) error {
	if body == nil {
		return errors.New("upload body is required")
	}
	written, err := blobs.Put(ctx, key, io.LimitReader(body, size+1), contentType)
	if err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}
	if written > size {
		removeBlob(ctx, blobs, nil, key)
		return fmt.Errorf("upload is larger than the declared %d bytes", size)
	}
	return nil
}

func removeBlob(ctx context.Context, blobs storage.BlobStore, logger *slog.Logger, key string) {
	if err := blobs.Delete(ctx, key); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to remove blob", "key", key, "error", err)
	}
}
