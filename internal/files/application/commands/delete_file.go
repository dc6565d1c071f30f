package commands

import (
	"context"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/files/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/storage"
	"github.com/google/uuid"
)

// DeleteFileCommand removes a file with all of its versions.
type DeleteFileCommand struct {
	FileID uuid.UUID
}

// DeleteFileHandler handles the DeleteFileCommand.
type DeleteFileHandler struct {
	repo   domain.Repository
	blobs  storage.BlobStore
	uow    sharedApplication.UnitOfWork
	logger *slog.Logger
}

// NewDeleteFileHandler creates a new DeleteFileHandler.
func NewDeleteFileHandler(repo domain.Repository, blobs storage.BlobStore, uow sharedApplication.UnitOfWork, logger *slog.Logger) *DeleteFileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteFileHandler{repo: repo, blobs: blobs, uow: uow, logger: logger}
}

// Handle deletes the rows, then the blobs. Blob removal failures are
// logged; the file is gone either way.
func (h *DeleteFileHandler) Handle(ctx context.Context, cmd DeleteFileCommand) error {
	keys := map[string]struct{}{}
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		file, err := h.repo.FindByID(txCtx, cmd.FileID)
		if err != nil {
			return err
		}
		keys[file.StorageKey()] = struct{}{}
		versions, err := h.repo.FindVersions(txCtx, cmd.FileID)
		if err != nil {
			return err
		}
		for _, v := range versions {
			keys[v.StorageKey()] = struct{}{}
		}
		return h.repo.Delete(txCtx, cmd.FileID)
	})
	if err != nil {
		return err
	}

	for key := range keys {
		removeBlob(ctx, h.blobs, h.logger, key)
	}
	return nil
}
