package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/files/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/storage"
	"github.com/google/uuid"
)

// UploadNewVersionCommand replaces a file's content.
type UploadNewVersionCommand struct {
	FileID    uuid.UUID
	ChangedBy uuid.UUID
	Size      int64
	Body      io.Reader
}

// UploadNewVersionHandler handles the UploadNewVersionCommand.
type UploadNewVersionHandler struct {
	repo   domain.Repository
	blobs  storage.BlobStore
	uow    sharedApplication.UnitOfWork
	logger *slog.Logger
}

// NewUploadNewVersionHandler creates a new UploadNewVersionHandler.
func NewUploadNewVersionHandler(repo domain.Repository, blobs storage.BlobStore, uow sharedApplication.UnitOfWork, logger *slog.Logger) *UploadNewVersionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadNewVersionHandler{repo: repo, blobs: blobs, uow: uow, logger: logger}
}

// Handle stores the new blob and records the version. Earlier versions
// stay in storage.
func (h *UploadNewVersionHandler) Handle(ctx context.Context, cmd UploadNewVersionCommand) (map[string]any, error) {
	file, err := h.repo.FindByID(ctx, cmd.FileID)
	if err != nil {
		return nil, err
	}
	version, err := file.NewVersion(cmd.ChangedBy, cmd.Size)
	if err != nil {
		return nil, err
	}
	if err := putLimited(ctx, h.blobs, version.StorageKey(), cmd.Body, cmd.Size, file.ContentType()); err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.repo.Save(txCtx, file); err != nil {
			return err
		}
		return h.repo.SaveVersion(txCtx, version)
	})
	if err != nil {
		removeBlob(ctx, h.blobs, h.logger, version.StorageKey())
		return nil, err
	}
	return file.Serialize(), nil
}
