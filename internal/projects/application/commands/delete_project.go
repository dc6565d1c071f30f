package commands

import (
	"context"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/google/uuid"
)

// FileUnlinker detaches files from a project without deleting them.
type FileUnlinker interface {
	UnlinkProject(ctx context.Context, projectID uuid.UUID) (int64, error)
}

// DeleteProjectCommand contains the data needed to delete a project.
type DeleteProjectCommand struct {
	ProjectID uuid.UUID
}

// DeleteProjectHandler handles the DeleteProjectCommand.
type DeleteProjectHandler struct {
	projectRepo domain.ProjectRepository
	files       FileUnlinker
	uow         sharedApplication.UnitOfWork
	logger      *slog.Logger
}

// NewDeleteProjectHandler creates a new DeleteProjectHandler.
func NewDeleteProjectHandler(
	projectRepo domain.ProjectRepository,
	files FileUnlinker,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *DeleteProjectHandler {
	return &DeleteProjectHandler{
		projectRepo: projectRepo,
		files:       files,
		uow:         uow,
		logger:      logger,
	}
}

// Handle unlinks the project's files and then removes the project, in one
// transaction.
func (h *DeleteProjectHandler) Handle(ctx context.Context, cmd DeleteProjectCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.projectRepo.EnsureExists(txCtx, cmd.ProjectID); err != nil {
			return err
		}
		n, err := h.files.UnlinkProject(txCtx, cmd.ProjectID)
		if err != nil {
			return err
		}
		if h.logger != nil && n > 0 {
			h.logger.InfoContext(ctx, "unlinked project files", "project_id", cmd.ProjectID, "files", n)
		}
		return h.projectRepo.Delete(txCtx, cmd.ProjectID)
	})
}
