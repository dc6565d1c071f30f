package commands

import (
	"context"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/google/uuid"
)

// UpdateProjectCommand carries a partial project update.
type UpdateProjectCommand struct {
	ProjectID uuid.UUID
	Update    domain.ProjectUpdate
}

// UpdateProjectHandler handles the UpdateProjectCommand.
type UpdateProjectHandler struct {
	projectRepo domain.ProjectRepository
	uow         sharedApplication.UnitOfWork
	publisher   sharedApplication.EventPublisher
	logger      *slog.Logger
}

// NewUpdateProjectHandler creates a new UpdateProjectHandler.
func NewUpdateProjectHandler(
	projectRepo domain.ProjectRepository,
	uow sharedApplication.UnitOfWork,
	publisher sharedApplication.EventPublisher,
	logger *slog.Logger,
) *UpdateProjectHandler {
	return &UpdateProjectHandler{
		projectRepo: projectRepo,
		uow:         uow,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the UpdateProjectCommand and returns the new snapshot.
func (h *UpdateProjectHandler) Handle(ctx context.Context, cmd UpdateProjectCommand) (map[string]any, error) {
	var project *domain.Project
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		project, err = h.projectRepo.FindByID(txCtx, cmd.ProjectID)
		if err != nil {
			return err
		}
		fields, err := project.Apply(cmd.Update)
		if err != nil || len(fields) == 0 {
			return err
		}
		return h.projectRepo.Save(txCtx, project)
	})
	if err != nil {
		return nil, err
	}

	sharedApplication.PublishEvents(ctx, h.publisher, h.logger, project)
	return project.Serialize(), nil
}
