package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/google/uuid"
)

// CreateProjectCommand contains the data needed to create a project.
type CreateProjectCommand struct {
	Name            string
	Description     string
	StartDate       *time.Time
	ExpectedEndDate *time.Time
	Status          string
	CreatedBy       *uuid.UUID
}

// CreateProjectResult contains the result of creating a project.
type CreateProjectResult struct {
	ProjectID uuid.UUID
	Project   map[string]any
}

// CreateProjectHandler handles the CreateProjectCommand.
type CreateProjectHandler struct {
	projectRepo domain.ProjectRepository
	uow         sharedApplication.UnitOfWork
	publisher   sharedApplication.EventPublisher
	logger      *slog.Logger
}

// NewCreateProjectHandler creates a new CreateProjectHandler.
func NewCreateProjectHandler(
	projectRepo domain.ProjectRepository,
	uow sharedApplication.UnitOfWork,
	publisher sharedApplication.EventPublisher,
	logger *slog.Logger,
) *CreateProjectHandler {
	return &CreateProjectHandler{
		projectRepo: projectRepo,
		uow:         uow,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the CreateProjectCommand.
func (h *CreateProjectHandler) Handle(ctx context.Context, cmd CreateProjectCommand) (*CreateProjectResult, error) {
	project, err := domain.NewProject(cmd.Name, cmd.Description, cmd.StartDate, cmd.ExpectedEndDate, cmd.Status, cmd.CreatedBy)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.projectRepo.Save(txCtx, project)
	})
	if err != nil {
		return nil, err
	}

	sharedApplication.PublishEvents(ctx, h.publisher, h.logger, project)
	return &CreateProjectResult{ProjectID: project.ID(), Project: project.Serialize()}, nil
}
