package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/google/uuid"
)

// AddMilestoneCommand contains the data needed to add a milestone to a project.
type AddMilestoneCommand struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	Status      string
}

// AddMilestoneResult contains the result of adding a milestone.
type AddMilestoneResult struct {
	MilestoneID uuid.UUID
	Milestone   map[string]any
}

// AddMilestoneHandler handles the AddMilestoneCommand.
type AddMilestoneHandler struct {
	projectRepo   domain.ProjectRepository
	milestoneRepo domain.MilestoneRepository
	uow           sharedApplication.UnitOfWork
	logger        *slog.Logger
}

// NewAddMilestoneHandler creates a new AddMilestoneHandler.
func NewAddMilestoneHandler(
	projectRepo domain.ProjectRepository,
	milestoneRepo domain.MilestoneRepository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *AddMilestoneHandler {
	return &AddMilestoneHandler{
		projectRepo:   projectRepo,
		milestoneRepo: milestoneRepo,
		uow:           uow,
		logger:        logger,
	}
}

// Handle executes the AddMilestoneCommand. A bad status never fails the
// command; it is logged and replaced with not_started.
func (h *AddMilestoneHandler) Handle(ctx context.Context, cmd AddMilestoneCommand) (*AddMilestoneResult, error) {
	status, ok := domain.ParseMilestoneStatus(cmd.Status)
	if !ok && h.logger != nil {
		h.logger.WarnContext(ctx, "invalid milestone status, using not_started",
			"status", cmd.Status,
			"project_id", cmd.ProjectID,
		)
	}

	milestone, err := domain.NewMilestone(cmd.ProjectID, cmd.Title, cmd.DueDate, cmd.Description, status)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.projectRepo.EnsureExists(txCtx, cmd.ProjectID); err != nil {
			return err
		}
		return h.milestoneRepo.Save(txCtx, milestone)
	})
	if err != nil {
		return nil, err
	}

	return &AddMilestoneResult{MilestoneID: milestone.ID(), Milestone: milestone.Serialize()}, nil
}
