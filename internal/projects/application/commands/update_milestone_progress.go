package commands

import (
	"context"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
	"github.com/google/uuid"
)

// UpdateMilestoneProgressCommand recomputes every milestone of a project.
type UpdateMilestoneProgressCommand struct {
	ProjectID uuid.UUID
}

// UpdateMilestoneProgressHandler handles the UpdateMilestoneProgressCommand.
type UpdateMilestoneProgressHandler struct {
	milestoneRepo domain.MilestoneRepository
	recomputer    *milestoneRecomputer
	uow           sharedApplication.UnitOfWork
	publisher     sharedApplication.EventPublisher
	logger        *slog.Logger
}

// NewUpdateMilestoneProgressHandler creates a new UpdateMilestoneProgressHandler.
func NewUpdateMilestoneProgressHandler(
	milestoneRepo domain.MilestoneRepository,
	taskRepo taskDomain.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	publisher sharedApplication.EventPublisher,
	metrics observability.Metrics,
	logger *slog.Logger,
) *UpdateMilestoneProgressHandler {
	return &UpdateMilestoneProgressHandler{
		milestoneRepo: milestoneRepo,
		recomputer:    newMilestoneRecomputer(milestoneRepo, taskRepo, clock, metrics),
		uow:           uow,
		publisher:     publisher,
		logger:        logger,
	}
}

// Handle recomputes all milestones in one transaction. It reports success
// as a bool: any failure rolls everything back, is logged and yields false.
func (h *UpdateMilestoneProgressHandler) Handle(ctx context.Context, cmd UpdateMilestoneProgressCommand) bool {
	var milestones []*domain.Milestone
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		milestones, err = h.milestoneRepo.FindByProject(txCtx, cmd.ProjectID)
		if err != nil {
			return err
		}
		for _, m := range milestones {
			if err := h.recomputer.recompute(txCtx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if h.logger != nil {
			h.logger.ErrorContext(ctx, "failed to update milestone progress",
				"project_id", cmd.ProjectID,
				"error", err,
			)
		}
		return false
	}

	for _, m := range milestones {
		sharedApplication.PublishEvents(ctx, h.publisher, h.logger, m)
	}
	return true
}
