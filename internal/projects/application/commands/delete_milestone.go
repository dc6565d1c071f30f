package commands

import (
	"context"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

// DeleteMilestoneCommand identifies the milestone to remove.
type DeleteMilestoneCommand struct {
	MilestoneID uuid.UUID
}

// DeleteMilestoneHandler handles the DeleteMilestoneCommand.
type DeleteMilestoneHandler struct {
	milestoneRepo domain.MilestoneRepository
	taskRepo      taskDomain.Repository
	uow           sharedApplication.UnitOfWork
}

// NewDeleteMilestoneHandler creates a new DeleteMilestoneHandler.
func NewDeleteMilestoneHandler(
	milestoneRepo domain.MilestoneRepository,
	taskRepo taskDomain.Repository,
	uow sharedApplication.UnitOfWork,
) *DeleteMilestoneHandler {
	return &DeleteMilestoneHandler{milestoneRepo: milestoneRepo, taskRepo: taskRepo, uow: uow}
}

// Handle detaches the milestone's tasks, keeping them, and deletes the
// milestone. It returns the owning project id.
func (h *DeleteMilestoneHandler) Handle(ctx context.Context, cmd DeleteMilestoneCommand) (uuid.UUID, error) {
	var projectID uuid.UUID
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		milestone, err := h.milestoneRepo.FindByID(txCtx, cmd.MilestoneID)
		if err != nil {
			return err
		}
		projectID = milestone.ProjectID()
		if _, err := h.taskRepo.UnlinkMilestone(txCtx, milestone.ID()); err != nil {
			return err
		}
		return h.milestoneRepo.Delete(txCtx, milestone.ID())
	})
	if err != nil {
		return uuid.Nil, err
	}
	return projectID, nil
}
