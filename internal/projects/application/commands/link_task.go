package commands

import (
	"context"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

// LinkTaskCommand attaches a task to a milestone of the same project.
// A nil MilestoneID detaches the task.
type LinkTaskCommand struct {
	TaskID      uuid.UUID
	MilestoneID *uuid.UUID
}

// LinkTaskHandler handles the LinkTaskCommand.
type LinkTaskHandler struct {
	milestoneRepo domain.MilestoneRepository
	taskRepo      taskDomain.Repository
	uow           sharedApplication.UnitOfWork
}

// NewLinkTaskHandler creates a new LinkTaskHandler.
func NewLinkTaskHandler(
	milestoneRepo domain.MilestoneRepository,
	taskRepo taskDomain.Repository,
	uow sharedApplication.UnitOfWork,
) *LinkTaskHandler {
	return &LinkTaskHandler{milestoneRepo: milestoneRepo, taskRepo: taskRepo, uow: uow}
}

// Handle executes the LinkTaskCommand. The milestone percentage is not
// refreshed.
func (h *LinkTaskHandler) Handle(ctx context.Context, cmd LinkTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if cmd.MilestoneID != nil {
			milestone, err := h.milestoneRepo.FindByID(txCtx, *cmd.MilestoneID)
			if err != nil {
				return err
			}
			if milestone.ProjectID() != task.ProjectID() {
				return domain.ErrMilestoneProjectMismatch
			}
		}
		task.LinkMilestone(cmd.MilestoneID)
		return h.taskRepo.Save(txCtx, task)
	})
}
