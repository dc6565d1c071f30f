package commands

import (
	"context"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/google/uuid"
)

// UpdateMilestoneCommand carries a partial milestone update.
type UpdateMilestoneCommand struct {
	MilestoneID uuid.UUID
	Update      domain.MilestoneUpdate
}

// UpdateMilestoneHandler handles the UpdateMilestoneCommand.
type UpdateMilestoneHandler struct {
	milestoneRepo domain.MilestoneRepository
	uow           sharedApplication.UnitOfWork
}

// NewUpdateMilestoneHandler creates a new UpdateMilestoneHandler.
func NewUpdateMilestoneHandler(milestoneRepo domain.MilestoneRepository, uow sharedApplication.UnitOfWork) *UpdateMilestoneHandler {
	return &UpdateMilestoneHandler{milestoneRepo: milestoneRepo, uow: uow}
}

// Handle executes the UpdateMilestoneCommand. The stored percentage and
// status are untouched; a changed due date takes effect on next recompute.
func (h *UpdateMilestoneHandler) Handle(ctx context.Context, cmd UpdateMilestoneCommand) (map[string]any, error) {
	var milestone *domain.Milestone
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		milestone, err = h.milestoneRepo.FindByID(txCtx, cmd.MilestoneID)
		if err != nil {
			return err
		}
		if err := milestone.Apply(cmd.Update); err != nil {
			return err
		}
		return h.milestoneRepo.Save(txCtx, milestone)
	})
	if err != nil {
		return nil, err
	}
	return milestone.Serialize(), nil
}
