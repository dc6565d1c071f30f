package commands

import (
	"context"
	"log/slog"

	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

// UpdateTaskCommand carries a partial update for one task.
type UpdateTaskCommand struct {
	TaskID uuid.UUID
	Update domain.Update
}

// UpdateTaskResult reports the changed fields and the new snapshot.
type UpdateTaskResult struct {
	Fields []string
	Task   map[string]any
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo   domain.Repository
	milestones MilestoneGuard
	uow        sharedApplication.UnitOfWork
	publisher  sharedApplication.EventPublisher
	logger     *slog.Logger
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(
	taskRepo domain.Repository,
	milestones MilestoneGuard,
	uow sharedApplication.UnitOfWork,
	publisher sharedApplication.EventPublisher,
	logger *slog.Logger,
) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		taskRepo:   taskRepo,
		milestones: milestones,
		uow:        uow,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle executes the UpdateTaskCommand. Milestone percentages are not
// touched; they refresh when a recompute is requested.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*UpdateTaskResult, error) {
	var (
		task   *domain.Task
		fields []string
	)
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		task, err = h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if milestoneID := cmd.Update.MilestoneID.Ptr(); milestoneID != nil && h.milestones != nil {
			if err := h.milestones.EnsureInProject(txCtx, *milestoneID, task.ProjectID()); err != nil {
				return err
			}
		}
		fields, err = task.Apply(cmd.Update)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		return h.taskRepo.Save(txCtx, task)
	})
	if err != nil {
		return nil, err
	}

	sharedApplication.PublishEvents(ctx, h.publisher, h.logger, task)
	return &UpdateTaskResult{Fields: fields, Task: task.Serialize()}, nil
}
