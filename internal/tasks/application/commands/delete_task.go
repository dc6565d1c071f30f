package commands

import (
	"context"

	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

// DeleteTaskCommand identifies the task to remove.
type DeleteTaskCommand struct {
	TaskID uuid.UUID
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo domain.Repository
	uow      sharedApplication.UnitOfWork
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo domain.Repository, uow sharedApplication.UnitOfWork) *DeleteTaskHandler {
	return &DeleteTaskHandler{taskRepo: taskRepo, uow: uow}
}

// Handle deletes the task and returns the id of the project it belonged to.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) (uuid.UUID, error) {
	var projectID uuid.UUID
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		projectID = task.ProjectID()
		return h.taskRepo.Delete(txCtx, task.ID())
	})
	if err != nil {
		return uuid.Nil, err
	}
	return projectID, nil
}
