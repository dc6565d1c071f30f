package queries

import (
	"context"

	"github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

// GetTaskQuery identifies one task.
type GetTaskQuery struct {
	TaskID uuid.UUID
}

// GetTaskHandler handles the GetTaskQuery.
type GetTaskHandler struct {
	taskRepo domain.Repository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo domain.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle returns the serialized task.
func (h *GetTaskHandler) Handle(ctx context.Context, q GetTaskQuery) (map[string]any, error) {
	task, err := h.taskRepo.FindByID(ctx, q.TaskID)
	if err != nil {
		return nil, err
	}
	return task.Serialize(), nil
}
