package queries

import (
	"context"

	"github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

// ListTasksQuery lists a project's tasks, optionally narrowed.
type ListTasksQuery struct {
	ProjectID  uuid.UUID
	Status     string
	AssignedTo *uuid.UUID
	HighOnly   bool
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo domain.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo domain.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle returns serialized tasks ordered by due date.
func (h *ListTasksHandler) Handle(ctx context.Context, q ListTasksQuery) ([]map[string]any, error) {
	if q.Status != "" {
		if _, err := domain.ParseStatus(q.Status); err != nil {
			return nil, err
		}
	}

	tasks, err := h.taskRepo.FindByProject(ctx, q.ProjectID)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		if q.Status != "" && string(t.Status()) != q.Status {
			continue
		}
		if q.AssignedTo != nil && (t.AssignedTo() == nil || *t.AssignedTo() != *q.AssignedTo) {
			continue
		}
		if q.HighOnly && !t.IsHighImportance() {
			continue
		}
		out = append(out, t.Serialize())
	}
	return out, nil
}
