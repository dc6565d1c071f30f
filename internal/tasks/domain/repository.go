package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for task persistence.
type Repository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*Task, error)
	FindByMilestone(ctx context.Context, milestoneID uuid.UUID) ([]*Task, error)
	// UnlinkMilestone clears milestone_id on every task of the milestone.
	UnlinkMilestone(ctx context.Context, milestoneID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
