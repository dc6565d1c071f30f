package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProjectRepository defines the interface for project persistence.
type ProjectRepository interface {
	Save(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context) ([]*Project, error)
	// EnsureExists returns ErrProjectNotFound when id has no row.
	EnsureExists(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MilestoneRepository defines the interface for milestone persistence.
type MilestoneRepository interface {
	Save(ctx context.Context, milestone *Milestone) error
	FindByID(ctx context.Context, id uuid.UUID) (*Milestone, error)
	// FindByProject returns milestones ordered by due date ascending.
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*Milestone, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
