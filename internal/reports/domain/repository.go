package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists reports.
type Repository interface {
	Save(ctx context.Context, report *Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*Report, error)
	// FindByProject returns the project's reports, newest first.
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*Report, error)
}
