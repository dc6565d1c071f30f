package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists files and their versions.
type Repository interface {
	Save(ctx context.Context, file *File) error
	SaveVersion(ctx context.Context, version *Version) error
	FindByID(ctx context.Context, id uuid.UUID) (*File, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*File, error)
	// FindVersions returns a file's versions, oldest first.
	FindVersions(ctx context.Context, fileID uuid.UUID) ([]*Version, error)
	// UnlinkProject clears project_id on every file of the project.
	UnlinkProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
