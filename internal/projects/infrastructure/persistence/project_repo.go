package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const projectColumns = `id, name, description, start_date, expected_end_date, status, created_by, created_at, updated_at`

// ProjectRepository implements domain.ProjectRepository.
type ProjectRepository struct {
	conn database.Connection
}

// NewProjectRepository creates a project repository.
func NewProjectRepository(conn database.Connection) *ProjectRepository {
	return &ProjectRepository{conn: conn}
}

func (r *ProjectRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a project.
func (r *ProjectRepository) Save(ctx context.Context, p *domain.Project) error {
	_, err := r.executor(ctx).Exec(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			start_date = excluded.start_date,
			expected_end_date = excluded.expected_end_date,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		p.ID(),
		p.Name(),
		p.Description(),
		database.NullTime(p.StartDate()),
		database.NullTime(p.ExpectedEndDate()),
		string(p.Status()),
		database.NullUUID(p.CreatedBy()),
		p.CreatedAt(),
		p.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrProjectNotFound when no row matches.
func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	row := r.executor(ctx).QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return p, nil
}

// FindAll lists every project, newest first.
func (r *ProjectRepository) FindAll(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.executor(ctx).Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// EnsureExists checks for the row without loading it.
func (r *ProjectRepository) EnsureExists(ctx context.Context, id uuid.UUID) error {
	var one int
	err := r.executor(ctx).QueryRow(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&one)
	if err != nil {
		if database.IsNoRows(err) {
			return domain.ErrProjectNotFound
		}
		return fmt.Errorf("failed to check project: %w", err)
	}
	return nil
}

// Delete removes the project row. Milestones, tasks and reports cascade;
// files must already have been unlinked by the caller.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.executor(ctx).Exec(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if database.RowsAffectedOrZero(res) == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func scanProject(row database.Row) (*domain.Project, error) {
	var (
		id                   uuid.UUID
		name, desc, status   string
		start, end           sql.NullTime
		createdBy            uuid.NullUUID
		createdAt, updatedAt sql.NullTime
	)
	if err := row.Scan(&id, &name, &desc, &start, &end, &status, &createdBy, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateProject(
		id, name, desc,
		database.TimePtr(start), database.TimePtr(end),
		domain.ProjectStatus(status),
		database.UUIDPtr(createdBy),
		createdAt.Time, updatedAt.Time,
	), nil
}
