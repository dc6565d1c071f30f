package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const milestoneColumns = `id, project_id, title, description, due_date, status, completion_percentage, created_at, updated_at`

// MilestoneRepository implements domain.MilestoneRepository.
type MilestoneRepository struct {
	conn database.Connection
}

// NewMilestoneRepository creates a milestone repository.
func NewMilestoneRepository(conn database.Connection) *MilestoneRepository {
	return &MilestoneRepository{conn: conn}
}

func (r *MilestoneRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a milestone. Attached tasks are not written;
// they belong to the task repository.
func (r *MilestoneRepository) Save(ctx context.Context, m *domain.Milestone) error {
	_, err := r.executor(ctx).Exec(ctx, `
		INSERT INTO milestones (`+milestoneColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			due_date = excluded.due_date,
			status = excluded.status,
			completion_percentage = excluded.completion_percentage,
			updated_at = excluded.updated_at`,
		m.ID(),
		m.ProjectID(),
		m.Title(),
		m.Description(),
		m.DueDate(),
		string(m.Status()),
		m.CompletionPercentage(),
		m.CreatedAt(),
		m.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save milestone: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrMilestoneNotFound when no row matches.
func (r *MilestoneRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Milestone, error) {
	row := r.executor(ctx).QueryRow(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE id = ?`, id)
	m, err := scanMilestone(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("failed to load milestone: %w", err)
	}
	return m, nil
}

// EnsureInProject returns domain.ErrMilestoneNotFound when the milestone
// has no row and domain.ErrMilestoneProjectMismatch when it belongs to
// another project.
func (r *MilestoneRepository) EnsureInProject(ctx context.Context, milestoneID, projectID uuid.UUID) error {
	var owner uuid.UUID
	err := r.executor(ctx).QueryRow(ctx, `SELECT project_id FROM milestones WHERE id = ?`, milestoneID).Scan(&owner)
	if err != nil {
		if database.IsNoRows(err) {
			return domain.ErrMilestoneNotFound
		}
		return fmt.Errorf("failed to check milestone: %w", err)
	}
	if owner != projectID {
		return domain.ErrMilestoneProjectMismatch
	}
	return nil
}

// FindByProject lists a project's milestones by due date ascending.
func (r *MilestoneRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Milestone, error) {
	rows, err := r.executor(ctx).Query(ctx,
		`SELECT `+milestoneColumns+` FROM milestones WHERE project_id = ? ORDER BY due_date ASC, created_at ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer rows.Close()

	var milestones []*domain.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

// Delete removes the milestone row. The schema nulls tasks.milestone_id,
// but callers unlink explicitly so drivers without FK enforcement agree.
func (r *MilestoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.executor(ctx).Exec(ctx, `DELETE FROM milestones WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	if database.RowsAffectedOrZero(res) == 0 {
		return domain.ErrMilestoneNotFound
	}
	return nil
}

func scanMilestone(row database.Row) (*domain.Milestone, error) {
	var (
		id, projectID        uuid.UUID
		title, desc, status  string
		due                  sql.NullTime
		pct                  float64
		createdAt, updatedAt sql.NullTime
	)
	if err := row.Scan(&id, &projectID, &title, &desc, &due, &status, &pct, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateMilestone(
		id, projectID, title, desc,
		due.Time.UTC(),
		domain.MilestoneStatus(status),
		pct,
		createdAt.Time, updatedAt.Time,
	), nil
}
