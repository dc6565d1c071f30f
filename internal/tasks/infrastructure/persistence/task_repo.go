package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

const taskColumns = `id, project_id, milestone_id, title, description, importance, status,
	due_date, start_date, actual_start, actual_end, estimated_duration,
	assigned_to, created_by, created_at, updated_at`

// TaskRepository implements domain.Repository on either SQL driver.
type TaskRepository struct {
	conn database.Connection
}

// NewTaskRepository creates a task repository.
func NewTaskRepository(conn database.Connection) *TaskRepository {
	return &TaskRepository{conn: conn}
}

func (r *TaskRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a task.
func (r *TaskRepository) Save(ctx context.Context, t *domain.Task) error {
	_, err := r.executor(ctx).Exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			milestone_id = excluded.milestone_id,
			title = excluded.title,
			description = excluded.description,
			importance = excluded.importance,
			status = excluded.status,
			due_date = excluded.due_date,
			start_date = excluded.start_date,
			actual_start = excluded.actual_start,
			actual_end = excluded.actual_end,
			estimated_duration = excluded.estimated_duration,
			assigned_to = excluded.assigned_to,
			updated_at = excluded.updated_at`,
		t.ID(),
		t.ProjectID(),
		database.NullUUID(t.MilestoneID()),
		t.Title(),
		database.NullString(t.Description()),
		string(t.Importance()),
		string(t.Status()),
		database.NullTime(t.DueDate()),
		database.NullTime(t.StartDate()),
		database.NullTime(t.ActualStart()),
		database.NullTime(t.ActualEnd()),
		database.NullInt(t.EstimatedDuration()),
		database.NullUUID(t.AssignedTo()),
		database.NullUUID(t.CreatedBy()),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrTaskNotFound when no row matches.
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.executor(ctx).QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return t, nil
}

// FindByProject lists a project's tasks by due date, undated last.
func (r *TaskRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ?
		ORDER BY CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date, created_at`, projectID)
}

// FindByMilestone lists the tasks linked to a milestone, unsorted.
func (r *TaskRepository) FindByMilestone(ctx context.Context, milestoneID uuid.UUID) ([]*domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE milestone_id = ?`, milestoneID)
}

// UnlinkMilestone detaches every task from the milestone.
func (r *TaskRepository) UnlinkMilestone(ctx context.Context, milestoneID uuid.UUID) (int64, error) {
	res, err := r.executor(ctx).Exec(ctx, `UPDATE tasks SET milestone_id = NULL WHERE milestone_id = ?`, milestoneID)
	if err != nil {
		return 0, fmt.Errorf("failed to unlink milestone tasks: %w", err)
	}
	return database.RowsAffectedOrZero(res), nil
}

// Delete removes a task; a missing row is reported as not found.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.executor(ctx).Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if database.RowsAffectedOrZero(res) == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(row database.Row) (*domain.Task, error) {
	var (
		id, projectID                   uuid.UUID
		milestoneID, assignedTo, author uuid.NullUUID
		title, importance, status       string
		description                     sql.NullString
		dueDate, startDate              sql.NullTime
		actualStart, actualEnd          sql.NullTime
		estimated                       sql.NullInt64
		createdAt, updatedAt            sql.NullTime
	)
	if err := row.Scan(
		&id, &projectID, &milestoneID, &title, &description, &importance, &status,
		&dueDate, &startDate, &actualStart, &actualEnd, &estimated,
		&assignedTo, &author, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	return domain.RehydrateTask(
		id, projectID, database.UUIDPtr(milestoneID),
		title, database.StringPtr(description),
		domain.Importance(importance), domain.Status(status),
		database.TimePtr(dueDate), database.TimePtr(startDate), database.TimePtr(actualStart), database.TimePtr(actualEnd),
		database.IntPtr(estimated),
		database.UUIDPtr(assignedTo), database.UUIDPtr(author),
		createdAt.Time, updatedAt.Time,
	), nil
}
