package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const reportColumns = `id, project_id, report_type, status, progress, filters,
	created_by, completed_at, file_path, created_at, updated_at`

// ReportRepository implements domain.Repository.
type ReportRepository struct {
	conn database.Connection
}

// NewReportRepository creates a report repository.
func NewReportRepository(conn database.Connection) *ReportRepository {
	return &ReportRepository{conn: conn}
}

func (r *ReportRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a report.
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	_, err := r.executor(ctx).Exec(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			progress = excluded.progress,
			filters = excluded.filters,
			completed_at = excluded.completed_at,
			file_path = excluded.file_path,
			updated_at = excluded.updated_at`,
		rep.ID(),
		rep.ProjectID(),
		string(rep.Type()),
		string(rep.Status()),
		rep.Progress(),
		rep.RawFilters(),
		database.NullUUID(rep.CreatedBy()),
		database.NullTime(rep.CompletedAt()),
		database.NullString(rep.FilePath()),
		rep.CreatedAt(),
		rep.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrReportNotFound when no row matches.
func (r *ReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	row := r.executor(ctx).QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	rep, err := scanReport(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return rep, nil
}

// FindByProject lists a project's reports, newest first.
func (r *ReportRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Report, error) {
	rows, err := r.executor(ctx).Query(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE project_id = ? ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func scanReport(row database.Row) (*domain.Report, error) {
	var (
		id, projectID        uuid.UUID
		reportType, status   string
		progress             int
		filters              sql.NullString
		createdBy            uuid.NullUUID
		completedAt          sql.NullTime
		filePath             sql.NullString
		createdAt, updatedAt sql.NullTime
	)
	if err := row.Scan(
		&id, &projectID, &reportType, &status, &progress, &filters,
		&createdBy, &completedAt, &filePath, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	return domain.RehydrateReport(
		id, projectID,
		domain.Type(reportType), domain.Status(status),
		progress, filters.String,
		database.UUIDPtr(createdBy),
		database.TimePtr(completedAt),
		database.StringPtr(filePath),
		createdAt.Time, updatedAt.Time,
	), nil
}
