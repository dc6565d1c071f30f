package queries

import (
	"context"
	"fmt"
	"io"

	"github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/storage"
	"github.com/google/uuid"
)

// ReportQueries reads reports and their rendered output.
type ReportQueries struct {
	repo  domain.Repository
	blobs storage.BlobStore
}

// NewReportQueries creates a ReportQueries.
func NewReportQueries(repo domain.Repository, blobs storage.BlobStore) *ReportQueries {
	return &ReportQueries{repo: repo, blobs: blobs}
}

// GetReport returns the serialized report.
func (q *ReportQueries) GetReport(ctx context.Context, reportID uuid.UUID) (map[string]any, error) {
	r, err := q.repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return r.Serialize(), nil
}

// GetReportStatus returns the polling view: status, progress,
// completed_at and, once completed, file_path.
func (q *ReportQueries) GetReportStatus(ctx context.Context, reportID uuid.UUID) (map[string]any, error) {
	r, err := q.repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return r.GetStatus(), nil
}

// ListProjectReports returns the project's reports, newest first.
func (q *ReportQueries) ListProjectReports(ctx context.Context, projectID uuid.UUID) ([]map[string]any, error) {
	reports, err := q.repo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.Serialize())
	}
	return out, nil
}

// Download is an open report document.
type Download struct {
	Name        string
	ContentType string
	Body        io.ReadCloser
}

// DownloadReport opens the rendered document. It fails with
// domain.ErrReportNotReady unless the report completed with a file.
func (q *ReportQueries) DownloadReport(ctx context.Context, reportID uuid.UUID) (*Download, error) {
	r, err := q.repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !r.IsCompleted() || r.FilePath() == nil {
		return nil, domain.ErrReportNotReady
	}
	body, err := q.blobs.Open(ctx, *r.FilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open report file: %w", err)
	}
	return &Download{
		Name:        fmt.Sprintf("report-%s.pdf", r.ID()),
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}
