package domain

import (
	"time"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

// Status is where a report is in its generation lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Type is the kind of report. Only performance reports exist today.
type Type string

const TypePerformance Type = "performance"

// ParseType maps empty input to performance and rejects anything unknown.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case "", TypePerformance:
		return TypePerformance, nil
	}
	return "", sharedDomain.NewValidationError("report_type", "invalid report type %q, must be one of: %s", s, TypePerformance)
}

// Report tracks the generation of a single project report.
type Report struct {
	sharedDomain.BaseAggregateRoot
	projectID   uuid.UUID
	reportType  Type
	status      Status
	progress    int
	filters     string
	createdBy   *uuid.UUID
	completedAt *time.Time
	filePath    *string
}

// NewReport creates a pending report at 0% progress. Nil or empty filters
// are replaced by DefaultFilters.
func NewReport(projectID uuid.UUID, reportType Type, createdBy *uuid.UUID, filters Filters) (*Report, error) {
	if projectID == uuid.Nil {
		return nil, sharedDomain.NewValidationError("project_id", "report must belong to a project")
	}
	reportType, err := ParseType(string(reportType))
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		filters = DefaultFilters()
	}

	r := &Report{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		projectID:         projectID,
		reportType:        reportType,
		status:            StatusPending,
		filters:           filters.Encode(),
		createdBy:         createdBy,
	}
	r.AddDomainEvent(ReportRequested{
		BaseEvent:   sharedDomain.NewBaseEvent(r.ID(), AggregateType, RoutingKeyReportRequested),
		ProjectID:   projectID,
		ReportType:  string(reportType),
		RequestedBy: createdBy,
	})
	return r, nil
}

func (r *Report) ProjectID() uuid.UUID    { return r.projectID }
func (r *Report) Type() Type              { return r.reportType }
func (r *Report) Status() Status          { return r.status }
func (r *Report) Progress() int           { return r.progress }
func (r *Report) CreatedBy() *uuid.UUID   { return r.createdBy }
func (r *Report) CompletedAt() *time.Time { return r.completedAt }
func (r *Report) FilePath() *string       { return r.filePath }
func (r *Report) RawFilters() string      { return r.filters }
func (r *Report) IsCompleted() bool       { return r.status == StatusCompleted }
func (r *Report) Filters() Filters        { return DecodeFilters(r.filters) }

// SetFilters replaces the stored filters.
func (r *Report) SetFilters(f Filters) {
	r.filters = f.Encode()
	r.Touch()
}

// StartGenerating moves the report into generating. There is no guard on
// the previous state.
func (r *Report) StartGenerating() {
	r.status = StatusGenerating
	r.Touch()
}

// AttachFile records where the rendered output was stored.
func (r *Report) AttachFile(path string) {
	r.filePath = &path
	r.Touch()
}

// UpdateProgress sets the progress percentage. 100 completes the report
// and stamps completed_at with now; other values leave the status alone.
func (r *Report) UpdateProgress(progress int, now time.Time) error {
	if progress < 0 || progress > 100 {
		return sharedDomain.NewValidationError("progress", "progress must be between 0 and 100, got %d", progress)
	}
	r.progress = progress
	if progress == 100 {
		wasCompleted := r.status == StatusCompleted
		at := now.UTC()
		r.status = StatusCompleted
		r.completedAt = &at
		if !wasCompleted {
			path := ""
			if r.filePath != nil {
				path = *r.filePath
			}
			r.AddDomainEvent(ReportCompleted{
				BaseEvent:   sharedDomain.NewBaseEvent(r.ID(), AggregateType, RoutingKeyReportCompleted),
				ProjectID:   r.projectID,
				RequestedBy: r.createdBy,
				FilePath:    path,
			})
		}
	}
	r.Touch()
	return nil
}

// MarkFailed fails the report and stamps completed_at with now whatever
// the progress.
func (r *Report) MarkFailed(now time.Time) {
	at := now.UTC()
	r.status = StatusFailed
	r.completedAt = &at
	r.Touch()
	r.AddDomainEvent(ReportFailed{
		BaseEvent:   sharedDomain.NewBaseEvent(r.ID(), AggregateType, RoutingKeyReportFailed),
		ProjectID:   r.projectID,
		RequestedBy: r.createdBy,
	})
}

// GetStatus returns the polling view of the report. file_path is only
// exposed once the report is completed.
func (r *Report) GetStatus() map[string]any {
	var filePath *string
	if r.status == StatusCompleted {
		filePath = r.filePath
	}
	return map[string]any{
		"status":       string(r.status),
		"progress":     r.progress,
		"completed_at": sharedDomain.FormatDateTime(r.completedAt),
		"file_path":    filePath,
	}
}

// Serialize flattens the report into a response map.
func (r *Report) Serialize() map[string]any {
	var createdBy *string
	if r.createdBy != nil {
		s := r.createdBy.String()
		createdBy = &s
	}
	created := r.CreatedAt()
	return map[string]any{
		"id":            r.ID().String(),
		"project_id":    r.projectID.String(),
		"report_type":   string(r.reportType),
		"status":        string(r.status),
		"created_by_id": createdBy,
		"created_at":    sharedDomain.FormatDateTime(&created),
		"completed_at":  sharedDomain.FormatDateTime(r.completedAt),
		"file_path":     r.filePath,
		"progress":      r.progress,
		"filters":       map[string]any(r.Filters()),
	}
}

// RehydrateReport rebuilds a stored report without emitting events.
func RehydrateReport(
	id, projectID uuid.UUID,
	reportType Type,
	status Status,
	progress int,
	filters string,
	createdBy *uuid.UUID,
	completedAt *time.Time,
	filePath *string,
	createdAt, updatedAt time.Time,
) *Report {
	return &Report{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		projectID:         projectID,
		reportType:        reportType,
		status:            status,
		progress:          progress,
		filters:           filters,
		createdBy:         createdBy,
		completedAt:       completedAt,
		filePath:          filePath,
	}
}
