package domain

import (
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Report"

	RoutingKeyReportRequested = "reports.report.requested"
	RoutingKeyReportCompleted = "reports.report.completed"
	RoutingKeyReportFailed    = "reports.report.failed"
)

// ReportRequested is emitted when a report is queued for generation.
type ReportRequested struct {
	sharedDomain.BaseEvent
	ProjectID   uuid.UUID  `json:"project_id"`
	ReportType  string     `json:"report_type"`
	RequestedBy *uuid.UUID `json:"requested_by,omitempty"`
}

// ReportCompleted is emitted when progress reaches 100.
type ReportCompleted struct {
	sharedDomain.BaseEvent
	ProjectID   uuid.UUID  `json:"project_id"`
	RequestedBy *uuid.UUID `json:"requested_by,omitempty"`
	FilePath    string     `json:"file_path"`
}

// ReportFailed is emitted by MarkFailed.
type ReportFailed struct {
	sharedDomain.BaseEvent
	ProjectID   uuid.UUID  `json:"project_id"`
	RequestedBy *uuid.UUID `json:"requested_by,omitempty"`
}
