package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/google/uuid"
)

// ProjectGuard fails with the project's not-found error when the project
// does not exist.
type ProjectGuard interface {
	EnsureExists(ctx context.Context, projectID uuid.UUID) error
}

// FilterValidator checks a filter map before it is stored.
type FilterValidator interface {
	Validate(filters domain.Filters) error
}

// RequestReportCommand queues a report for a project.
type RequestReportCommand struct {
	ProjectID  uuid.UUID
	ReportType string
	CreatedBy  *uuid.UUID
	Filters    map[string]any
}

// RequestReportResult identifies the queued report.
type RequestReportResult struct {
	ReportID uuid.UUID
	Report   map[string]any
}

// RequestReportHandler handles the RequestReportCommand.
type RequestReportHandler struct {
	repo      domain.Repository
	projects  ProjectGuard
	validator FilterValidator
	uow       sharedApplication.UnitOfWork
	publisher sharedApplication.EventPublisher
	logger    *slog.Logger
}

// NewRequestReportHandler creates a new RequestReportHandler. validator may be nil.
func NewRequestReportHandler(
	repo domain.Repository,
	projects ProjectGuard,
	validator FilterValidator,
	uow sharedApplication.UnitOfWork,
	publisher sharedApplication.EventPublisher,
	logger *slog.Logger,
) *RequestReportHandler {
	return &RequestReportHandler{
		repo:      repo,
		projects:  projects,
		validator: validator,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle stores a pending report and publishes reports.report.requested.
func (h *RequestReportHandler) Handle(ctx context.Context, cmd RequestReportCommand) (*RequestReportResult, error) {
	filters := domain.Filters(cmd.Filters)
	if h.validator != nil && len(filters) > 0 {
		if err := h.validator.Validate(filters); err != nil {
			return nil, err
		}
	}

	var report *domain.Report
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.projects.EnsureExists(txCtx, cmd.ProjectID); err != nil {
			return err
		}
		var err error
		report, err = domain.NewReport(cmd.ProjectID, domain.Type(cmd.ReportType), cmd.CreatedBy, filters)
		if err != nil {
			return err
		}
		if err := h.repo.Save(txCtx, report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sharedApplication.PublishEvents(ctx, h.publisher, h.logger, report)
	return &RequestReportResult{ReportID: report.ID(), Report: report.Serialize()}, nil
}
