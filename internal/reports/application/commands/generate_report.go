package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	projectDomain "github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	"github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/lock"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/storage"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long one generator may hold a report.
const DefaultLockTTL = 5 * time.Minute

const pdfContentType = "application/pdf"

// ProjectReader loads the project a report is about.
type ProjectReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*projectDomain.Project, error)
}

// TaskLister loads a project's tasks.
type TaskLister interface {
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*taskDomain.Task, error)
}

// UserDirectory resolves user ids to usernames. Unknown ids are left out.
type UserDirectory interface {
	Usernames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// Renderer turns report content into a document.
type Renderer interface {
	Render(report domain.PerformanceReport) ([]byte, error)
}

// StorageKey is where a report's PDF is kept.
func StorageKey(projectID, reportID uuid.UUID) string {
	return fmt.Sprintf("reports/%s/%s.pdf", projectID, reportID)
}

// GenerateReportCommand renders a requested report.
type GenerateReportCommand struct {
	ReportID uuid.UUID
}

// GenerateReportResult describes the outcome. Skipped is set when another
// generator holds the report or it already finished.
type GenerateReportResult struct {
	ReportID uuid.UUID
	Status   domain.Status
	Skipped  bool
	Report   map[string]any
}

// GenerateReportDeps groups the collaborators of GenerateReportHandler.
type GenerateReportDeps struct {
	Reports   domain.Repository
	Projects  ProjectReader
	Tasks     TaskLister
	Users     UserDirectory
	Renderer  Renderer
	Blobs     storage.BlobStore
	Locker    lock.Locker
	LockTTL   time.Duration
	Clock     sharedDomain.Clock
	Publisher sharedApplication.EventPublisher
	Metrics   observability.Metrics
	Logger    *slog.Logger
}

// GenerateReportHandler handles the GenerateReportCommand.
type GenerateReportHandler struct {
	GenerateReportDeps
}

// NewGenerateReportHandler creates a new GenerateReportHandler.
func NewGenerateReportHandler(deps GenerateReportDeps) *GenerateReportHandler {
	if deps.Locker == nil {
		deps.Locker = lock.NewMemoryLocker()
	}
	if deps.LockTTL <= 0 {
		deps.LockTTL = DefaultLockTTL
	}
	if deps.Clock == nil {
		deps.Clock = sharedDomain.SystemClock{}
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NoopMetrics{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &GenerateReportHandler{GenerateReportDeps: deps}
}

// Handle generates the report under a per-report lock. A generation error
// marks the report failed, persists that, and is returned alongside the
// result.
func (h *GenerateReportHandler) Handle(ctx context.Context, cmd GenerateReportCommand) (*GenerateReportResult, error) {
	release, ok := h.Locker.TryAcquire(ctx, "report:"+cmd.ReportID.String(), h.LockTTL)
	if !ok {
		h.Logger.InfoContext(ctx, "report generation already in progress", "report_id", cmd.ReportID)
		return &GenerateReportResult{ReportID: cmd.ReportID, Skipped: true}, nil
	}
	defer release(ctx)

	report, err := h.Reports.FindByID(ctx, cmd.ReportID)
	if err != nil {
		return nil, err
	}
	if report.Status() == domain.StatusCompleted || report.Status() == domain.StatusFailed {
		return &GenerateReportResult{ReportID: report.ID(), Status: report.Status(), Skipped: true, Report: report.GetStatus()}, nil
	}

	start := time.Now()
	genErr := h.generate(ctx, report)
	outcome := "completed"
	if genErr != nil {
		outcome = "failed"
		h.Logger.ErrorContext(ctx, "report generation failed",
			"report_id", report.ID(),
			"project_id", report.ProjectID(),
			"error", genErr,
		)
		report.ClearDomainEvents()
		report.MarkFailed(h.Clock.Now())
		if err := h.Reports.Save(ctx, report); err != nil {
			h.Logger.ErrorContext(ctx, "failed to record report failure", "report_id", report.ID(), "error", err)
		}
	}
	h.Metrics.Counter(observability.MetricReportsGenerated, 1, observability.T("status", outcome))
	h.Metrics.Timing(observability.MetricReportDuration, time.Since(start))

	sharedApplication.PublishEvents(ctx, h.Publisher, h.Logger, report)
	result := &GenerateReportResult{ReportID: report.ID(), Status: report.Status(), Report: report.GetStatus()}
	if genErr != nil {
		return result, fmt.Errorf("report %s failed: %w", report.ID(), genErr)
	}
	return result, nil
}

func (h *GenerateReportHandler) generate(ctx context.Context, report *domain.Report) error {
	report.StartGenerating()
	if err := h.progress(ctx, report, 10); err != nil {
		return err
	}

	project, err := h.Projects.FindByID(ctx, report.ProjectID())
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	tasks, err := h.Tasks.FindByProject(ctx, project.ID())
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	names := map[uuid.UUID]string{}
	if ids := domain.AssigneeIDs(tasks); len(ids) > 0 {
		names, err = h.Users.Usernames(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load assignees: %w", err)
		}
	}
	if err := h.progress(ctx, report, 40); err != nil {
		return err
	}

	content := domain.BuildPerformanceReport(project.ID(), project.Name(), tasks, names, h.Clock.Now(), report.Filters())
	body, err := h.Renderer.Render(content)
	if err != nil {
		return err
	}
	if err := h.progress(ctx, report, 70); err != nil {
		return err
	}

	key := StorageKey(project.ID(), report.ID())
	if _, err := h.Blobs.Put(ctx, key, bytes.NewReader(body), pdfContentType); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	report.AttachFile(key)
	return h.progress(ctx, report, 100)
}

func (h *GenerateReportHandler) progress(ctx context.Context, report *domain.Report, value int) error {
	if err := report.UpdateProgress(value, h.Clock.Now()); err != nil {
		return err
	}
	return h.Reports.Save(ctx, report)
}
