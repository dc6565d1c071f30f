package queries

import (
	"context"
	"log/slog"

	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

// ListerFunc loads serialized rows owned by a project. Files and reports
// live in other contexts and are plugged in through this type.
type ListerFunc func(ctx context.Context, projectID uuid.UUID) ([]map[string]any, error)

// ProjectLookups serves the project's ownership-filtered lists. Every
// method is fail-soft: on error it logs and returns an empty list so one
// broken relation cannot take down a whole project view.
type ProjectLookups struct {
	taskRepo taskDomain.Repository
	files    ListerFunc
	reports  ListerFunc
	logger   *slog.Logger
}

// NewProjectLookups creates a ProjectLookups.
func NewProjectLookups(taskRepo taskDomain.Repository, files, reports ListerFunc, logger *slog.Logger) *ProjectLookups {
	return &ProjectLookups{taskRepo: taskRepo, files: files, reports: reports, logger: logger}
}

// GetTasks lists the project's tasks.
func (l *ProjectLookups) GetTasks(ctx context.Context, projectID uuid.UUID) []map[string]any {
	tasks, err := l.taskRepo.FindByProject(ctx, projectID)
	if err != nil {
		logReadFailure(ctx, l.logger, "tasks", projectID, err)
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Serialize())
	}
	return out
}

// GetFiles lists the project's files.
func (l *ProjectLookups) GetFiles(ctx context.Context, projectID uuid.UUID) []map[string]any {
	return l.safe(ctx, "files", l.files, projectID)
}

// GetReports lists the project's reports.
func (l *ProjectLookups) GetReports(ctx context.Context, projectID uuid.UUID) []map[string]any {
	return l.safe(ctx, "reports", l.reports, projectID)
}

func (l *ProjectLookups) safe(ctx context.Context, what string, fn ListerFunc, projectID uuid.UUID) []map[string]any {
	if fn == nil {
		return []map[string]any{}
	}
	rows, err := fn(ctx, projectID)
	if err != nil {
		logReadFailure(ctx, l.logger, what, projectID, err)
		return []map[string]any{}
	}
	if rows == nil {
		return []map[string]any{}
	}
	return rows
}
