package commands

import (
	"context"
	"log/slog"
	"time"

	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

// ProjectGuard confirms a project exists before a task is attached to it.
type ProjectGuard interface {
	EnsureExists(ctx context.Context, projectID uuid.UUID) error
}

// MilestoneGuard confirms a milestone belongs to the task's project.
type MilestoneGuard interface {
	EnsureInProject(ctx context.Context, milestoneID, projectID uuid.UUID) error
}

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	Title             string
	ProjectID         uuid.UUID
	Description       *string
	Importance        string
	Status            string
	DueDate           *time.Time
	MilestoneID       *uuid.UUID
	AssignedTo        *uuid.UUID
	CreatedBy         *uuid.UUID
	EstimatedDuration *int
	StartDate         *time.Time
	ActualStart       *time.Time
	ActualEnd         *time.Time
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
	Task   map[string]any
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   domain.Repository
	projects   ProjectGuard
	milestones MilestoneGuard
	uow        sharedApplication.UnitOfWork
	publisher  sharedApplication.EventPublisher
	logger     *slog.Logger
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(
	taskRepo domain.Repository,
	projects ProjectGuard,
	milestones MilestoneGuard,
	uow sharedApplication.UnitOfWork,
	publisher sharedApplication.EventPublisher,
	logger *slog.Logger,
) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:   taskRepo,
		projects:   projects,
		milestones: milestones,
		uow:        uow,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	task, err := domain.NewTask(domain.NewTaskParams{
		Title:             cmd.Title,
		ProjectID:         cmd.ProjectID,
		Description:       cmd.Description,
		Importance:        cmd.Importance,
		Status:            cmd.Status,
		DueDate:           cmd.DueDate,
		MilestoneID:       cmd.MilestoneID,
		AssignedTo:        cmd.AssignedTo,
		CreatedBy:         cmd.CreatedBy,
		EstimatedDuration: cmd.EstimatedDuration,
		StartDate:         cmd.StartDate,
		ActualStart:       cmd.ActualStart,
		ActualEnd:         cmd.ActualEnd,
	})
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if h.projects != nil {
			if err := h.projects.EnsureExists(txCtx, cmd.ProjectID); err != nil {
				return err
			}
		}
		if cmd.MilestoneID != nil && h.milestones != nil {
			if err := h.milestones.EnsureInProject(txCtx, *cmd.MilestoneID, cmd.ProjectID); err != nil {
				return err
			}
		}
		return h.taskRepo.Save(txCtx, task)
	})
	if err != nil {
		return nil, err
	}

	sharedApplication.PublishEvents(ctx, h.publisher, h.logger, task)
	return &CreateTaskResult{TaskID: task.ID(), Task: task.Serialize()}, nil
}
