package queries

import (
	"context"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

// MilestoneProgress is one row of a progress summary.
type MilestoneProgress struct {
	MilestoneID          uuid.UUID `json:"milestone_id"`
	Title                string    `json:"title"`
	DueDate              string    `json:"due_date"`
	Status               string    `json:"status"`
	CompletionPercentage float64   `json:"completion_percentage"`
}

// ProjectProgress summarises a project's milestones as last recomputed.
type ProjectProgress struct {
	ProjectID       uuid.UUID           `json:"project_id"`
	Name            string              `json:"name"`
	Status          string              `json:"status"`
	Milestones      []MilestoneProgress `json:"milestones"`
	ActiveMilestone *uuid.UUID          `json:"active_milestone_id,omitempty"`
	// Overall is the mean of milestone percentages; 0 without milestones.
	Overall float64 `json:"overall_percentage"`
}

// ProjectProgressHandler builds ProjectProgress.
type ProjectProgressHandler struct {
	projectRepo   domain.ProjectRepository
	milestoneRepo domain.MilestoneRepository
}

// NewProjectProgressHandler creates a new ProjectProgressHandler.
func NewProjectProgressHandler(projectRepo domain.ProjectRepository, milestoneRepo domain.MilestoneRepository) *ProjectProgressHandler {
	return &ProjectProgressHandler{projectRepo: projectRepo, milestoneRepo: milestoneRepo}
}

// Handle reads stored percentages; it does not recompute.
func (h *ProjectProgressHandler) Handle(ctx context.Context, projectID uuid.UUID) (*ProjectProgress, error) {
	project, err := h.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	milestones, err := h.milestoneRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	progress := &ProjectProgress{
		ProjectID:  project.ID(),
		Name:       project.Name(),
		Status:     string(project.Status()),
		Milestones: make([]MilestoneProgress, 0, len(milestones)),
	}
	total := 0.0
	for _, m := range milestones {
		progress.Milestones = append(progress.Milestones, MilestoneProgress{
			MilestoneID:          m.ID(),
			Title:                m.Title(),
			DueDate:              m.DueDate().Format(sharedDomain.DateLayout),
			Status:               string(m.Status()),
			CompletionPercentage: m.CompletionPercentage(),
		})
		total += m.CompletionPercentage()
	}
	if len(milestones) > 0 {
		progress.Overall = total / float64(len(milestones))
	}
	if active := domain.ActiveMilestone(milestones); active != nil {
		id := active.ID()
		progress.ActiveMilestone = &id
	}
	return progress, nil
}
