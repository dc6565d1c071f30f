package queries

import (
	"context"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

// MilestoneQueries serves the read side of milestones.
type MilestoneQueries struct {
	milestoneRepo domain.MilestoneRepository
	taskRepo      taskDomain.Repository
}

// NewMilestoneQueries creates a MilestoneQueries.
func NewMilestoneQueries(milestoneRepo domain.MilestoneRepository, taskRepo taskDomain.Repository) *MilestoneQueries {
	return &MilestoneQueries{milestoneRepo: milestoneRepo, taskRepo: taskRepo}
}

// GetMilestones returns a project's milestones ordered by due date
// ascending, each with its linked task ids. Percentages are as last
// recomputed.
func (q *MilestoneQueries) GetMilestones(ctx context.Context, projectID uuid.UUID) ([]map[string]any, error) {
	milestones, err := q.milestoneRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(milestones))
	for _, m := range milestones {
		if err := q.attach(ctx, m); err != nil {
			return nil, err
		}
		out = append(out, m.Serialize())
	}
	return out, nil
}

// GetActiveMilestone returns the earliest-due milestone that is not
// completed, or nil when there is none.
func (q *MilestoneQueries) GetActiveMilestone(ctx context.Context, projectID uuid.UUID) (map[string]any, error) {
	milestones, err := q.milestoneRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	active := domain.ActiveMilestone(milestones)
	if active == nil {
		return nil, nil
	}
	if err := q.attach(ctx, active); err != nil {
		return nil, err
	}
	return active.Serialize(), nil
}

// GetMilestone returns one milestone with its linked task ids.
func (q *MilestoneQueries) GetMilestone(ctx context.Context, milestoneID uuid.UUID) (map[string]any, error) {
	m, err := q.milestoneRepo.FindByID(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	if err := q.attach(ctx, m); err != nil {
		return nil, err
	}
	return m.Serialize(), nil
}

// ListTasks returns the tasks linked to a milestone, unsorted.
func (q *MilestoneQueries) ListTasks(ctx context.Context, milestoneID uuid.UUID) ([]map[string]any, error) {
	if _, err := q.milestoneRepo.FindByID(ctx, milestoneID); err != nil {
		return nil, err
	}
	tasks, err := q.taskRepo.FindByMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Serialize())
	}
	return out, nil
}

func (q *MilestoneQueries) attach(ctx context.Context, m *domain.Milestone) error {
	tasks, err := q.taskRepo.FindByMilestone(ctx, m.ID())
	if err != nil {
		return err
	}
	m.AttachTasks(tasks)
	return nil
}
