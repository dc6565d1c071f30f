package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/MohamedAbusurra/CS438class/internal/projects/application/commands"
	"github.com/MohamedAbusurra/CS438class/internal/projects/application/queries"
)

type projectIDInput struct {
	ProjectID string `json:"project_id" jsonschema:"required"`
}

type projectProgressInput struct {
	ProjectID string `json:"project_id" jsonschema:"required"`
	// Refresh recomputes every milestone before reading.
	Refresh bool `json:"refresh,omitempty"`
}

type milestoneIDInput struct {
	MilestoneID string `json:"milestone_id" jsonschema:"required"`
}

type recomputeOutput struct {
	MilestoneID          string  `json:"milestone_id"`
	CompletionPercentage float64 `json:"completion_percentage"`
	Status               string  `json:"status"`
}

type activeMilestoneOutput struct {
	Milestone map[string]any `json:"milestone"`
}

func registerProjectTools(srv *mcp.Server, t *toolset) {
	srv.Tool("project.list").
		Description("List all projects").
		Handler(t.projectList)

	srv.Tool("project.progress").
		Description("Show a project's milestone progress and overall percentage").
		Handler(t.projectProgress)

	srv.Tool("milestone.recompute").
		Description("Recompute a milestone's completion from its linked tasks").
		Handler(t.milestoneRecompute)

	srv.Tool("milestone.active").
		Description("Show the earliest-due milestone of a project that is not completed").
		Handler(t.milestoneActive)
}

func (t *toolset) projectList(ctx context.Context, _ struct{}) ([]map[string]any, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	return t.app.Container.ListProjects.Handle(ctx), nil
}

func (t *toolset) projectProgress(ctx context.Context, input projectProgressInput) (*queries.ProjectProgress, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	id, err := parseUUID(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if input.Refresh {
		t.app.Container.UpdateMilestoneProgress.Handle(ctx, commands.UpdateMilestoneProgressCommand{ProjectID: id})
	}
	return t.app.Container.ProjectProgress.Handle(ctx, id)
}

func (t *toolset) milestoneRecompute(ctx context.Context, input milestoneIDInput) (*recomputeOutput, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	id, err := parseUUID(input.MilestoneID)
	if err != nil {
		return nil, err
	}
	result, err := t.app.Container.RecomputeMilestone.Handle(ctx, commands.RecomputeMilestoneCommand{MilestoneID: id})
	if err != nil {
		return nil, err
	}
	return &recomputeOutput{
		MilestoneID:          result.MilestoneID.String(),
		CompletionPercentage: result.CompletionPercentage,
		Status:               string(result.Status),
	}, nil
}

func (t *toolset) milestoneActive(ctx context.Context, input projectIDInput) (*activeMilestoneOutput, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	id, err := parseUUID(input.ProjectID)
	if err != nil {
		return nil, err
	}
	m, err := t.app.Container.Milestones.GetActiveMilestone(ctx, id)
	if err != nil {
		return nil, err
	}
	return &activeMilestoneOutput{Milestone: m}, nil
}
