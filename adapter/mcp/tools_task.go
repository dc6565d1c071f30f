package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/internal/tasks/application/commands"
	"github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
)

type taskCreateInput struct {
	ProjectID         string `json:"project_id" jsonschema:"required"`
	Title             string `json:"title" jsonschema:"required"`
	Description       string `json:"description,omitempty"`
	Importance        string `json:"importance,omitempty"`
	Status            string `json:"status,omitempty"`
	DueDate           string `json:"due_date,omitempty"`
	MilestoneID       string `json:"milestone_id,omitempty"`
	AssignedTo        string `json:"assigned_to,omitempty"`
	EstimatedDuration int    `json:"estimated_duration,omitempty"`
}

// taskUpdateInput uses pointers so omitted fields stay untouched. An empty
// string clears a nullable field.
type taskUpdateInput struct {
	TaskID            string  `json:"task_id" jsonschema:"required"`
	Title             *string `json:"title,omitempty"`
	Description       *string `json:"description,omitempty"`
	Importance        *string `json:"importance,omitempty"`
	Status            *string `json:"status,omitempty"`
	DueDate           *string `json:"due_date,omitempty"`
	MilestoneID       *string `json:"milestone_id,omitempty"`
	AssignedTo        *string `json:"assigned_to,omitempty"`
	EstimatedDuration *int    `json:"estimated_duration,omitempty"`
}

type taskUpdateOutput struct {
	UpdatedFields []string       `json:"updated_fields"`
	Task          map[string]any `json:"task"`
}

func registerTaskTools(srv *mcp.Server, t *toolset) {
	srv.Tool("task.create").
		Description("Create a task in a project, optionally linked to a milestone").
		Handler(t.taskCreate)

	srv.Tool("task.update").
		Description("Update a task; only supplied fields change").
		Handler(t.taskUpdate)
}

func (t *toolset) taskCreate(ctx context.Context, input taskCreateInput) (map[string]any, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	projectID, err := parseUUID(input.ProjectID)
	if err != nil {
		return nil, err
	}
	cmd := commands.CreateTaskCommand{
		Title:      input.Title,
		ProjectID:  projectID,
		Importance: input.Importance,
		Status:     input.Status,
		CreatedBy:  t.app.ActorPtr(),
	}
	if input.Description != "" {
		cmd.Description = &input.Description
	}
	if input.EstimatedDuration > 0 {
		cmd.EstimatedDuration = &input.EstimatedDuration
	}
	if cmd.DueDate, err = parseDate(input.DueDate); err != nil {
		return nil, err
	}
	if cmd.MilestoneID, err = parseOptionalUUID(input.MilestoneID); err != nil {
		return nil, err
	}
	if cmd.AssignedTo, err = parseOptionalUUID(input.AssignedTo); err != nil {
		return nil, err
	}

	result, err := t.app.Container.CreateTask.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return result.Task, nil
}

func (t *toolset) taskUpdate(ctx context.Context, input taskUpdateInput) (*taskUpdateOutput, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	id, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}

	update := domain.Update{
		Description: optionalString(input.Description),
		Importance:  optionalString(input.Importance),
		Status:      optionalString(input.Status),
	}
	if input.Title != nil {
		update.Title = sharedDomain.Some(*input.Title)
	}
	if input.EstimatedDuration != nil {
		update.EstimatedDuration = sharedDomain.Some(*input.EstimatedDuration)
	}
	if update.DueDate, err = optionalDate(input.DueDate); err != nil {
		return nil, err
	}
	if update.MilestoneID, err = optionalUUID(input.MilestoneID); err != nil {
		return nil, err
	}
	if update.AssignedTo, err = optionalUUID(input.AssignedTo); err != nil {
		return nil, err
	}

	result, err := t.app.Container.UpdateTask.Handle(ctx, commands.UpdateTaskCommand{TaskID: id, Update: update})
	if err != nil {
		return nil, err
	}
	return &taskUpdateOutput{UpdatedFields: result.Fields, Task: result.Task}, nil
}
