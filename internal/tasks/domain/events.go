package domain

import (
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated  = "tasks.task.created"
	RoutingKeyUpdated  = "tasks.task.updated"
	RoutingKeyAssigned = "tasks.task.assigned"
)

// TaskCreated is emitted when a task is created.
type TaskCreated struct {
	sharedDomain.BaseEvent
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title"`
}

// TaskUpdated is emitted when a partial update changed at least one field.
type TaskUpdated struct {
	sharedDomain.BaseEvent
	ProjectID  uuid.UUID  `json:"project_id"`
	Title      string     `json:"title"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
	Fields     []string   `json:"fields"`
}

// TaskAssigned is emitted when a task gains a new assignee.
type TaskAssigned struct {
	sharedDomain.BaseEvent
	ProjectID  uuid.UUID  `json:"project_id"`
	Title      string     `json:"title"`
	AssignedTo uuid.UUID  `json:"assigned_to"`
	AssignedBy *uuid.UUID `json:"assigned_by,omitempty"`
}

func newTaskCreated(t *Task) TaskCreated {
	return TaskCreated{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyCreated),
		ProjectID: t.projectID,
		Title:     t.title,
	}
}

func newTaskUpdated(t *Task, fields []string) TaskUpdated {
	return TaskUpdated{
		BaseEvent:  sharedDomain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyUpdated),
		ProjectID:  t.projectID,
		Title:      t.title,
		AssignedTo: t.assignedTo,
		Fields:     fields,
	}
}

func newTaskAssigned(t *Task, assignee uuid.UUID) TaskAssigned {
	return TaskAssigned{
		BaseEvent:  sharedDomain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyAssigned),
		ProjectID:  t.projectID,
		Title:      t.title,
		AssignedTo: assignee,
		AssignedBy: t.createdBy,
	}
}
