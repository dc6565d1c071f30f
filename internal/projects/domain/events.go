package domain

import (
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	ProjectAggregateType   = "Project"
	MilestoneAggregateType = "Milestone"

	RoutingKeyProjectCreated     = "projects.project.created"
	RoutingKeyProjectUpdated     = "projects.project.updated"
	RoutingKeyMilestoneCompleted = "projects.milestone.completed"
)

// ProjectCreated is emitted when a project is created.
type ProjectCreated struct {
	sharedDomain.BaseEvent
	Name      string     `json:"name"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
}

// ProjectUpdated is emitted after a partial update.
type ProjectUpdated struct {
	sharedDomain.BaseEvent
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	Fields    []string   `json:"fields"`
}

// MilestoneCompletedEvent is emitted when a recompute moves a milestone into
// completed.
type MilestoneCompletedEvent struct {
	sharedDomain.BaseEvent
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title"`
}
