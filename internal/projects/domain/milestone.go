package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

// MinMilestoneTitleLength is the shortest accepted milestone title.
const MinMilestoneTitleLength = 3

// Milestone is a project checkpoint whose completion is derived from the
// tasks linked to it. The percentage only changes when RecomputeCompletion
// runs; editing a task does not refresh it.
type Milestone struct {
	sharedDomain.BaseAggregateRoot
	projectID            uuid.UUID
	title                string
	description          string
	dueDate              time.Time
	status               MilestoneStatus
	completionPercentage float64
	tasks                []*taskDomain.Task
}

// NewMilestone validates the required fields. Status is expected to have
// gone through ParseMilestoneStatus; anything unknown becomes not_started.
func NewMilestone(projectID uuid.UUID, title string, dueDate *time.Time, description string, status MilestoneStatus) (*Milestone, error) {
	title = strings.TrimSpace(title)
	if len(title) < MinMilestoneTitleLength {
		return nil, sharedDomain.NewValidationError("title", "milestone title must be at least %d characters", MinMilestoneTitleLength)
	}
	if projectID == uuid.Nil {
		return nil, sharedDomain.NewValidationError("project_id", "milestone must belong to a project")
	}
	if dueDate == nil || dueDate.IsZero() {
		return nil, sharedDomain.NewValidationError("due_date", "milestone requires a due date")
	}
	if !status.IsValid() {
		status = MilestoneNotStarted
	}
	return &Milestone{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		projectID:         projectID,
		title:             title,
		description:       description,
		dueDate:           sharedDomain.Today(*dueDate),
		status:            status,
	}, nil
}

// Getters
func (m *Milestone) ProjectID() uuid.UUID          { return m.projectID }
func (m *Milestone) Title() string                 { return m.title }
func (m *Milestone) Description() string           { return m.description }
func (m *Milestone) DueDate() time.Time            { return m.dueDate }
func (m *Milestone) Status() MilestoneStatus       { return m.status }
func (m *Milestone) CompletionPercentage() float64 { return m.completionPercentage }
func (m *Milestone) IsCompleted() bool             { return m.status == MilestoneCompleted }

// AttachTasks sets the tasks currently linked to this milestone. The
// stored percentage is left alone until the next recompute.
func (m *Milestone) AttachTasks(tasks []*taskDomain.Task) {
	m.tasks = tasks
}

// Tasks returns the attached tasks in the order they were loaded.
func (m *Milestone) Tasks() []*taskDomain.Task {
	return m.tasks
}

// RecomputeCompletion derives the completion percentage and status from
// the attached tasks and today's date, and returns the percentage.
//
// With no tasks the percentage is 0 and the milestone is delayed when its
// due date has passed, otherwise not started. A fully finished milestone is
// completed regardless of the due date. Anything short of 100% past the due
// date is delayed.
func (m *Milestone) RecomputeCompletion(now time.Time) float64 {
	today := sharedDomain.Today(now)
	overdue := m.dueDate.Before(today)
	previous := m.status

	if len(m.tasks) == 0 {
		m.completionPercentage = 0.0
		if overdue {
			m.status = MilestoneDelayed
		} else {
			m.status = MilestoneNotStarted
		}
	} else {
		finished := 0
		for _, t := range m.tasks {
			if t.IsFinished() {
				finished++
			}
		}
		m.completionPercentage = float64(finished) / float64(len(m.tasks)) * 100

		switch {
		case m.completionPercentage == 100:
			m.status = MilestoneCompleted
		case overdue:
			m.status = MilestoneDelayed
		case m.completionPercentage > 0:
			m.status = MilestoneInProgress
		default:
			m.status = MilestoneNotStarted
		}
	}

	m.Touch()
	if m.status == MilestoneCompleted && previous != MilestoneCompleted {
		m.AddDomainEvent(MilestoneCompletedEvent{
			BaseEvent: sharedDomain.NewBaseEvent(m.ID(), MilestoneAggregateType, RoutingKeyMilestoneCompleted),
			ProjectID: m.projectID,
			Title:     m.title,
		})
	}
	return m.completionPercentage
}

// MilestoneUpdate lists the editable fields of a milestone. Percentage is
// absent on purpose: it only moves through RecomputeCompletion.
type MilestoneUpdate struct {
	Title       sharedDomain.Optional[string]
	Description sharedDomain.Optional[string]
	DueDate     sharedDomain.Optional[time.Time]
}

// Apply validates and writes the supplied fields.
func (m *Milestone) Apply(u MilestoneUpdate) error {
	title := m.title
	if u.Title.IsSet() {
		if u.Title.Ptr() == nil || len(strings.TrimSpace(*u.Title.Ptr())) < MinMilestoneTitleLength {
			return sharedDomain.NewValidationError("title", "milestone title must be at least %d characters", MinMilestoneTitleLength)
		}
		title = strings.TrimSpace(*u.Title.Ptr())
	}
	due := m.dueDate
	if u.DueDate.IsSet() {
		if u.DueDate.Ptr() == nil {
			return sharedDomain.NewValidationError("due_date", "milestone requires a due date")
		}
		due = sharedDomain.Today(*u.DueDate.Ptr())
	}

	m.title = title
	m.dueDate = due
	if u.Description.IsSet() {
		m.description = ""
		if d := u.Description.Ptr(); d != nil {
			m.description = *d
		}
	}
	m.Touch()
	return nil
}

// Serialize renders the milestone with the ids of its attached tasks.
func (m *Milestone) Serialize() map[string]any {
	taskIDs := make([]string, 0, len(m.tasks))
	for _, t := range m.tasks {
		taskIDs = append(taskIDs, t.ID().String())
	}
	created := m.CreatedAt()
	return map[string]any{
		"id":                    m.ID().String(),
		"title":                 m.title,
		"description":           m.description,
		"due_date":              m.dueDate.Format(sharedDomain.DateLayout),
		"status":                string(m.status),
		"completion_percentage": m.completionPercentage,
		"project_id":            m.projectID.String(),
		"created_at":            sharedDomain.FormatDateTime(&created),
		"tasks":                 taskIDs,
	}
}

// RehydrateMilestone recreates a milestone from persisted data.
func RehydrateMilestone(
	id, projectID uuid.UUID,
	title, description string,
	dueDate time.Time,
	status MilestoneStatus,
	completionPercentage float64,
	createdAt, updatedAt time.Time,
) *Milestone {
	return &Milestone{
		BaseAggregateRoot:    sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		projectID:            projectID,
		title:                title,
		description:          description,
		dueDate:              dueDate,
		status:               status,
		completionPercentage: completionPercentage,
	}
}
