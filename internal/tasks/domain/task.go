package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

// Task is one unit of work inside a project, optionally grouped under a
// milestone.
type Task struct {
	sharedDomain.BaseAggregateRoot
	projectID         uuid.UUID
	milestoneID       *uuid.UUID
	title             string
	description       *string
	importance        Importance
	status            Status
	dueDate           *time.Time
	startDate         *time.Time
	actualStart       *time.Time
	actualEnd         *time.Time
	estimatedDuration *int
	assignedTo        *uuid.UUID
	createdBy         *uuid.UUID
}

// NewTaskParams holds the creation fields. Importance and Status are raw
// strings so invalid input surfaces as a ValidationError; empty values take
// the defaults.
type NewTaskParams struct {
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

// NewTask validates p and builds a task.
func NewTask(p NewTaskParams) (*Task, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, sharedDomain.NewValidationError("title", "task title cannot be empty")
	}
	if p.ProjectID == uuid.Nil {
		return nil, sharedDomain.NewValidationError("project_id", "task must belong to a project")
	}
	importance, err := ParseImportance(p.Importance)
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(p.Status)
	if err != nil {
		return nil, err
	}
	if p.EstimatedDuration != nil && *p.EstimatedDuration < 0 {
		return nil, sharedDomain.NewValidationError("estimated_duration", "must not be negative")
	}

	t := &Task{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		projectID:         p.ProjectID,
		milestoneID:       p.MilestoneID,
		title:             title,
		description:       p.Description,
		importance:        importance,
		status:            status,
		dueDate:           dateOnly(p.DueDate),
		startDate:         dateOnly(p.StartDate),
		actualStart:       p.ActualStart,
		actualEnd:         p.ActualEnd,
		estimatedDuration: p.EstimatedDuration,
		assignedTo:        p.AssignedTo,
		createdBy:         p.CreatedBy,
	}
	t.AddDomainEvent(newTaskCreated(t))
	if t.assignedTo != nil {
		t.AddDomainEvent(newTaskAssigned(t, *t.assignedTo))
	}
	return t, nil
}

// Getters
func (t *Task) ProjectID() uuid.UUID    { return t.projectID }
func (t *Task) MilestoneID() *uuid.UUID { return t.milestoneID }
func (t *Task) Title() string           { return t.title }
func (t *Task) Description() *string    { return t.description }
func (t *Task) Importance() Importance  { return t.importance }
func (t *Task) Status() Status          { return t.status }
func (t *Task) DueDate() *time.Time     { return t.dueDate }
func (t *Task) StartDate() *time.Time   { return t.startDate }
func (t *Task) ActualStart() *time.Time { return t.actualStart }
func (t *Task) ActualEnd() *time.Time   { return t.actualEnd }
func (t *Task) EstimatedDuration() *int { return t.estimatedDuration }
func (t *Task) AssignedTo() *uuid.UUID  { return t.assignedTo }
func (t *Task) CreatedBy() *uuid.UUID   { return t.createdBy }
func (t *Task) IsFinished() bool        { return t.status == StatusFinished }
func (t *Task) IsHighImportance() bool  { return t.importance == ImportanceHigh }

// IsOverdue reports whether the task is unfinished and due before today.
func (t *Task) IsOverdue(today time.Time) bool {
	return t.dueDate != nil && !t.IsFinished() && t.dueDate.Before(sharedDomain.Today(today))
}

// Update lists the fields of a partial update. Fields left at their zero
// Optional are not touched; an Optional holding nil clears the field.
type Update struct {
	Title             sharedDomain.Optional[string]
	Description       sharedDomain.Optional[string]
	Importance        sharedDomain.Optional[string]
	Status            sharedDomain.Optional[string]
	DueDate           sharedDomain.Optional[time.Time]
	StartDate         sharedDomain.Optional[time.Time]
	ActualStart       sharedDomain.Optional[time.Time]
	ActualEnd         sharedDomain.Optional[time.Time]
	EstimatedDuration sharedDomain.Optional[int]
	MilestoneID       sharedDomain.Optional[uuid.UUID]
	AssignedTo        sharedDomain.Optional[uuid.UUID]
}

// Apply validates u as a whole and then writes the supplied fields. Nothing
// changes when validation fails. It returns the names of the supplied
// fields.
func (t *Task) Apply(u Update) ([]string, error) {
	var (
		title      = t.title
		importance = t.importance
		status     = t.status
		err        error
	)
	if u.Title.IsSet() {
		if u.Title.Ptr() == nil || strings.TrimSpace(*u.Title.Ptr()) == "" {
			return nil, sharedDomain.NewValidationError("title", "task title cannot be empty")
		}
		title = strings.TrimSpace(*u.Title.Ptr())
	}
	if u.Importance.IsSet() {
		raw := ""
		if u.Importance.Ptr() != nil {
			raw = *u.Importance.Ptr()
		}
		if importance, err = parseRequired(raw, ParseImportance, "importance"); err != nil {
			return nil, err
		}
	}
	if u.Status.IsSet() {
		raw := ""
		if u.Status.Ptr() != nil {
			raw = *u.Status.Ptr()
		}
		if status, err = parseRequired(raw, ParseStatus, "status"); err != nil {
			return nil, err
		}
	}
	if d := u.EstimatedDuration.Ptr(); d != nil && *d < 0 {
		return nil, sharedDomain.NewValidationError("estimated_duration", "must not be negative")
	}

	var fields []string
	mark := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	previousAssignee := t.assignedTo

	t.title = title
	mark(u.Title.IsSet(), "title")
	u.Description.Apply(&t.description)
	mark(u.Description.IsSet(), "description")
	t.importance = importance
	mark(u.Importance.IsSet(), "importance")
	t.status = status
	mark(u.Status.IsSet(), "status")
	u.DueDate.Apply(&t.dueDate)
	t.dueDate = dateOnly(t.dueDate)
	mark(u.DueDate.IsSet(), "due_date")
	u.StartDate.Apply(&t.startDate)
	t.startDate = dateOnly(t.startDate)
	mark(u.StartDate.IsSet(), "start_date")
	u.ActualStart.Apply(&t.actualStart)
	mark(u.ActualStart.IsSet(), "actual_start_datetime")
	u.ActualEnd.Apply(&t.actualEnd)
	mark(u.ActualEnd.IsSet(), "actual_end_datetime")
	u.EstimatedDuration.Apply(&t.estimatedDuration)
	mark(u.EstimatedDuration.IsSet(), "estimated_duration")
	u.MilestoneID.Apply(&t.milestoneID)
	mark(u.MilestoneID.IsSet(), "milestone_id")
	u.AssignedTo.Apply(&t.assignedTo)
	mark(u.AssignedTo.IsSet(), "assigned_to_id")

	if len(fields) == 0 {
		return nil, nil
	}
	t.Touch()
	t.AddDomainEvent(newTaskUpdated(t, fields))
	if t.assignedTo != nil && (previousAssignee == nil || *previousAssignee != *t.assignedTo) {
		t.AddDomainEvent(newTaskAssigned(t, *t.assignedTo))
	}
	return fields, nil
}

// LinkMilestone sets or clears the milestone this task counts toward.
func (t *Task) LinkMilestone(milestoneID *uuid.UUID) {
	t.milestoneID = milestoneID
	t.Touch()
}

// Serialize renders the task as a flat map with pre-formatted dates.
func (t *Task) Serialize() map[string]any {
	return map[string]any{
		"id":                    t.ID().String(),
		"title":                 t.title,
		"description":           t.description,
		"importance":            string(t.importance),
		"status":                string(t.status),
		"due_date":              sharedDomain.FormatDate(t.dueDate),
		"created_at":            sharedDomain.FormatDateTime(ptr(t.CreatedAt())),
		"start_date":            sharedDomain.FormatDate(t.startDate),
		"actual_start_datetime": sharedDomain.FormatDateTime(t.actualStart),
		"actual_end_datetime":   sharedDomain.FormatDateTime(t.actualEnd),
		"project_id":            t.projectID.String(),
		"milestone_id":          idString(t.milestoneID),
		"assigned_to_id":        idString(t.assignedTo),
		"created_by_id":         idString(t.createdBy),
		"estimated_duration":    t.estimatedDuration,
		"is_high_importance":    t.IsHighImportance(),
	}
}

// RehydrateTask recreates a task from persisted data.
func RehydrateTask(
	id, projectID uuid.UUID,
	milestoneID *uuid.UUID,
	title string,
	description *string,
	importance Importance,
	status Status,
	dueDate, startDate, actualStart, actualEnd *time.Time,
	estimatedDuration *int,
	assignedTo, createdBy *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Task {
	return &Task{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		projectID:         projectID,
		milestoneID:       milestoneID,
		title:             title,
		description:       description,
		importance:        importance,
		status:            status,
		dueDate:           dueDate,
		startDate:         startDate,
		actualStart:       actualStart,
		actualEnd:         actualEnd,
		estimatedDuration: estimatedDuration,
		assignedTo:        assignedTo,
		createdBy:         createdBy,
	}
}

// parseRequired rejects an explicit empty value, which on create would have
// meant "use the default".
func parseRequired[T any](raw string, parse func(string) (T, error), field string) (T, error) {
	if raw == "" {
		var zero T
		return zero, sharedDomain.NewValidationError(field, "cannot be cleared")
	}
	return parse(raw)
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := sharedDomain.Today(*t)
	return &d
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func ptr[T any](v T) *T { return &v }
