package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

// Project is the parent collection for milestones, tasks, files and
// reports.
type Project struct {
	sharedDomain.BaseAggregateRoot
	name            string
	description     string
	startDate       *time.Time
	expectedEndDate *time.Time
	status          ProjectStatus
	createdBy       *uuid.UUID
}

// NewProject creates a project. An unknown status silently becomes active.
func NewProject(name, description string, startDate, expectedEndDate *time.Time, status string, createdBy *uuid.UUID) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, sharedDomain.NewValidationError("name", "project name cannot be empty")
	}
	if err := checkDates(startDate, expectedEndDate); err != nil {
		return nil, err
	}
	p := &Project{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		name:              name,
		description:       description,
		startDate:         dateOnly(startDate),
		expectedEndDate:   dateOnly(expectedEndDate),
		status:            ParseProjectStatus(status),
		createdBy:         createdBy,
	}
	p.AddDomainEvent(ProjectCreated{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), ProjectAggregateType, RoutingKeyProjectCreated),
		Name:      p.name,
		CreatedBy: createdBy,
	})
	return p, nil
}

// Getters
func (p *Project) Name() string                { return p.name }
func (p *Project) Description() string         { return p.description }
func (p *Project) StartDate() *time.Time       { return p.startDate }
func (p *Project) ExpectedEndDate() *time.Time { return p.expectedEndDate }
func (p *Project) Status() ProjectStatus       { return p.status }
func (p *Project) CreatedBy() *uuid.UUID       { return p.createdBy }

// ProjectUpdate lists the editable fields of a project.
type ProjectUpdate struct {
	Name            sharedDomain.Optional[string]
	Description     sharedDomain.Optional[string]
	StartDate       sharedDomain.Optional[time.Time]
	ExpectedEndDate sharedDomain.Optional[time.Time]
	Status          sharedDomain.Optional[string]
}

// Apply writes the supplied fields. Unlike creation, an explicit unknown
// status is rejected so a typo cannot silently reactivate a project.
func (p *Project) Apply(u ProjectUpdate) ([]string, error) {
	name := p.name
	if u.Name.IsSet() {
		if u.Name.Ptr() == nil || strings.TrimSpace(*u.Name.Ptr()) == "" {
			return nil, sharedDomain.NewValidationError("name", "project name cannot be empty")
		}
		name = strings.TrimSpace(*u.Name.Ptr())
	}
	status := p.status
	if u.Status.IsSet() {
		if u.Status.Ptr() == nil || !ProjectStatus(*u.Status.Ptr()).IsValid() {
			return nil, sharedDomain.NewValidationError("status", "invalid project status")
		}
		status = ProjectStatus(*u.Status.Ptr())
	}
	start, end := p.startDate, p.expectedEndDate
	u.StartDate.Apply(&start)
	u.ExpectedEndDate.Apply(&end)
	if err := checkDates(start, end); err != nil {
		return nil, err
	}

	var fields []string
	if u.Name.IsSet() {
		fields = append(fields, "name")
	}
	if u.Description.IsSet() {
		p.description = ""
		if d := u.Description.Ptr(); d != nil {
			p.description = *d
		}
		fields = append(fields, "description")
	}
	if u.StartDate.IsSet() {
		fields = append(fields, "start_date")
	}
	if u.ExpectedEndDate.IsSet() {
		fields = append(fields, "expected_end_date")
	}
	if u.Status.IsSet() {
		fields = append(fields, "status")
	}
	if len(fields) == 0 {
		return nil, nil
	}

	p.name = name
	p.status = status
	p.startDate = dateOnly(start)
	p.expectedEndDate = dateOnly(end)
	p.Touch()
	p.AddDomainEvent(ProjectUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), ProjectAggregateType, RoutingKeyProjectUpdated),
		Name:      p.name,
		Status:    string(p.status),
		CreatedBy: p.createdBy,
		Fields:    fields,
	})
	return fields, nil
}

// Serialize renders the project as a flat map.
func (p *Project) Serialize() map[string]any {
	created := p.CreatedAt()
	var createdBy *string
	if p.createdBy != nil {
		s := p.createdBy.String()
		createdBy = &s
	}
	return map[string]any{
		"id":                p.ID().String(),
		"name":              p.name,
		"description":       p.description,
		"start_date":        sharedDomain.FormatDate(p.startDate),
		"expected_end_date": sharedDomain.FormatDate(p.expectedEndDate),
		"status":            string(p.status),
		"created_by_id":     createdBy,
		"created_at":        sharedDomain.FormatDateTime(&created),
	}
}

// RehydrateProject recreates a project from persisted data.
func RehydrateProject(
	id uuid.UUID,
	name, description string,
	startDate, expectedEndDate *time.Time,
	status ProjectStatus,
	createdBy *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Project {
	return &Project{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		name:              name,
		description:       description,
		startDate:         startDate,
		expectedEndDate:   expectedEndDate,
		status:            ParseProjectStatus(string(status)),
		createdBy:         createdBy,
	}
}

func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return sharedDomain.NewValidationError("expected_end_date", "must not be before the start date")
	}
	return nil
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := sharedDomain.Today(*t)
	return &d
}

// ActiveMilestone picks the earliest-due milestone that is not completed
// from a slice already ordered by due date.
func ActiveMilestone(milestones []*Milestone) *Milestone {
	for _, m := range milestones {
		if !m.IsCompleted() {
			return m
		}
	}
	return nil
}
