package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

// NotificationType classifies a notification.
type NotificationType string

const (
	TypeTaskAssigned        NotificationType = "task_assigned"
	TypeTaskUpdated         NotificationType = "task_updated"
	TypeProjectUpdated      NotificationType = "project_updated"
	TypeDeadlineApproaching NotificationType = "deadline_approaching"
	TypeMilestoneCompleted  NotificationType = "milestone_completed"
	TypeCustom              NotificationType = "custom"
)

// ParseNotificationType returns custom and false for anything unknown.
func ParseNotificationType(s string) (NotificationType, bool) {
	switch t := NotificationType(s); t {
	case TypeTaskAssigned, TypeTaskUpdated, TypeProjectUpdated,
		TypeDeadlineApproaching, TypeMilestoneCompleted, TypeCustom:
		return t, true
	}
	return TypeCustom, false
}

// Notification is an in-app alert for one user. It may point at a task,
// milestone or project.
type Notification struct {
	sharedDomain.BaseEntity
	userID      uuid.UUID
	title       string
	content     string
	kind        NotificationType
	projectID   *uuid.UUID
	taskID      *uuid.UUID
	milestoneID *uuid.UUID
	isRead      bool
}

// NewNotificationParams describes a notification.
type NewNotificationParams struct {
	UserID      uuid.UUID
	Title       string
	Type        NotificationType
	Content     string
	ProjectID   *uuid.UUID
	TaskID      *uuid.UUID
	MilestoneID *uuid.UUID
}

// NewNotification creates an unread notification. An unknown type is
// stored as custom.
func NewNotification(p NewNotificationParams) (*Notification, error) {
	if p.UserID == uuid.Nil {
		return nil, sharedDomain.NewValidationError("user_id", "notification needs a recipient")
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, sharedDomain.NewValidationError("title", "notification title must have a value")
	}
	kind, _ := ParseNotificationType(string(p.Type))
	return &Notification{
		BaseEntity:  sharedDomain.NewBaseEntity(),
		userID:      p.UserID,
		title:       title,
		content:     p.Content,
		kind:        kind,
		projectID:   p.ProjectID,
		taskID:      p.TaskID,
		milestoneID: p.MilestoneID,
	}, nil
}

func (n *Notification) UserID() uuid.UUID       { return n.userID }
func (n *Notification) Title() string           { return n.title }
func (n *Notification) Content() string         { return n.content }
func (n *Notification) Type() NotificationType  { return n.kind }
func (n *Notification) ProjectID() *uuid.UUID   { return n.projectID }
func (n *Notification) TaskID() *uuid.UUID      { return n.taskID }
func (n *Notification) MilestoneID() *uuid.UUID { return n.milestoneID }
func (n *Notification) IsRead() bool            { return n.isRead }

func (n *Notification) MarkRead() {
	n.isRead = true
}

// Link points at the most specific related item: task, then milestone,
// then project. "#" when there is none.
func (n *Notification) Link() string {
	switch {
	case n.taskID != nil:
		return "/task/" + n.taskID.String()
	case n.milestoneID != nil:
		return "/milestone/" + n.milestoneID.String()
	case n.projectID != nil:
		return "/project/" + n.projectID.String()
	}
	return "#"
}

func (n *Notification) Serialize() map[string]any {
	ts := n.CreatedAt()
	return map[string]any{
		"id":                n.ID().String(),
		"user_id":           n.userID.String(),
		"title":             n.title,
		"content":           n.content,
		"notification_type": string(n.kind),
		"project_id":        idString(n.projectID),
		"task_id":           idString(n.taskID),
		"milestone_id":      idString(n.milestoneID),
		"timestamp":         sharedDomain.FormatDateTime(&ts),
		"is_read":           n.isRead,
		"link":              n.Link(),
	}
}

// RehydrateNotification rebuilds a stored notification.
func RehydrateNotification(
	id, userID uuid.UUID,
	title, content string,
	kind NotificationType,
	projectID, taskID, milestoneID *uuid.UUID,
	isRead bool,
	createdAt time.Time,
) *Notification {
	return &Notification{
		BaseEntity:  sharedDomain.RehydrateBaseEntity(id, createdAt, createdAt),
		userID:      userID,
		title:       title,
		content:     content,
		kind:        kind,
		projectID:   projectID,
		taskID:      taskID,
		milestoneID: milestoneID,
		isRead:      isRead,
	}
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
