package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

// Message is a direct message between two users, optionally about a project.
type Message struct {
	sharedDomain.BaseEntity
	senderID   uuid.UUID
	receiverID uuid.UUID
	projectID  *uuid.UUID
	content    string
	isRead     bool
}

// NewMessage creates an unread message. Content must not be blank.
func NewMessage(senderID, receiverID uuid.UUID, content string, projectID *uuid.UUID) (*Message, error) {
	if senderID == uuid.Nil || receiverID == uuid.Nil {
		return nil, sharedDomain.NewValidationError("receiver_id", "sender and receiver are required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, sharedDomain.NewValidationError("content", "message content cannot be empty")
	}
	return &Message{
		BaseEntity: sharedDomain.NewBaseEntity(),
		senderID:   senderID,
		receiverID: receiverID,
		projectID:  projectID,
		content:    content,
	}, nil
}

func (m *Message) SenderID() uuid.UUID   { return m.senderID }
func (m *Message) ReceiverID() uuid.UUID { return m.receiverID }
func (m *Message) ProjectID() *uuid.UUID { return m.projectID }
func (m *Message) Content() string       { return m.content }
func (m *Message) IsRead() bool          { return m.isRead }
func (m *Message) Timestamp() time.Time  { return m.CreatedAt() }

// MarkRead is idempotent.
func (m *Message) MarkRead() {
	m.isRead = true
}

func (m *Message) Serialize() map[string]any {
	var projectID *string
	if m.projectID != nil {
		s := m.projectID.String()
		projectID = &s
	}
	ts := m.CreatedAt()
	return map[string]any{
		"id":          m.ID().String(),
		"sender_id":   m.senderID.String(),
		"receiver_id": m.receiverID.String(),
		"project_id":  projectID,
		"content":     m.content,
		"timestamp":   sharedDomain.FormatDateTime(&ts),
		"is_read":     m.isRead,
	}
}

// RehydrateMessage rebuilds a stored message.
func RehydrateMessage(id, senderID, receiverID uuid.UUID, projectID *uuid.UUID, content string, isRead bool, createdAt time.Time) *Message {
	return &Message{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, createdAt),
		senderID:   senderID,
		receiverID: receiverID,
		projectID:  projectID,
		content:    content,
		isRead:     isRead,
	}
}
