package domain

import (
	"context"

	"github.com/google/uuid"
)

// MessageRepository persists direct messages.
type MessageRepository interface {
	Save(ctx context.Context, m *Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	// FindUnread returns the receiver's unread messages, newest first.
	FindUnread(ctx context.Context, receiverID uuid.UUID) ([]*Message, error)
	// FindConversation returns messages between two users in either
	// direction, oldest first. A non-nil projectID narrows to that project.
	FindConversation(ctx context.Context, userA, userB uuid.UUID, projectID *uuid.UUID) ([]*Message, error)
}

// NotificationRepository persists notifications.
type NotificationRepository interface {
	Save(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	// FindByUser returns the user's notifications, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID, includeRead bool, limit int) ([]*Notification, error)
	// UnreadIDs lists the ids of the user's unread notifications.
	UnreadIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// MarkRead flags the given notifications as read and returns how many changed.
	MarkRead(ctx context.Context, ids []uuid.UUID) (int64, error)
}
