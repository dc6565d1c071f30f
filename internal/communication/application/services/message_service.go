package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/communication/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/google/uuid"
)

// MessageService sends and reads direct messages. Reads never fail: a
// storage error is logged and an empty list is returned.
type MessageService struct {
	repo   domain.MessageRepository
	uow    sharedApplication.UnitOfWork
	logger *slog.Logger
}

// NewMessageService creates a MessageService.
func NewMessageService(repo domain.MessageRepository, uow sharedApplication.UnitOfWork, logger *slog.Logger) *MessageService {
	return &MessageService{repo: repo, uow: uow, logger: logger}
}

// SendDirectMessage stores a new unread message from sender to receiver.
func (s *MessageService) SendDirectMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string, projectID *uuid.UUID) (*domain.Message, error) {
	msg, err := domain.NewMessage(senderID, receiverID, content, projectID)
	if err != nil {
		return nil, err
	}
	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		return s.repo.Save(txCtx, msg)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// GetUnreadMessages lists the user's unread messages, newest first.
func (s *MessageService) GetUnreadMessages(ctx context.Context, userID uuid.UUID) []*domain.Message {
	msgs, err := s.repo.FindUnread(ctx, userID)
	if err != nil {
		s.warn(ctx, "unread messages", userID, err)
		return []*domain.Message{}
	}
	return nonNil(msgs)
}

// GetConversation lists the messages between two users, oldest first,
// optionally restricted to one project.
func (s *MessageService) GetConversation(ctx context.Context, userA, userB uuid.UUID, projectID *uuid.UUID) []*domain.Message {
	msgs, err := s.repo.FindConversation(ctx, userA, userB, projectID)
	if err != nil {
		s.warn(ctx, "conversation", userA, err)
		return []*domain.Message{}
	}
	return nonNil(msgs)
}

// MarkMessageRead flags a message as read. Only the receiver may do so;
// false means the message does not exist, belongs to someone else or
// could not be saved.
func (s *MessageService) MarkMessageRead(ctx context.Context, messageID, receiverID uuid.UUID) bool {
	err := sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		msg, err := s.repo.FindByID(txCtx, messageID)
		if err != nil {
			return err
		}
		if msg.ReceiverID() != receiverID {
			return domain.ErrMessageNotFound
		}
		msg.MarkRead()
		return s.repo.Save(txCtx, msg)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrMessageNotFound) {
			s.warn(ctx, "mark message read", receiverID, err)
		}
		return false
	}
	return true
}

func (s *MessageService) warn(ctx context.Context, op string, userID uuid.UUID, err error) {
	logFailure(ctx, s.logger, op, userID, err)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func logFailure(ctx context.Context, logger *slog.Logger, op string, userID uuid.UUID, err error) {
	if logger == nil {
		return
	}
	logger.WarnContext(ctx, "communication read failed",
		"operation", op,
		"user_id", userID,
		"error", err,
	)
}
