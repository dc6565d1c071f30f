package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/communication/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/google/uuid"
)

// DefaultNotificationLimit caps GetUserNotifications when no limit is given.
const DefaultNotificationLimit = 100

// SystemNotification describes a notification raised by the system.
type SystemNotification struct {
	UserID      uuid.UUID
	Title       string
	Content     string
	Type        string
	ProjectID   *uuid.UUID
	TaskID      *uuid.UUID
	MilestoneID *uuid.UUID
}

// NotificationService creates and reads in-app notifications.
type NotificationService struct {
	repo   domain.NotificationRepository
	uow    sharedApplication.UnitOfWork
	logger *slog.Logger
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(repo domain.NotificationRepository, uow sharedApplication.UnitOfWork, logger *slog.Logger) *NotificationService {
	return &NotificationService{repo: repo, uow: uow, logger: logger}
}

// CreateSystemNotification stores a notification. An unknown type is
// stored as custom.
func (s *NotificationService) CreateSystemNotification(ctx context.Context, in SystemNotification) (*domain.Notification, error) {
	kind, ok := domain.ParseNotificationType(in.Type)
	if !ok && s.logger != nil {
		s.logger.WarnContext(ctx, "unknown notification type, using custom", "type", in.Type)
	}
	n, err := domain.NewNotification(domain.NewNotificationParams{
		UserID:      in.UserID,
		Title:       in.Title,
		Type:        kind,
		Content:     in.Content,
		ProjectID:   in.ProjectID,
		TaskID:      in.TaskID,
		MilestoneID: in.MilestoneID,
	})
	if err != nil {
		return nil, err
	}
	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		return s.repo.Save(txCtx, n)
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// GetUnreadNotifications lists the user's unread notifications, newest first.
func (s *NotificationService) GetUnreadNotifications(ctx context.Context, userID uuid.UUID) []*domain.Notification {
	list, err := s.repo.FindByUser(ctx, userID, false, 0)
	if err != nil {
		logFailure(ctx, s.logger, "unread notifications", userID, err)
		return []*domain.Notification{}
	}
	return nonNil(list)
}

// GetUserNotifications lists up to limit notifications, newest first.
// A non-positive limit means DefaultNotificationLimit.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID uuid.UUID, includeRead bool, limit int) []*domain.Notification {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	list, err := s.repo.FindByUser(ctx, userID, includeRead, limit)
	if err != nil {
		logFailure(ctx, s.logger, "notifications", userID, err)
		return []*domain.Notification{}
	}
	return nonNil(list)
}

// MarkNotificationRead flags one of the user's notifications as read.
func (s *NotificationService) MarkNotificationRead(ctx context.Context, notificationID, userID uuid.UUID) bool {
	err := sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		n, err := s.repo.FindByID(txCtx, notificationID)
		if err != nil {
			return err
		}
		if n.UserID() != userID {
			return domain.ErrNotificationNotFound
		}
		n.MarkRead()
		return s.repo.Save(txCtx, n)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotificationNotFound) {
			logFailure(ctx, s.logger, "mark notification read", userID, err)
		}
		return false
	}
	return true
}

// MarkAllRead flags every unread notification of the user and returns
// how many changed. Errors yield 0.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) int {
	var count int64
	err := sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		ids, err := s.repo.UnreadIDs(txCtx, userID)
		if err != nil {
			return err
		}
		count, err = s.repo.MarkRead(txCtx, ids)
		return err
	})
	if err != nil {
		logFailure(ctx, s.logger, "mark all notifications read", userID, err)
		return 0
	}
	return int(count)
}
