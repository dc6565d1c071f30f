package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/internal/communication/domain"
	"github.com/MohamedAbusurra/CS438class/internal/communication/infrastructure/persistence"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/dbtest"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

func newMessageService(t *testing.T) *MessageService {
	conn := dbtest.Open(t)
	return NewMessageService(persistence.NewMessageRepository(conn), database.NewUnitOfWork(conn), observability.DiscardLogger())
}

func newNotificationService(t *testing.T) *NotificationService {
	conn := dbtest.Open(t)
	return NewNotificationService(persistence.NewNotificationRepository(conn), database.NewUnitOfWork(conn), observability.DiscardLogger())
}

func TestMessageService_SendAndRead(t *testing.T) {
	ctx := context.Background()
	svc := newMessageService(t)
	alice, bob := uuid.New(), uuid.New()

	_, err := svc.SendDirectMessage(ctx, alice, bob, "   ", nil)
	assert.ErrorIs(t, err, sharedDomain.ErrValidation)

	first, err := svc.SendDirectMessage(ctx, alice, bob, "hello", nil)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = svc.SendDirectMessage(ctx, bob, alice, "hi back", nil)
	require.NoError(t, err)

	unread := svc.GetUnreadMessages(ctx, bob)
	require.Len(t, unread, 1)
	assert.Equal(t, first.ID(), unread[0].ID())

	conv := svc.GetConversation(ctx, bob, alice, nil)
	require.Len(t, conv, 2)
	assert.Equal(t, "hello", conv[0].Content())

	t.Run("only the receiver marks read", func(t *testing.T) {
		assert.False(t, svc.MarkMessageRead(ctx, first.ID(), alice))
		assert.True(t, svc.MarkMessageRead(ctx, first.ID(), bob))
		assert.Empty(t, svc.GetUnreadMessages(ctx, bob))
	})

	t.Run("unknown message", func(t *testing.T) {
		assert.False(t, svc.MarkMessageRead(ctx, uuid.New(), bob))
	})
}

type failingMessages struct{ domain.MessageRepository }

func (failingMessages) FindUnread(context.Context, uuid.UUID) ([]*domain.Message, error) {
	return nil, errors.New("db down")
}

func (failingMessages) FindConversation(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID) ([]*domain.Message, error) {
	return nil, errors.New("db down")
}

func TestMessageService_ReadsAreFailSoft(t *testing.T) {
	svc := NewMessageService(failingMessages{}, nil, observability.DiscardLogger())
	got := svc.GetUnreadMessages(context.Background(), uuid.New())
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, svc.GetConversation(context.Background(), uuid.New(), uuid.New(), nil))
}

func TestNotificationService_CreateSystemNotification(t *testing.T) {
	ctx := context.Background()
	svc := newNotificationService(t)
	user := uuid.New()

	n, err := svc.CreateSystemNotification(ctx, SystemNotification{UserID: user, Title: "Heads up", Type: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, domain.TypeCustom, n.Type())

	_, err = svc.CreateSystemNotification(ctx, SystemNotification{UserID: user, Title: " "})
	assert.ErrorIs(t, err, sharedDomain.ErrValidation)

	unread := svc.GetUnreadNotifications(ctx, user)
	require.Len(t, unread, 1)
	assert.Equal(t, "Heads up", unread[0].Title())
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	svc := newNotificationService(t)
	user, other := uuid.New(), uuid.New()

	var ids []uuid.UUID
	for _, title := range []string{"a", "b", "c"} {
		n, err := svc.CreateSystemNotification(ctx, SystemNotification{UserID: user, Title: title, Type: string(domain.TypeTaskUpdated)})
		require.NoError(t, err)
		ids = append(ids, n.ID())
	}

	assert.False(t, svc.MarkNotificationRead(ctx, ids[0], other))
	assert.True(t, svc.MarkNotificationRead(ctx, ids[0], user))
	assert.Len(t, svc.GetUnreadNotifications(ctx, user), 2)

	assert.Equal(t, 2, svc.MarkAllRead(ctx, user))
	assert.Equal(t, 0, svc.MarkAllRead(ctx, user))
	assert.Empty(t, svc.GetUnreadNotifications(ctx, user))

	assert.Len(t, svc.GetUserNotifications(ctx, user, true, 0), 3)
	assert.Len(t, svc.GetUserNotifications(ctx, user, true, 2), 2)
	assert.Empty(t, svc.GetUserNotifications(ctx, user, false, 0))
}
