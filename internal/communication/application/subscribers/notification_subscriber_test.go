package subscribers_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/internal/communication/application/services"
	"github.com/MohamedAbusurra/CS438class/internal/communication/application/subscribers"
	"github.com/MohamedAbusurra/CS438class/internal/communication/domain"
	projectDomain "github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	reportDomain "github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/eventbus"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

type recordingNotifier struct {
	got []services.SystemNotification
}

func (n *recordingNotifier) CreateSystemNotification(_ context.Context, in services.SystemNotification) (*domain.Notification, error) {
	n.got = append(n.got, in)
	return domain.NewNotification(domain.NewNotificationParams{UserID: in.UserID, Title: in.Title})
}

type projectMap map[uuid.UUID]*projectDomain.Project

func (m projectMap) FindByID(_ context.Context, id uuid.UUID) (*projectDomain.Project, error) {
	if p, ok := m[id]; ok {
		return p, nil
	}
	return nil, projectDomain.ErrProjectNotFound
}

func envelope(t *testing.T, event sharedDomain.DomainEvent) *eventbus.ConsumedEvent {
	t.Helper()
	env, err := eventbus.Envelope(context.Background(), event)
	require.NoError(t, err)
	return env
}

func TestNotificationSubscriber_Handle(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	project, err := projectDomain.NewProject("Apollo", "", nil, nil, "active", &owner)
	require.NoError(t, err)
	projects := projectMap{project.ID(): project}

	newSubscriber := func() (*subscribers.NotificationSubscriber, *recordingNotifier) {
		n := &recordingNotifier{}
		return subscribers.NewNotificationSubscriber(n, projects, nil, observability.DiscardLogger()), n
	}

	t.Run("task assigned", func(t *testing.T) {
		s, n := newSubscriber()
		taskID, assignee := uuid.New(), uuid.New()
		event := taskDomain.TaskAssigned{
			BaseEvent:  sharedDomain.NewBaseEvent(taskID, taskDomain.AggregateType, taskDomain.RoutingKeyAssigned),
			ProjectID:  project.ID(),
			Title:      "Write docs",
			AssignedTo: assignee,
		}
		require.NoError(t, s.Handle(ctx, envelope(t, event)))
		require.Len(t, n.got, 1)
		assert.Equal(t, assignee, n.got[0].UserID)
		assert.Equal(t, string(domain.TypeTaskAssigned), n.got[0].Type)
		assert.Equal(t, taskID, *n.got[0].TaskID)
	})

	t.Run("task updated without assignee is ignored", func(t *testing.T) {
		s, n := newSubscriber()
		event := taskDomain.TaskUpdated{
			BaseEvent: sharedDomain.NewBaseEvent(uuid.New(), taskDomain.AggregateType, taskDomain.RoutingKeyUpdated),
			ProjectID: project.ID(),
			Title:     "Write docs",
			Fields:    []string{"title"},
		}
		require.NoError(t, s.Handle(ctx, envelope(t, event)))
		assert.Empty(t, n.got)
	})

	t.Run("task updated notifies the assignee", func(t *testing.T) {
		s, n := newSubscriber()
		assignee := uuid.New()
		event := taskDomain.TaskUpdated{
			BaseEvent:  sharedDomain.NewBaseEvent(uuid.New(), taskDomain.AggregateType, taskDomain.RoutingKeyUpdated),
			ProjectID:  project.ID(),
			Title:      "Write docs",
			AssignedTo: &assignee,
		}
		require.NoError(t, s.Handle(ctx, envelope(t, event)))
		require.Len(t, n.got, 1)
		assert.Equal(t, string(domain.TypeTaskUpdated), n.got[0].Type)
	})

	t.Run("milestone completed goes to the project creator", func(t *testing.T) {
		s, n := newSubscriber()
		milestoneID := uuid.New()
		event := projectDomain.MilestoneCompletedEvent{
			BaseEvent: sharedDomain.NewBaseEvent(milestoneID, projectDomain.MilestoneAggregateType, projectDomain.RoutingKeyMilestoneCompleted),
			ProjectID: project.ID(),
			Title:     "Beta",
		}
		require.NoError(t, s.Handle(ctx, envelope(t, event)))
		require.Len(t, n.got, 1)
		assert.Equal(t, owner, n.got[0].UserID)
		assert.Equal(t, milestoneID, *n.got[0].MilestoneID)
	})

	t.Run("milestone of unknown project is dropped", func(t *testing.T) {
		s, n := newSubscriber()
		event := projectDomain.MilestoneCompletedEvent{
			BaseEvent: sharedDomain.NewBaseEvent(uuid.New(), projectDomain.MilestoneAggregateType, projectDomain.RoutingKeyMilestoneCompleted),
			ProjectID: uuid.New(),
		}
		require.NoError(t, s.Handle(ctx, envelope(t, event)))
		assert.Empty(t, n.got)
	})

	t.Run("report completed", func(t *testing.T) {
		s, n := newSubscriber()
		requester := uuid.New()
		event := reportDomain.ReportCompleted{
			BaseEvent:   sharedDomain.NewBaseEvent(uuid.New(), reportDomain.AggregateType, reportDomain.RoutingKeyReportCompleted),
			ProjectID:   project.ID(),
			RequestedBy: &requester,
			FilePath:    "reports/x.pdf",
		}
		require.NoError(t, s.Handle(ctx, envelope(t, event)))
		require.Len(t, n.got, 1)
		assert.Equal(t, "Report ready", n.got[0].Title)
		assert.Equal(t, requester, n.got[0].UserID)
	})

	t.Run("undecodable payload is an error", func(t *testing.T) {
		s, _ := newSubscriber()
		err := s.Handle(ctx, &eventbus.ConsumedEvent{RoutingKey: taskDomain.RoutingKeyAssigned})
		assert.Error(t, err)
	})
}
