package subscribers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/communication/application/services"
	"github.com/MohamedAbusurra/CS438class/internal/communication/domain"
	projectDomain "github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	reportDomain "github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/eventbus"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
	"github.com/google/uuid"
)

// Notifier stores system notifications.
type Notifier interface {
	CreateSystemNotification(ctx context.Context, in services.SystemNotification) (*domain.Notification, error)
}

// ProjectReader resolves the creator of a project.
type ProjectReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*projectDomain.Project, error)
}

// NotificationSubscriber turns task, milestone and report events into
// notifications for the users they concern.
type NotificationSubscriber struct {
	notifier Notifier
	projects ProjectReader
	metrics  observability.Metrics
	logger   *slog.Logger
}

// NewNotificationSubscriber creates a new NotificationSubscriber.
func NewNotificationSubscriber(
	notifier Notifier,
	projects ProjectReader,
	metrics observability.Metrics,
	logger *slog.Logger,
) *NotificationSubscriber {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationSubscriber{
		notifier: notifier,
		projects: projects,
		metrics:  metrics,
		logger:   logger,
	}
}

// EventTypes returns the event types this subscriber handles.
func (s *NotificationSubscriber) EventTypes() []string {
	return []string{
		taskDomain.RoutingKeyAssigned,
		taskDomain.RoutingKeyUpdated,
		projectDomain.RoutingKeyMilestoneCompleted,
		reportDomain.RoutingKeyReportCompleted,
		reportDomain.RoutingKeyReportFailed,
	}
}

// Handle processes an event.
func (s *NotificationSubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if event.Metadata.CorrelationID != "" {
		ctx = observability.WithCorrelationID(ctx, event.Metadata.CorrelationID)
	}
	s.metrics.Counter(observability.MetricEventsConsumed, 1, observability.T("routing_key", event.RoutingKey))

	var (
		in  *services.SystemNotification
		err error
	)
	switch event.RoutingKey {
	case taskDomain.RoutingKeyAssigned:
		in, err = s.taskAssigned(event)
	case taskDomain.RoutingKeyUpdated:
		in, err = s.taskUpdated(event)
	case projectDomain.RoutingKeyMilestoneCompleted:
		in, err = s.milestoneCompleted(ctx, event)
	case reportDomain.RoutingKeyReportCompleted, reportDomain.RoutingKeyReportFailed:
		in, err = s.reportFinished(event)
	default:
		s.logger.Debug("unhandled event type", "routing_key", event.RoutingKey)
		return nil
	}
	if err != nil {
		return err
	}
	if in == nil {
		return nil
	}

	if _, err := s.notifier.CreateSystemNotification(ctx, *in); err != nil {
		return fmt.Errorf("failed to create notification for %s: %w", event.RoutingKey, err)
	}
	return nil
}

func (s *NotificationSubscriber) taskAssigned(event *eventbus.ConsumedEvent) (*services.SystemNotification, error) {
	var payload taskDomain.TaskAssigned
	if err := event.Decode(&payload); err != nil {
		return nil, err
	}
	taskID := event.AggregateID
	return &services.SystemNotification{
		UserID:    payload.AssignedTo,
		Title:     "New task assigned",
		Content:   fmt.Sprintf("You have been assigned to task %q.", payload.Title),
		Type:      string(domain.TypeTaskAssigned),
		ProjectID: &payload.ProjectID,
		TaskID:    &taskID,
	}, nil
}

func (s *NotificationSubscriber) taskUpdated(event *eventbus.ConsumedEvent) (*services.SystemNotification, error) {
	var payload taskDomain.TaskUpdated
	if err := event.Decode(&payload); err != nil {
		return nil, err
	}
	if payload.AssignedTo == nil {
		return nil, nil
	}
	taskID := event.AggregateID
	return &services.SystemNotification{
		UserID:    *payload.AssignedTo,
		Title:     "Task updated",
		Content:   fmt.Sprintf("Task %q was updated.", payload.Title),
		Type:      string(domain.TypeTaskUpdated),
		ProjectID: &payload.ProjectID,
		TaskID:    &taskID,
	}, nil
}

func (s *NotificationSubscriber) milestoneCompleted(ctx context.Context, event *eventbus.ConsumedEvent) (*services.SystemNotification, error) {
	var payload projectDomain.MilestoneCompletedEvent
	if err := event.Decode(&payload); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, payload.ProjectID)
	if err != nil {
		if errors.Is(err, projectDomain.ErrProjectNotFound) {
			s.logger.WarnContext(ctx, "milestone completed for unknown project", "project_id", payload.ProjectID)
			return nil, nil
		}
		return nil, err
	}
	if project.CreatedBy() == nil {
		return nil, nil
	}
	milestoneID := event.AggregateID
	return &services.SystemNotification{
		UserID:      *project.CreatedBy(),
		Title:       "Milestone completed",
		Content:     fmt.Sprintf("Milestone %q in %s is complete.", payload.Title, project.Name()),
		Type:        string(domain.TypeMilestoneCompleted),
		ProjectID:   &payload.ProjectID,
		MilestoneID: &milestoneID,
	}, nil
}

func (s *NotificationSubscriber) reportFinished(event *eventbus.ConsumedEvent) (*services.SystemNotification, error) {
	var payload reportDomain.ReportFailed
	if err := event.Decode(&payload); err != nil {
		return nil, err
	}
	if payload.RequestedBy == nil {
		return nil, nil
	}
	title, content := "Report ready", "Your performance report is ready to download."
	if event.RoutingKey == reportDomain.RoutingKeyReportFailed {
		title, content = "Report failed", "Your performance report could not be generated."
	}
	return &services.SystemNotification{
		UserID:    *payload.RequestedBy,
		Title:     title,
		Content:   content,
		Type:      string(domain.TypeCustom),
		ProjectID: &payload.ProjectID,
	}, nil
}
