package subscribers

import (
	"context"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/reports/application/commands"
	"github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/eventbus"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

// Generator runs report generation.
type Generator interface {
	Handle(ctx context.Context, cmd commands.GenerateReportCommand) (*commands.GenerateReportResult, error)
}

// GenerationSubscriber generates reports when they are requested.
type GenerationSubscriber struct {
	generator Generator
	metrics   observability.Metrics
	logger    *slog.Logger
}

// NewGenerationSubscriber creates a new GenerationSubscriber.
func NewGenerationSubscriber(generator Generator, metrics observability.Metrics, logger *slog.Logger) *GenerationSubscriber {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationSubscriber{generator: generator, metrics: metrics, logger: logger}
}

// EventTypes returns the event types this subscriber handles.
func (s *GenerationSubscriber) EventTypes() []string {
	return []string{domain.RoutingKeyReportRequested}
}

// Handle generates the report named by the event's aggregate id. A report
// that ends up failed has already been recorded as such, so the event is
// acknowledged; only errors before that point are returned for redelivery.
func (s *GenerationSubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if event.Metadata.CorrelationID != "" {
		ctx = observability.WithCorrelationID(ctx, event.Metadata.CorrelationID)
	}
	s.metrics.Counter(observability.MetricEventsConsumed, 1, observability.T("routing_key", event.RoutingKey))

	result, err := s.generator.Handle(ctx, commands.GenerateReportCommand{ReportID: event.AggregateID})
	if err != nil {
		if result != nil && result.Status == domain.StatusFailed {
			return nil
		}
		return err
	}
	if result.Skipped {
		s.logger.DebugContext(ctx, "report generation skipped", "report_id", event.AggregateID, "status", result.Status)
	}
	return nil
}
