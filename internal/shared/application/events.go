package application

import (
	"context"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/shared/domain"
)

// EventPublisher hands domain events to the event bus.
type EventPublisher interface {
	PublishDomainEvent(ctx context.Context, event domain.DomainEvent) error
}

// PublishEvents publishes the events recorded on an aggregate after its
// transaction committed. Publishing never fails the write; errors are logged.
func PublishEvents(ctx context.Context, publisher EventPublisher, logger *slog.Logger, aggregate domain.AggregateRoot) {
	if aggregate == nil {
		return
	}
	events := aggregate.DomainEvents()
	aggregate.ClearDomainEvents()
	if publisher == nil {
		return
	}
	for _, event := range events {
		if err := publisher.PublishDomainEvent(ctx, event); err != nil && logger != nil {
			logger.WarnContext(ctx, "failed to publish domain event",
				"routing_key", event.RoutingKey(),
				"aggregate_id", event.AggregateID(),
				"error", err,
			)
		}
	}
}
