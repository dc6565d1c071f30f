package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

// Publisher moves raw envelopes onto a transport.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// DomainEventPublisher wraps domain events in a ConsumedEvent envelope
// and hands them to a Publisher. It implements application.EventPublisher.
type DomainEventPublisher struct {
	publisher Publisher
}

// NewDomainEventPublisher creates a publisher writing to p.
func NewDomainEventPublisher(p Publisher) *DomainEventPublisher {
	return &DomainEventPublisher{publisher: p}
}

// Envelope builds the wire form of event.
func Envelope(ctx context.Context, event domain.DomainEvent) (*ConsumedEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.RoutingKey(), err)
	}
	return &ConsumedEvent{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
		Metadata: EventMetadata{
			UserID:        observability.UserIDFromContext(ctx),
			CorrelationID: observability.CorrelationIDFromContext(ctx),
		},
	}, nil
}

func (p *DomainEventPublisher) PublishDomainEvent(ctx context.Context, event domain.DomainEvent) error {
	env, err := Envelope(ctx, event)
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.publisher.Publish(ctx, env.RoutingKey, body)
}
