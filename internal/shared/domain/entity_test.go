package domain_test

import (
	"testing"
	"time"

	"github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEntity(t *testing.T) {
	before := time.Now().UTC()
	entity := domain.NewBaseEntity()
	after := time.Now().UTC()

	assert.NotEqual(t, uuid.Nil, entity.ID())
	require.False(t, entity.CreatedAt().Before(before))
	require.False(t, entity.CreatedAt().After(after))
	assert.Equal(t, entity.CreatedAt(), entity.UpdatedAt())
}

func TestRehydrateBaseEntity_DefaultsUpdatedAt(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	entity := domain.RehydrateBaseEntity(id, created, time.Time{})

	assert.Equal(t, id, entity.ID())
	assert.Equal(t, created, entity.UpdatedAt())
}

func TestBaseEntity_Touch(t *testing.T) {
	entity := domain.RehydrateBaseEntity(uuid.New(), time.Now().Add(-time.Hour), time.Time{})
	original := entity.UpdatedAt()

	entity.Touch()

	assert.True(t, entity.UpdatedAt().After(original))
}

type sampleEvent struct {
	domain.BaseEvent
	Name string `json:"name"`
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	root := domain.NewBaseAggregateRoot()
	assert.Empty(t, root.DomainEvents())

	root.AddDomainEvent(sampleEvent{BaseEvent: domain.NewBaseEvent(root.ID(), "Sample", "sample.created"), Name: "x"})
	require.Len(t, root.DomainEvents(), 1)
	assert.Equal(t, "sample.created", root.DomainEvents()[0].RoutingKey())
	assert.Equal(t, root.ID(), root.DomainEvents()[0].AggregateID())

	root.ClearDomainEvents()
	assert.Empty(t, root.DomainEvents())
}
