package catalog

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
)

type Clock interface{ Now() time.Time }

// Store persists events. Create reports a duplicate id as a conflict;
// Get, Update and Delete report an unknown id as not found.
type Store interface {
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, id string) (domain.Event, error)
	Create(ctx context.Context, e domain.Event) error
	Update(ctx context.Context, e domain.Event) error
	Delete(ctx context.Context, id string) error
}

// Cache is a read-through cache keyed by event id.
type Cache interface {
	GetEvent(ctx context.Context, id string) (domain.Event, bool, error)
	SetEvent(ctx context.Context, e domain.Event, ttl time.Duration) error
	DeleteEvents(ctx context.Context, ids ...string) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}
