package catalog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const (
	EnvelopeVersion = 1
	Producer        = "eventapi"

	RoutingCreated = "event.created"
	RoutingUpdated = "event.updated"
	RoutingDeleted = "event.deleted"
)

// DomainEventEnvelope wraps every change notification.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// EventChangedPayload carries the full record for created/updated and only
// the id for deleted.
type EventChangedPayload struct {
	EventID   string `json:"event_id"`
	Name      string `json:"name,omitempty"`
	Date      string `json:"date,omitempty"`
	Location  string `json:"location,omitempty"`
	Organizer string `json:"organizer,omitempty"`
}

func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
