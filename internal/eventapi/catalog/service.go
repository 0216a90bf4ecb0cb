package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
)

const (
	defaultTTL  = 5 * time.Minute
	loadTimeout = 5 * time.Second
)

type Service struct {
	store Store
	pub   EventPublisher
	cache Cache
	clock Clock
	ttl   time.Duration

	// collapses concurrent cache misses for the same id
	loads singleflight.Group
	// bumped by every invalidation; a load that overlaps one must not
	// leave its result in the cache
	epoch atomic.Uint64
}

func New(store Store, clock Clock, pub EventPublisher, cache Cache, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = defaultTTL
	}
	if pub == nil {
		pub = NoopPublisher{}
	}
	return &Service{
		store: store,
		pub:   pub,
		cache: cache,
		clock: clock,
		ttl:   ttl,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Event, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Event, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Event{}, domain.ErrValidation("id is required")
	}

	if s.cache != nil {
		cached, found, err := s.cache.GetEvent(ctx, id)
		if err != nil {
			zlog.Warn().Err(err).Str("event_id", id).Msg("cache get failed")
		} else if found {
			zlog.Debug().Str("event_id", id).Msg("cache hit")
			return cached, nil
		}
	}

	v, err, _ := s.loads.Do(id, func() (any, error) {
		// shared by every joined caller, so not bound to the first one's cancellation
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		epoch := s.epoch.Load()
		e, err := s.store.Get(lctx, id)
		if err != nil {
			return domain.Event{}, err
		}
		s.fill(lctx, e, epoch)
		return e, nil
	})
	if err != nil {
		return domain.Event{}, err
	}
	return v.(domain.Event), nil
}

// fill caches e unless an invalidation ran since epoch was read. The check
// follows the write: invalidate bumps before it deletes, so either this
// check sees the bump or the invalidation's delete lands after the write.
func (s *Service) fill(ctx context.Context, e domain.Event, epoch uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetEvent(ctx, e, s.ttl); err != nil {
		zlog.Warn().Err(err).Str("event_id", e.ID).Msg("cache set failed")
		return
	}
	if s.epoch.Load() == epoch {
		return
	}
	if err := s.cache.DeleteEvents(ctx, e.ID); err != nil {
		zlog.Warn().Err(err).Str("event_id", e.ID).Msg("cache delete failed")
	}
}

func (s *Service) Create(ctx context.Context, e domain.Event) error {
	if err := validate(e); err != nil {
		return err
	}
	if err := s.store.Create(ctx, e); err != nil {
		return err
	}
	s.publish(ctx, RoutingCreated, payloadFor(e))
	return nil
}

func (s *Service) Update(ctx context.Context, e domain.Event) error {
	if err := validate(e); err != nil {
		return err
	}
	if err := s.store.Update(ctx, e); err != nil {
		return err
	}
	s.invalidate(ctx, e.ID)
	s.publish(ctx, RoutingUpdated, payloadFor(e))
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrValidation("id is required")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.publish(ctx, RoutingDeleted, EventChangedPayload{EventID: id})
	return nil
}

func validate(e domain.Event) error {
	err := e.Validate()
	if err == nil {
		return nil
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return domain.ErrValidationMeta("invalid event", map[string]string{
			string(ve.Field): "is required",
		})
	}
	return domain.ErrValidation(err.Error())
}

func (s *Service) invalidate(ctx context.Context, id string) {
	s.epoch.Add(1)
	s.loads.Forget(id)
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteEvents(ctx, id); err != nil {
		zlog.Warn().Err(err).Str("event_id", id).Msg("cache delete failed")
	}
}

func payloadFor(e domain.Event) EventChangedPayload {
	return EventChangedPayload{
		EventID:   e.ID,
		Name:      e.Name,
		Date:      e.Date,
		Location:  e.Location,
		Organizer: e.Organizer,
	}
}

// publish is best-effort: the write already succeeded.
func (s *Service) publish(ctx context.Context, routingKey string, p EventChangedPayload) {
	env := DomainEventEnvelope[EventChangedPayload]{
		Version:    EnvelopeVersion,
		Producer:   Producer,
		MessageID:  uuid.NewString(),
		TraceID:    TraceIDFromContext(ctx),
		OccurredAt: s.clock.Now().UTC(),
		Payload:    p,
	}
	body, err := json.Marshal(env)
	if err != nil {
		zlog.Error().Err(err).Str("routing_key", routingKey).Msg("encode domain event failed")
		return
	}
	if err := s.pub.PublishEvent(ctx, routingKey, env.MessageID, body); err != nil {
		zlog.Warn().Err(err).
			Str("routing_key", routingKey).
			Str("event_id", p.EventID).
			Msg("publish domain event failed")
	}
}
