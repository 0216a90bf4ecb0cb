package memory

import (
	"context"
	"sync"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
)

// Store keeps events in insertion order. Used when DATABASE_URL is empty.
type Store struct {
	mu     sync.RWMutex
	order  []string
	events map[string]domain.Event
}

func New() *Store {
	return &Store{events: make(map[string]domain.Event)}
}

func (s *Store) List(ctx context.Context) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Event, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.events[id])
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return domain.Event{}, domain.ErrNotFound("event not found")
	}
	return e, nil
}

func (s *Store) Create(ctx context.Context, e domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[e.ID]; ok {
		return domain.ErrConflict("event id already exists")
	}
	s.order = append(s.order, e.ID)
	s.events[e.ID] = e
	return nil
}

func (s *Store) Update(ctx context.Context, e domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[e.ID]; !ok {
		return domain.ErrNotFound("event not found")
	}
	s.events[e.ID] = e
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return domain.ErrNotFound("event not found")
	}
	delete(s.events, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
