package catalog

import (
	"context"
	"sync"
)

// MemoryStore keeps the catalog in process memory, preserving insertion order
// for listing. Used in tests and when no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	venues  map[string]Venue
	order   []string
	stories []Story
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{venues: make(map[string]Venue)}
}

func (s *MemoryStore) Venues(ctx context.Context) ([]Venue, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Venue, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.venues[id])
	}
	return out, nil
}

func (s *MemoryStore) Venue(ctx context.Context, id string) (Venue, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.venues[id]
	if !ok {
		return Venue{}, ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Stories(ctx context.Context) ([]Story, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Story(nil), s.stories...), nil
}

func (s *MemoryStore) SaveVenue(ctx context.Context, v Venue) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.venues[v.ID]; !ok {
		s.order = append(s.order, v.ID)
	}
	s.venues[v.ID] = v
	return nil
}

func (s *MemoryStore) SaveStory(ctx context.Context, st Story) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stories = append(s.stories, st)
	return nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.venues), nil
}
