package repository

import (
	"context"
	"slices"
	"sync"

	"visa_leads_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// MemoryStore keeps leads in process memory. It is the default collaborator
// and the one used in tests.
type MemoryStore struct {
	mu    sync.Mutex
	order []uuid.UUID
	byID  map[uuid.UUID]domain.Lead
}

// NewMemoryStore creates a store pre-filled with seed, in order.
func NewMemoryStore(seed ...domain.Lead) *MemoryStore {
	s := &MemoryStore{byID: make(map[uuid.UUID]domain.Lead, len(seed))}
	for _, l := range seed {
		if _, ok := s.byID[l.ID]; !ok {
			s.order = append(s.order, l.ID)
		}
		s.byID[l.ID] = l.Clone()
	}
	return s
}

func (s *MemoryStore) Load(_ context.Context) ([]domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Lead, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, lead domain.Lead) (domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[lead.ID]; !ok {
		s.order = append(s.order, lead.ID)
	}
	s.byID[lead.ID] = lead.Clone()
	return lead.Clone(), nil
}

func (s *MemoryStore) Remove(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	s.order = slices.DeleteFunc(s.order, func(v uuid.UUID) bool { return v == id })
	return nil
}
