package repository

import (
	"context"
	"slices"
	"sync"

	"visa_leads_backend/internal/followups/domain"

	"github.com/google/uuid"
)

// MemoryStore keeps follow-ups in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	order []uuid.UUID
	byID  map[uuid.UUID]domain.FollowUp
}

func NewMemoryStore(seed ...domain.FollowUp) *MemoryStore {
	s := &MemoryStore{byID: make(map[uuid.UUID]domain.FollowUp, len(seed))}
	for _, f := range seed {
		if _, ok := s.byID[f.ID]; !ok {
			s.order = append(s.order, f.ID)
		}
		s.byID[f.ID] = f
	}
	return s
}

func (s *MemoryStore) Load(_ context.Context) ([]domain.FollowUp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.FollowUp, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, f domain.FollowUp) (domain.FollowUp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[f.ID]; !ok {
		s.order = append(s.order, f.ID)
	}
	s.byID[f.ID] = f
	return f, nil
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
