// Package service schedules follow-ups against leads and tracks their outcome.
// Follow-ups reference leads loosely: scheduling does not check that the lead
// exists and deleting a lead keeps its history unless a purge is requested.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"visa_leads_backend/internal/events"
	"visa_leads_backend/internal/followups/domain"
	"visa_leads_backend/internal/followups/repository"
	"visa_leads_backend/platform/apperr"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/validator"

	"github.com/google/uuid"
)

const errFollowUpNotFound = "follow-up not found"

// ReminderScheduler enqueues a reminder ahead of a follow-up.
type ReminderScheduler interface {
	ScheduleFollowUpReminder(ctx context.Context, f domain.FollowUp) error
}

// ScheduleInput carries a new follow-up.
type ScheduleInput struct {
	DateTime  time.Time
	Method    domain.Method
	Notes     string
	StaffID   string
	StaffName string
}

// Filter narrows List. Empty members match everything.
type Filter struct {
	Method  domain.Method
	Status  domain.Status
	StaffID string
}

// Service owns the follow-up collection.
type Service struct {
	mu    sync.RWMutex
	order []uuid.UUID
	items map[uuid.UUID]domain.FollowUp

	store     repository.Store
	validator *validator.Validator
	reminders ReminderScheduler
	bus       events.Bus
	log       *logger.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithReminders enables reminder tasks for new follow-ups.
func WithReminders(r ReminderScheduler) Option {
	return func(s *Service) { s.reminders = r }
}

func New(store repository.Store, val *validator.Validator, bus events.Bus, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		items:     make(map[uuid.UUID]domain.FollowUp),
		store:     store,
		validator: val,
		bus:       bus,
		log:       log,
		now:       time.Now,
		newID:     uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterHandlers subscribes the service to lead events.
func (s *Service) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadDeleted{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		ev, ok := e.(events.LeadDeleted)
		if !ok || !ev.PurgeFollowUps {
			return nil
		}
		_, err := s.RemoveForLead(ctx, ev.LeadID)
		return err
	}))
}

// Load replaces the in-memory collection with the store's contents.
func (s *Service) Load(ctx context.Context) error {
	items, err := s.store.Load(ctx)
	if err != nil {
		s.log.DatabaseError("load follow-ups", err)
		return apperr.Wrap(apperr.KindInternal, "failed to load follow-ups", err)
	}

	order := make([]uuid.UUID, 0, len(items))
	byID := make(map[uuid.UUID]domain.FollowUp, len(items))
	for _, f := range items {
		if _, dup := byID[f.ID]; !dup {
			order = append(order, f.ID)
		}
		byID[f.ID] = f
	}

	s.mu.Lock()
	s.order, s.items = order, byID
	s.mu.Unlock()

	s.log.Info("follow-ups loaded", "count", len(order))
	return nil
}

// Schedule adds a pending follow-up for leadID.
func (s *Service) Schedule(ctx context.Context, leadID uuid.UUID, in ScheduleInput) (domain.FollowUp, error) {
	if err := s.validateInput(in); err != nil {
		return domain.FollowUp{}, err
	}

	now := s.now().UTC()
	f := domain.FollowUp{
		ID:        s.newID(),
		LeadID:    leadID,
		DateTime:  in.DateTime.UTC(),
		Method:    in.Method,
		StaffID:   in.StaffID,
		StaffName: in.StaffName,
		Notes:     strings.TrimSpace(in.Notes),
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	saved, err := s.store.Save(ctx, f)
	if err != nil {
		s.mu.Unlock()
		s.log.DatabaseError("save follow-up", err)
		return domain.FollowUp{}, apperr.Wrap(apperr.KindInternal, "failed to save follow-up", err)
	}
	s.order = append(s.order, saved.ID)
	s.items[saved.ID] = saved
	s.mu.Unlock()

	if s.reminders != nil && saved.IsUpcoming(now) {
		if err := s.reminders.ScheduleFollowUpReminder(ctx, saved); err != nil {
			s.log.Error("failed to schedule follow-up reminder", "error", err, "followUpId", saved.ID, "leadId", leadID)
		}
	}

	s.bus.Publish(ctx, events.FollowUpScheduled{
		BaseEvent:  events.NewBaseEventAt(now),
		FollowUpID: saved.ID,
		LeadID:     leadID,
		DateTime:   saved.DateTime,
		Method:     string(saved.Method),
		StaffID:    saved.StaffID,
	})
	return saved, nil
}

// MarkStatus sets the follow-up's status. Any status may follow any other.
func (s *Service) MarkStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.FollowUp, error) {
	if !status.IsValid() {
		return domain.FollowUp{}, apperr.Validation(fmt.Sprintf("unknown follow-up status %q", status)).
			WithDetails(map[string]string{"status": "oneof"})
	}

	s.mu.Lock()
	current, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return domain.FollowUp{}, apperr.NotFound(errFollowUpNotFound)
	}
	if current.Status == status {
		s.mu.Unlock()
		return current, nil
	}

	next := current
	next.Status = status
	next.UpdatedAt = s.now().UTC()
	saved, err := s.store.Save(ctx, next)
	if err != nil {
		s.mu.Unlock()
		s.log.DatabaseError("save follow-up", err)
		return domain.FollowUp{}, apperr.Wrap(apperr.KindInternal, "failed to save follow-up", err)
	}
	s.items[id] = saved
	s.mu.Unlock()

	s.bus.Publish(ctx, events.FollowUpStatusChanged{
		BaseEvent:  events.NewBaseEventAt(saved.UpdatedAt),
		FollowUpID: id,
		LeadID:     saved.LeadID,
		From:       string(current.Status),
		To:         string(status),
	})
	return saved, nil
}

// Get returns one follow-up.
func (s *Service) Get(_ context.Context, id uuid.UUID) (domain.FollowUp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.items[id]
	if !ok {
		return domain.FollowUp{}, apperr.NotFound(errFollowUpNotFound)
	}
	return f, nil
}

// ListForLead returns the lead's follow-ups, latest first. Ties keep
// scheduling order.
func (s *Service) ListForLead(_ context.Context, leadID uuid.UUID) []domain.FollowUp {
	out := s.snapshot(func(f domain.FollowUp) bool { return f.LeadID == leadID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.After(out[j].DateTime) })
	return out
}

// NextPending returns the earliest pending follow-up due after now.
func (s *Service) NextPending(_ context.Context, leadID uuid.UUID) (domain.FollowUp, bool) {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		next  domain.FollowUp
		found bool
	)
	for _, id := range s.order {
		f := s.items[id]
		if f.LeadID != leadID || !f.IsUpcoming(now) {
			continue
		}
		if !found || f.DateTime.Before(next.DateTime) {
			next, found = f, true
		}
	}
	return next, found
}

// List returns follow-ups matching filter, earliest first.
func (s *Service) List(_ context.Context, filter Filter) []domain.FollowUp {
	out := s.snapshot(func(f domain.FollowUp) bool {
		if filter.Method != "" && f.Method != filter.Method {
			return false
		}
		if filter.Status != "" && f.Status != filter.Status {
			return false
		}
		if filter.StaffID != "" && f.StaffID != filter.StaffID {
			return false
		}
		return true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out
}

// RemoveForLead deletes every follow-up of leadID and reports how many went.
func (s *Service) RemoveForLead(ctx context.Context, leadID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	kept := s.order[:0:0]
	var firstErr error
	for _, id := range s.order {
		f := s.items[id]
		if f.LeadID != leadID {
			kept = append(kept, id)
			continue
		}
		if err := s.store.Remove(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.log.DatabaseError("remove follow-up", err)
			if firstErr == nil {
				firstErr = err
			}
			kept = append(kept, id)
			continue
		}
		delete(s.items, id)
		removed++
	}
	s.order = kept

	if firstErr != nil {
		return removed, apperr.Wrap(apperr.KindInternal, "failed to purge follow-ups", firstErr)
	}
	if removed > 0 {
		s.log.Info("purged follow-ups", "leadId", leadID, "count", removed)
	}
	return removed, nil
}

func (s *Service) snapshot(keep func(domain.FollowUp) bool) []domain.FollowUp {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.FollowUp, 0)
	for _, id := range s.order {
		if f := s.items[id]; keep(f) {
			out = append(out, f)
		}
	}
	return out
}
