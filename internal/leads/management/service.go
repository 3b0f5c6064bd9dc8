// Package management owns the canonical lead collection.
// This is a vertically sliced feature package: every lead mutation, pipeline
// transition and custom field change goes through Service.
package management

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"visa_leads_backend/internal/events"
	"visa_leads_backend/internal/leads/customfields"
	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/internal/leads/pipeline"
	"visa_leads_backend/internal/leads/query"
	"visa_leads_backend/internal/leads/repository"
	"visa_leads_backend/platform/apperr"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/phone"
	"visa_leads_backend/platform/validator"

	"github.com/google/uuid"
)

const errLeadNotFound = "lead not found"

// Service handles lead management operations.
//
// Mutations hold the write lock while they validate, persist and swap the new
// record in, so readers only ever see complete snapshots. A failed mutation
// leaves both the collection and the store untouched.
type Service struct {
	mu    sync.RWMutex
	order []uuid.UUID
	leads map[uuid.UUID]domain.Lead

	store     repository.Store
	fields    *customfields.Registry
	machine   *pipeline.Machine
	validator *validator.Validator
	bus       events.Bus
	log       *logger.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a lead management service with an empty collection. Call Load
// to fill it from the store.
func New(store repository.Store, val *validator.Validator, bus events.Bus, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		leads:     make(map[uuid.UUID]domain.Lead),
		store:     store,
		fields:    customfields.New(),
		machine:   pipeline.New(),
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

// Pipeline exposes the stage machine for read-only questions such as allowed targets.
func (s *Service) Pipeline() *pipeline.Machine {
	return s.machine
}

// Load replaces the in-memory collection with the store's contents.
func (s *Service) Load(ctx context.Context) error {
	leads, err := s.store.Load(ctx)
	if err != nil {
		s.log.DatabaseError("load leads", err)
		return apperr.Wrap(apperr.KindInternal, "failed to load leads", err)
	}

	order := make([]uuid.UUID, 0, len(leads))
	byID := make(map[uuid.UUID]domain.Lead, len(leads))
	for _, l := range leads {
		if _, dup := byID[l.ID]; !dup {
			order = append(order, l.ID)
		}
		byID[l.ID] = l.Clone()
	}

	s.mu.Lock()
	s.order, s.leads = order, byID
	s.mu.Unlock()

	s.log.Info("leads loaded", "count", len(order))
	return nil
}

// AddLead validates input, assigns an ID and defaults, persists and returns the new lead.
func (s *Service) AddLead(ctx context.Context, in LeadInput, actor Actor) (domain.Lead, error) {
	now := s.now().UTC()
	lead := domain.Lead{
		ID:                 s.newID(),
		FullName:           strings.TrimSpace(in.FullName),
		Email:              strings.TrimSpace(in.Email),
		Phone:              phone.NormalizeE164(in.Phone),
		Nationality:        strings.TrimSpace(in.Nationality),
		VisaTypes:          trimAll(in.VisaTypes),
		DestinationCountry: strings.TrimSpace(in.DestinationCountry),
		InquiryDate:        in.InquiryDate,
		LeadSource:         strings.TrimSpace(in.LeadSource),
		CurrentLocation:    strings.TrimSpace(in.CurrentLocation),
		PreferredProgram:   strings.TrimSpace(in.PreferredProgram),
		AssignedTo:         strings.TrimSpace(in.AssignedTo),
		Notes:              in.Notes,
		AdditionalNotes:    in.AdditionalNotes,
		Status:             in.Status,
		Stage:              in.Stage,
		NextFollowUpDate:   in.NextFollowUpDate,
		FollowUpMethod:     in.FollowUpMethod,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if lead.Status == "" {
		lead.Status = domain.StatusNew
	}
	if lead.Stage == "" {
		lead.Stage = domain.StageNew
	}
	if in.LeadScore != nil {
		lead.LeadScore = *in.LeadScore
	}

	fields, err := s.fields.Prepare(in.CustomFields)
	if err != nil {
		return domain.Lead{}, err
	}
	lead.CustomFields = fields

	if err := s.validateLead(lead, allTouched()); err != nil {
		return domain.Lead{}, err
	}

	s.mu.Lock()
	saved, err := s.store.Save(ctx, lead)
	if err != nil {
		s.mu.Unlock()
		s.log.DatabaseError("save lead", err)
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to save lead", err)
	}
	s.order = append(s.order, saved.ID)
	s.leads[saved.ID] = saved.Clone()
	s.mu.Unlock()

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:  events.NewBaseEventAt(now),
		LeadID:     saved.ID,
		FullName:   saved.FullName,
		LeadSource: saved.LeadSource,
		Stage:      string(saved.Stage),
		Status:     string(saved.Status),
		ActorID:    actor.ID,
	})
	return saved.Clone(), nil
}

// GetLead returns a copy of the lead.
func (s *Service) GetLead(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, ok := s.leads[id]
	if !ok {
		return domain.Lead{}, apperr.NotFound(errLeadNotFound)
	}
	return lead.Clone(), nil
}

// ListLeads returns a snapshot of every lead in insertion order. The caller
// owns the result.
func (s *Service) ListLeads(_ context.Context) []domain.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Lead, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.leads[id].Clone())
	}
	return out
}

// Query filters a snapshot of the collection.
func (s *Service) Query(ctx context.Context, c query.Criteria) []domain.Lead {
	return query.Filter(s.ListLeads(ctx), c)
}

// UpdateLead merges patch into the lead. Only touched attributes are
// re-validated. Stage may be set directly here, outside the pipeline rules,
// for corrections such as reopening a closed lead.
func (s *Service) UpdateLead(ctx context.Context, id uuid.UUID, patch LeadPatch, actor Actor) (domain.Lead, error) {
	lead, err := s.mutate(ctx, id, func(l domain.Lead) (domain.Lead, bool, error) {
		previousStage := l.Stage
		t := applyPatch(&l, patch)
		if l.Stage != previousStage {
			at := s.now().UTC()
			l.LastUpdated = &at
		}
		if t.customFields {
			fields, err := s.fields.Prepare(*patch.CustomFields)
			if err != nil {
				return l, false, err
			}
			l.CustomFields = fields
		}
		if err := s.validateLead(l, t); err != nil {
			return l, false, err
		}
		return l, true, nil
	})
	if err != nil {
		return domain.Lead{}, err
	}

	s.publishUpdated(ctx, id, "details", actor)
	return lead, nil
}

// DeleteLead removes the lead. Follow-ups are kept as history unless opts
// asks for them to be purged.
func (s *Service) DeleteLead(ctx context.Context, id uuid.UUID, opts DeleteOptions, actor Actor) error {
	s.mu.Lock()
	if _, ok := s.leads[id]; !ok {
		s.mu.Unlock()
		return apperr.NotFound(errLeadNotFound)
	}

	if err := s.store.Remove(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.mu.Unlock()
		s.log.DatabaseError("remove lead", err)
		return apperr.Wrap(apperr.KindInternal, "failed to delete lead", err)
	}

	delete(s.leads, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	event := events.LeadDeleted{
		BaseEvent:      events.NewBaseEventAt(s.now()),
		LeadID:         id,
		PurgeFollowUps: opts.PurgeFollowUps,
		ActorID:        actor.ID,
	}
	if !opts.PurgeFollowUps {
		s.bus.Publish(ctx, event)
		return nil
	}

	// The lead is gone either way; a failed purge is reported so the caller
	// can retry the follow-up cleanup.
	if err := s.bus.PublishSync(ctx, event); err != nil {
		s.log.Error("purge follow-ups after lead delete", "leadId", id, "error", err)
		return apperr.Wrap(apperr.KindInternal, "lead deleted but follow-ups could not be purged", err)
	}
	return nil
}

// UpdateNotes replaces the lead's notes.
func (s *Service) UpdateNotes(ctx context.Context, id uuid.UUID, text string, actor Actor) (domain.Lead, error) {
	lead, err := s.mutate(ctx, id, func(l domain.Lead) (domain.Lead, bool, error) {
		l.Notes = text
		return l, true, nil
	})
	if err != nil {
		return domain.Lead{}, err
	}

	s.publishUpdated(ctx, id, "notes", actor)
	return lead, nil
}

// TransitionStage asks the pipeline to move the lead to target. Moving to the
// current stage succeeds without changing anything.
func (s *Service) TransitionStage(ctx context.Context, id uuid.UUID, target domain.Stage, actor Actor) (domain.Lead, error) {
	var transition *pipeline.Transition
	lead, err := s.mutate(ctx, id, func(l domain.Lead) (domain.Lead, bool, error) {
		next, tr, err := s.machine.RequestTransition(l, target, s.now())
		if err != nil {
			return l, false, err
		}
		transition = tr
		return next, tr != nil, nil
	})
	if err != nil {
		return domain.Lead{}, err
	}

	if transition != nil {
		s.bus.Publish(ctx, events.LeadStageChanged{
			BaseEvent: events.NewBaseEventAt(transition.At),
			LeadID:    id,
			From:      string(transition.From),
			To:        string(transition.To),
			ActorID:   actor.ID,
			ActorName: actor.Name,
		})
	}
	return lead, nil
}

// AddCustomField adds a field definition to the lead. A non-empty raw value
// is applied in the same write, so a rejected value leaves no field behind.
func (s *Service) AddCustomField(ctx context.Context, id uuid.UUID, def customfields.Definition, raw json.RawMessage, actor Actor) (domain.CustomField, error) {
	var field domain.CustomField
	_, err := s.mutate(ctx, id, func(l domain.Lead) (domain.Lead, bool, error) {
		next, f, err := s.fields.Add(l, def)
		if err != nil {
			return l, false, err
		}
		if len(raw) > 0 {
			next, f, err = s.fields.SetValue(next, f.ID, raw)
			if err != nil {
				return l, false, err
			}
		}
		field = f
		return next, true, nil
	})
	if err != nil {
		return domain.CustomField{}, err
	}

	s.publishUpdated(ctx, id, "custom_field_added", actor)
	return field, nil
}

// UpdateCustomField changes a field definition on the lead.
func (s *Service) UpdateCustomField(ctx context.Context, id, fieldID uuid.UUID, patch customfields.Patch, actor Actor) (domain.CustomField, error) {
	var field domain.CustomField
	_, err := s.mutate(ctx, id, func(l domain.Lead) (domain.Lead, bool, error) {
		next, f, err := s.fields.Update(l, fieldID, patch)
		field = f
		return next, err == nil, err
	})
	if err != nil {
		return domain.CustomField{}, err
	}

	s.publishUpdated(ctx, id, "custom_field_updated", actor)
	return field, nil
}

// RemoveCustomField drops a field and its value from the lead.
func (s *Service) RemoveCustomField(ctx context.Context, id, fieldID uuid.UUID, actor Actor) error {
	_, err := s.mutate(ctx, id, func(l domain.Lead) (domain.Lead, bool, error) {
		next, err := s.fields.Remove(l, fieldID)
		return next, err == nil, err
	})
	if err != nil {
		return err
	}

	s.publishUpdated(ctx, id, "custom_field_removed", actor)
	return nil
}

// SetCustomFieldValue stores a new value for one field. Required-ness is
// checked by ValidateCustomFields, not here.
func (s *Service) SetCustomFieldValue(ctx context.Context, id, fieldID uuid.UUID, raw json.RawMessage, actor Actor) (domain.CustomField, error) {
	var field domain.CustomField
	_, err := s.mutate(ctx, id, func(l domain.Lead) (domain.Lead, bool, error) {
		next, f, err := s.fields.SetValue(l, fieldID, raw)
		field = f
		return next, err == nil, err
	})
	if err != nil {
		return domain.CustomField{}, err
	}

	s.publishUpdated(ctx, id, "custom_field_value", actor)
	return field, nil
}

// ValidateCustomFields reports the first required custom field left empty.
func (s *Service) ValidateCustomFields(ctx context.Context, id uuid.UUID) error {
	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return err
	}
	return s.fields.Validate(lead)
}

// mutate runs fn against a copy of the lead under the write lock. When fn
// reports a change the result is persisted and swapped in; otherwise nothing
// is written and the current lead is returned.
func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(domain.Lead) (domain.Lead, bool, error)) (domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.leads[id]
	if !ok {
		return domain.Lead{}, apperr.NotFound(errLeadNotFound)
	}

	next, changed, err := fn(current.Clone())
	if err != nil {
		return domain.Lead{}, err
	}
	if !changed {
		return current.Clone(), nil
	}

	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = s.now().UTC()

	saved, err := s.store.Save(ctx, next)
	if err != nil {
		s.log.DatabaseError("save lead", err)
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to save lead", err)
	}

	s.leads[id] = saved.Clone()
	return saved.Clone(), nil
}

func (s *Service) publishUpdated(ctx context.Context, id uuid.UUID, change string, actor Actor) {
	s.bus.Publish(ctx, events.LeadUpdated{
		BaseEvent: events.NewBaseEventAt(s.now()),
		LeadID:    id,
		Change:    change,
		ActorID:   actor.ID,
	})
}

func applyPatch(l *domain.Lead, p LeadPatch) touched {
	var t touched
	setCore := func(dst *string, src *string, field string, normalize func(string) string) {
		if src == nil {
			return
		}
		*dst = normalize(*src)
		t.core = append(t.core, field)
	}

	setCore(&l.FullName, p.FullName, "FullName", strings.TrimSpace)
	setCore(&l.Email, p.Email, "Email", strings.TrimSpace)
	setCore(&l.Phone, p.Phone, "Phone", phone.NormalizeE164)
	setCore(&l.Nationality, p.Nationality, "Nationality", strings.TrimSpace)
	setCore(&l.DestinationCountry, p.DestinationCountry, "DestinationCountry", strings.TrimSpace)
	setCore(&l.LeadSource, p.LeadSource, "LeadSource", strings.TrimSpace)
	if p.VisaTypes != nil {
		l.VisaTypes = trimAll(*p.VisaTypes)
		t.core = append(t.core, "VisaTypes")
	}

	if p.InquiryDate != nil {
		l.InquiryDate = *p.InquiryDate
		t.inquiryDate = true
	}
	if p.CurrentLocation != nil {
		l.CurrentLocation = strings.TrimSpace(*p.CurrentLocation)
	}
	if p.PreferredProgram != nil {
		l.PreferredProgram = strings.TrimSpace(*p.PreferredProgram)
	}
	if p.AssignedTo != nil {
		l.AssignedTo = strings.TrimSpace(*p.AssignedTo)
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	if p.AdditionalNotes != nil {
		l.AdditionalNotes = *p.AdditionalNotes
	}
	if p.Status != nil {
		l.Status = *p.Status
		t.status = true
	}
	if p.Stage != nil {
		l.Stage = *p.Stage
		t.stage = true
	}
	if p.LeadScore != nil {
		l.LeadScore = *p.LeadScore
		t.score = true
	}
	if p.ClearNextFollowUpDate {
		l.NextFollowUpDate = nil
	} else if p.NextFollowUpDate != nil {
		v := *p.NextFollowUpDate
		l.NextFollowUpDate = &v
	}
	if p.FollowUpMethod != nil {
		l.FollowUpMethod = *p.FollowUpMethod
		t.followUpMethod = true
	}
	if p.CustomFields != nil {
		t.customFields = true
	}
	return t
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
