package management

import (
	"context"
	"errors"
	"testing"
	"time"

	"visa_leads_backend/internal/events"
	fudomain "visa_leads_backend/internal/followups/domain"
	furepo "visa_leads_backend/internal/followups/repository"
	fuservice "visa_leads_backend/internal/followups/service"
	"visa_leads_backend/internal/leads/repository"
	"visa_leads_backend/platform/apperr"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenRemoveStore struct {
	*furepo.MemoryStore
}

func (s brokenRemoveStore) Remove(context.Context, uuid.UUID) error {
	return errors.New("disk full")
}

func newLeadsWithFollowUps(t *testing.T, store furepo.Store) (*Service, *fuservice.Service) {
	t.Helper()
	log := logger.Nop()
	val := validator.New()
	bus := events.NewInMemoryBus(log)
	t.Cleanup(bus.Wait)

	leads := New(repository.NewMemoryStore(), val, bus, log)
	followUps := fuservice.New(store, val, bus, log)
	followUps.RegisterHandlers(bus)
	return leads, followUps
}

func scheduleFor(t *testing.T, svc *fuservice.Service, leadID uuid.UUID) {
	t.Helper()
	_, err := svc.Schedule(context.Background(), leadID, fuservice.ScheduleInput{
		DateTime: time.Now().Add(24 * time.Hour),
		Method:   fudomain.MethodEmail,
		Notes:    "send document checklist",
	})
	require.NoError(t, err)
}

func TestDeleteLeadPurgesFollowUpsBeforeReturning(t *testing.T) {
	leads, followUps := newLeadsWithFollowUps(t, furepo.NewMemoryStore())
	ctx := context.Background()
	lead, err := leads.AddLead(ctx, johnDoe(), staff)
	require.NoError(t, err)
	scheduleFor(t, followUps, lead.ID)

	require.NoError(t, leads.DeleteLead(ctx, lead.ID, DeleteOptions{PurgeFollowUps: true}, staff))

	assert.Empty(t, followUps.ListForLead(ctx, lead.ID))
}

func TestDeleteLeadKeepsFollowUpsWithoutPurge(t *testing.T) {
	leads, followUps := newLeadsWithFollowUps(t, furepo.NewMemoryStore())
	ctx := context.Background()
	lead, err := leads.AddLead(ctx, johnDoe(), staff)
	require.NoError(t, err)
	scheduleFor(t, followUps, lead.ID)

	require.NoError(t, leads.DeleteLead(ctx, lead.ID, DeleteOptions{}, staff))

	assert.Len(t, followUps.ListForLead(ctx, lead.ID), 1)
}

func TestDeleteLeadReportsFailedPurge(t *testing.T) {
	leads, followUps := newLeadsWithFollowUps(t, brokenRemoveStore{furepo.NewMemoryStore()})
	ctx := context.Background()
	lead, err := leads.AddLead(ctx, johnDoe(), staff)
	require.NoError(t, err)
	scheduleFor(t, followUps, lead.ID)

	err = leads.DeleteLead(ctx, lead.ID, DeleteOptions{PurgeFollowUps: true}, staff)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
	assert.Contains(t, err.Error(), "follow-ups could not be purged")
	assert.Len(t, followUps.ListForLead(ctx, lead.ID), 1)

	_, err = leads.GetLead(ctx, lead.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "the lead itself is still removed")
}
