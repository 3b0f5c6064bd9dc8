package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"visa_leads_backend/internal/events"
	"visa_leads_backend/internal/followups/domain"
	"visa_leads_backend/internal/followups/repository"
	"visa_leads_backend/platform/apperr"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)

type fakeReminders struct {
	scheduled []domain.FollowUp
	err       error
}

func (f *fakeReminders) ScheduleFollowUpReminder(_ context.Context, fu domain.FollowUp) error {
	f.scheduled = append(f.scheduled, fu)
	return f.err
}

func newService(t *testing.T, opts ...Option) (*Service, *events.InMemoryBus) {
	t.Helper()
	bus := events.NewInMemoryBus(logger.Nop())
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	return New(repository.NewMemoryStore(), validator.New(), bus, logger.Nop(), opts...), bus
}

func input(at time.Time, notes string) ScheduleInput {
	return ScheduleInput{DateTime: at, Method: domain.MethodEmail, Notes: notes, StaffID: "staff-1", StaffName: "Sarah Johnson"}
}

func TestScheduleCreatesPendingFollowUp(t *testing.T) {
	svc, _ := newService(t)
	leadID := uuid.New()
	at := time.Date(2024, 4, 22, 10, 0, 0, 0, time.UTC)

	f, err := svc.Schedule(context.Background(), leadID, input(at, "send checklist"))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, f.ID)
	assert.Equal(t, leadID, f.LeadID)
	assert.Equal(t, domain.StatusPending, f.Status)
	assert.Equal(t, at, f.DateTime)
	assert.Equal(t, "Sarah Johnson", f.StaffName)
}

func TestScheduleValidation(t *testing.T) {
	cases := map[string]ScheduleInput{
		"missing date":   {Method: domain.MethodEmail, Notes: "x"},
		"missing method": {DateTime: now, Notes: "x"},
		"unknown method": {DateTime: now, Method: "fax", Notes: "x"},
		"blank notes":    {DateTime: now, Method: domain.MethodEmail, Notes: "   "},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _ := newService(t)
			_, err := svc.Schedule(context.Background(), uuid.New(), in)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Empty(t, svc.List(context.Background(), Filter{}))
		})
	}
}

func TestScheduleValidationReportsFieldTags(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Schedule(context.Background(), uuid.New(), ScheduleInput{Method: "fax", Notes: " "})

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "invalid or missing fields: dateTime, method, notes", appErr.Message)
	assert.Equal(t, map[string]string{"dateTime": "required", "method": "oneof", "notes": "required"}, appErr.Details)
}

func TestScheduleEnqueuesReminderForUpcomingOnly(t *testing.T) {
	reminders := &fakeReminders{err: errors.New("redis down")}
	svc, _ := newService(t, WithReminders(reminders))
	ctx := context.Background()

	_, err := svc.Schedule(ctx, uuid.New(), input(now.Add(2*time.Hour), "future"))
	require.NoError(t, err, "reminder failures are logged, not returned")
	_, err = svc.Schedule(ctx, uuid.New(), input(now.Add(-2*time.Hour), "past"))
	require.NoError(t, err)

	require.Len(t, reminders.scheduled, 1)
	assert.Equal(t, "future", reminders.scheduled[0].Notes)
}

func TestMarkStatus(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	f, _ := svc.Schedule(ctx, uuid.New(), input(now.Add(time.Hour), "call"))

	done, err := svc.MarkStatus(ctx, f.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)

	back, err := svc.MarkStatus(ctx, f.ID, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, back.Status)

	_, err = svc.MarkStatus(ctx, f.ID, "cancelled")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.MarkStatus(ctx, uuid.New(), domain.StatusMissed)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListForLeadNewestFirstStable(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	leadID := uuid.New()
	early := now.Add(24 * time.Hour)
	late := now.Add(48 * time.Hour)

	_, _ = svc.Schedule(ctx, leadID, input(early, "a"))
	_, _ = svc.Schedule(ctx, leadID, input(late, "b"))
	_, _ = svc.Schedule(ctx, leadID, input(early, "c"))
	_, _ = svc.Schedule(ctx, uuid.New(), input(late, "other lead"))

	got := svc.ListForLead(ctx, leadID)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{got[0].Notes, got[1].Notes, got[2].Notes})
}

func TestNextPending(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	leadID := uuid.New()

	_, found := svc.NextPending(ctx, leadID)
	assert.False(t, found)

	_, _ = svc.Schedule(ctx, leadID, input(now.Add(-time.Hour), "overdue"))
	later, _ := svc.Schedule(ctx, leadID, input(now.Add(48*time.Hour), "later"))
	sooner, _ := svc.Schedule(ctx, leadID, input(now.Add(24*time.Hour), "sooner"))
	_, _ = svc.MarkStatus(ctx, sooner.ID, domain.StatusCompleted)

	next, found := svc.NextPending(ctx, leadID)
	require.True(t, found)
	assert.Equal(t, later.ID, next.ID)
}

func TestListFilters(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a, _ := svc.Schedule(ctx, uuid.New(), input(now.Add(3*time.Hour), "a"))
	b, _ := svc.Schedule(ctx, uuid.New(), ScheduleInput{DateTime: now.Add(time.Hour), Method: domain.MethodWhatsApp, Notes: "b", StaffID: "staff-2"})
	_, _ = svc.MarkStatus(ctx, a.ID, domain.StatusMissed)

	all := svc.List(ctx, Filter{})
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)

	assert.Len(t, svc.List(ctx, Filter{Method: domain.MethodWhatsApp}), 1)
	assert.Len(t, svc.List(ctx, Filter{Status: domain.StatusMissed}), 1)
	assert.Len(t, svc.List(ctx, Filter{StaffID: "staff-1"}), 1)
	assert.Empty(t, svc.List(ctx, Filter{StaffID: "staff-1", Status: domain.StatusPending}))
}

func TestLeadDeletionPurgesOnlyWhenAsked(t *testing.T) {
	svc, bus := newService(t)
	svc.RegisterHandlers(bus)
	ctx := context.Background()
	kept := uuid.New()
	purged := uuid.New()
	_, _ = svc.Schedule(ctx, kept, input(now.Add(time.Hour), "keep"))
	_, _ = svc.Schedule(ctx, purged, input(now.Add(time.Hour), "purge"))

	require.NoError(t, bus.PublishSync(ctx, events.LeadDeleted{LeadID: kept}))
	require.NoError(t, bus.PublishSync(ctx, events.LeadDeleted{LeadID: purged, PurgeFollowUps: true}))

	assert.Len(t, svc.ListForLead(ctx, kept), 1)
	assert.Empty(t, svc.ListForLead(ctx, purged))
}

func TestStats(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	leadID := uuid.New()
	f1, _ := svc.Schedule(ctx, leadID, input(now.Add(-24*time.Hour), "yesterday"))
	_, _ = svc.Schedule(ctx, leadID, ScheduleInput{DateTime: now.Add(-6 * 24 * time.Hour), Method: domain.MethodPhone, Notes: "week ago", StaffID: "staff-2"})
	_, _ = svc.Schedule(ctx, leadID, input(now.Add(10*24*time.Hour), "future"))
	_, _ = svc.MarkStatus(ctx, f1.ID, domain.StatusCompleted)

	st := svc.Stats(ctx)

	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 1, st.Completed)
	assert.Equal(t, 2, st.Pending)
	assert.Equal(t, 33.3, st.CompletionRate)
	assert.Equal(t, 2, st.ByMethod[domain.MethodEmail])
	assert.Equal(t, 1, st.ByMethod[domain.MethodPhone])
	assert.Equal(t, 0, st.ByMethod[domain.MethodMeeting])

	require.Len(t, st.Trend, 7)
	assert.Equal(t, "2024-04-09", st.Trend[0].Date)
	assert.Equal(t, 1, st.Trend[0].Count)
	assert.Equal(t, "2024-04-14", st.Trend[5].Date)
	assert.Equal(t, 1, st.Trend[5].Count)
	assert.Equal(t, "2024-04-15", st.Trend[6].Date)

	require.Len(t, st.Staff, 2)
	assert.Equal(t, StaffPerformance{StaffID: "staff-1", StaffName: "Sarah Johnson", Total: 2, Completed: 1, SuccessRate: 50}, st.Staff[0])
}
