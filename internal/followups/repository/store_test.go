package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"visa_leads_backend/internal/followups/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFollowUp(notes string) domain.FollowUp {
	at := time.Date(2024, 4, 22, 10, 0, 0, 0, time.UTC)
	return domain.FollowUp{
		ID:        uuid.New(),
		LeadID:    uuid.New(),
		DateTime:  at,
		Method:    domain.MethodEmail,
		StaffID:   "staff-1",
		StaffName: "Sarah Johnson",
		Notes:     notes,
		Status:    domain.StatusPending,
		CreatedAt: at.Add(-time.Hour),
		UpdatedAt: at.Add(-time.Hour),
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	first := sampleFollowUp("send document checklist")
	second := sampleFollowUp("confirm IELTS date")
	_, err := store.Save(ctx, first)
	require.NoError(t, err)
	_, err = store.Save(ctx, second)
	require.NoError(t, err)

	first.Status = domain.StatusCompleted
	_, err = store.Save(ctx, first)
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, first.ID, loaded[0].ID)
	assert.Equal(t, domain.StatusCompleted, loaded[0].Status)
	assert.True(t, first.DateTime.Equal(loaded[0].DateTime))
	assert.Equal(t, second.Notes, loaded[1].Notes)

	require.NoError(t, store.Remove(ctx, first.ID))
	assert.True(t, errors.Is(store.Remove(ctx, first.ID), ErrNotFound))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, second.ID, loaded[0].ID)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, NewRedisStore(client, "test"))
}
