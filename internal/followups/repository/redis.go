package repository

import (
	"context"

	"visa_leads_backend/internal/followups/domain"
	"visa_leads_backend/platform/kvstore"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each follow-up as a JSON document in Redis.
type RedisStore struct {
	items *kvstore.Collection[domain.FollowUp]
}

func NewRedisStore(client redis.UniversalClient, keyPrefix string) *RedisStore {
	return &RedisStore{items: kvstore.NewCollection[domain.FollowUp](client, keyPrefix, "follow_ups")}
}

func (s *RedisStore) Load(ctx context.Context) ([]domain.FollowUp, error) {
	return s.items.All(ctx)
}

func (s *RedisStore) Save(ctx context.Context, f domain.FollowUp) (domain.FollowUp, error) {
	if err := s.items.Put(ctx, f.ID.String(), f); err != nil {
		return domain.FollowUp{}, err
	}
	return f, nil
}

func (s *RedisStore) Remove(ctx context.Context, id uuid.UUID) error {
	existed, err := s.items.Delete(ctx, id.String())
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFound
	}
	return nil
}
