package repository

import (
	"context"

	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/platform/kvstore"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each lead as a JSON document in Redis.
type RedisStore struct {
	leads *kvstore.Collection[domain.Lead]
}

// NewRedisStore binds the store to client under keyPrefix.
func NewRedisStore(client redis.UniversalClient, keyPrefix string) *RedisStore {
	return &RedisStore{leads: kvstore.NewCollection[domain.Lead](client, keyPrefix, "leads")}
}

func (s *RedisStore) Load(ctx context.Context) ([]domain.Lead, error) {
	return s.leads.All(ctx)
}

func (s *RedisStore) Save(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	if err := s.leads.Put(ctx, lead.ID.String(), lead); err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

func (s *RedisStore) Remove(ctx context.Context, id uuid.UUID) error {
	existed, err := s.leads.Delete(ctx, id.String())
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFound
	}
	return nil
}
