// Package stores opens the lead and follow-up persistence picked by
// STORAGE_DRIVER.
package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	followupsrepo "visa_leads_backend/internal/followups/repository"
	apphttp "visa_leads_backend/internal/http"
	leadsrepo "visa_leads_backend/internal/leads/repository"
	"visa_leads_backend/migrations"
	"visa_leads_backend/platform/config"
	"visa_leads_backend/platform/db"
	"visa_leads_backend/platform/kvstore"
	"visa_leads_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Set bundles the persistence collaborators of one driver.
type Set struct {
	Leads     leadsrepo.Store
	FollowUps followupsrepo.Store
	Health    apphttp.HealthChecker
	close     func()
}

func (s Set) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects the configured driver. Postgres runs pending migrations
// when enabled.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (Set, error) {
	switch cfg.GetStorageDriver() {
	case config.StoragePostgres:
		return openPostgres(ctx, cfg, log)
	case config.StorageRedis:
		return openRedis(ctx, cfg, log)
	default:
		log.Warn("using in-memory storage; data is lost on restart")
		return Set{
			Leads:     leadsrepo.NewMemoryStore(),
			FollowUps: followupsrepo.NewMemoryStore(),
		}, nil
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (Set, error) {
	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		return Set{}, err
	}
	log.Info("database connection established")

	if cfg.MigrationsEnabled {
		if err := db.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
			pool.Close()
			return Set{}, err
		}
		log.Info("database migrations complete")
	}

	return Set{
		Leads:     leadsrepo.NewPostgresStore(pool),
		FollowUps: followupsrepo.NewPostgresStore(pool),
		Health:    apphttp.HealthCheckFunc(pool.Ping),
		close:     pool.Close,
	}, nil
}

func openRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) (Set, error) {
	var client *redis.Client
	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		c, err := kvstore.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		client = c
		return nil
	}); err != nil {
		return Set{}, err
	}
	log.Info("redis connection established")

	prefix := cfg.GetRedisKeyPrefix()
	return Set{
		Leads:     leadsrepo.NewRedisStore(client, prefix),
		FollowUps: followupsrepo.NewRedisStore(client, prefix),
		Health: apphttp.HealthCheckFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}),
		close: func() { _ = client.Close() },
	}, nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
