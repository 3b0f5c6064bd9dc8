// Package kvstore provides Redis-backed key/value collections.
// This is part of the platform layer and contains no business logic.
package kvstore

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"visa_leads_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// ParseOptions turns a redis:// or rediss:// URL into client options,
// optionally skipping TLS verification.
func ParseOptions(redisURL string, tlsInsecure bool) (*redis.Options, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	if opt.TLSConfig != nil && tlsInsecure {
		clone := opt.TLSConfig.Clone()
		clone.InsecureSkipVerify = true
		opt.TLSConfig = clone
	} else if opt.TLSConfig == nil && tlsInsecure {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opt, nil
}

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.GetRedisURL() == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := ParseOptions(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
