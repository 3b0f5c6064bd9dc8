// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"visa_leads_backend/internal/events"
	"visa_leads_backend/platform/config"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/metrics"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Ping(ctx context.Context) error { return f(ctx) }

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and JWT settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks against the storage backend. Nil
	// means the backend is in-process and always ready.
	Health HealthChecker
	// Metrics serves /metrics and records request metrics. Optional.
	Metrics *metrics.Metrics
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
