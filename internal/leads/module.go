// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"context"

	"visa_leads_backend/internal/events"
	apphttp "visa_leads_backend/internal/http"
	"visa_leads_backend/internal/leads/handler"
	"visa_leads_backend/internal/leads/management"
	"visa_leads_backend/internal/leads/repository"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
}

// NewModule creates the leads module and loads the collection from store.
func NewModule(ctx context.Context, store repository.Store, eventBus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	mgmtSvc := management.New(store, val, eventBus, log)
	if err := mgmtSvc.Load(ctx); err != nil {
		return nil, err
	}

	return &Module{
		handler:    handler.New(mgmtSvc, val),
		management: mgmtSvc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
