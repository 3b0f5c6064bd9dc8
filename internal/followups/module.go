// Package followups provides the follow-up scheduling bounded context module.
package followups

import (
	"context"

	"visa_leads_backend/internal/events"
	"visa_leads_backend/internal/followups/handler"
	"visa_leads_backend/internal/followups/repository"
	"visa_leads_backend/internal/followups/service"
	apphttp "visa_leads_backend/internal/http"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/validator"
)

// Module is the follow-ups bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the follow-ups module, loads the collection from store
// and subscribes to lead deletions. reminders may be nil.
func NewModule(ctx context.Context, store repository.Store, eventBus events.Bus, reminders service.ReminderScheduler, val *validator.Validator, log *logger.Logger) (*Module, error) {
	var opts []service.Option
	if reminders != nil {
		opts = append(opts, service.WithReminders(reminders))
	}

	svc := service.New(store, val, eventBus, log, opts...)
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	svc.RegisterHandlers(eventBus)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

func (m *Module) Name() string {
	return "followups"
}

// Service returns the follow-up service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterLeadRoutes(ctx.Protected.Group("/leads"))
	m.handler.RegisterRoutes(ctx.Protected.Group("/follow-ups"))
}

var _ apphttp.Module = (*Module)(nil)
