package exports

import (
	apphttp "visa_leads_backend/internal/http"
	"visa_leads_backend/platform/httpkit"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/validator"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	limiter *httpkit.IPRateLimiter
}

// NewModule creates and initializes the exports module.
func NewModule(svc *Service, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(svc, val),
		limiter: httpkit.NewExportRateLimiter(log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/leads/export", m.limiter.RateLimit(), m.handler.ExportLeads)
}

var _ apphttp.Module = (*Module)(nil)
