package exports

import (
	"net/http"

	"visa_leads_backend/internal/leads/transport"
	"visa_leads_backend/platform/httpkit"
	"visa_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles lead export requests.
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) ExportLeads(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ExportLeadsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	criteria, err := req.ToCriteria()
	if httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.ExportLeads(c.Request.Context(), criteria, identity.StaffID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ExportResponse{
		ObjectKey: result.ObjectKey,
		URL:       result.URL,
		Rows:      result.Rows,
		ExpiresAt: result.ExpiresAt,
	})
}
