package handler

import (
	"net/http"

	"visa_leads_backend/internal/followups/service"
	"visa_leads_backend/internal/followups/transport"
	"visa_leads_backend/platform/httpkit"
	"visa_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterLeadRoutes mounts the per-lead timeline under /leads/:id.
func (h *Handler) RegisterLeadRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/follow-ups", h.ListForLead)
	rg.POST("/:id/follow-ups", h.Schedule)
	rg.GET("/:id/follow-ups/next", h.NextPending)
}

// RegisterRoutes mounts the cross-lead follow-up routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/stats", h.Stats)
	rg.GET("/:followUpId", h.GetByID)
	rg.PATCH("/:followUpId/status", h.UpdateStatus)
}

func (h *Handler) Schedule(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	leadID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.ScheduleFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	f, err := h.svc.Schedule(c.Request.Context(), leadID, service.ScheduleInput{
		DateTime:  req.DateTime,
		Method:    req.Method,
		Notes:     req.Notes,
		StaffID:   identity.StaffID(),
		StaffName: identity.StaffName(),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToFollowUpResponse(f))
}

func (h *Handler) ListForLead(c *gin.Context) {
	leadID, ok := parseID(c, "id")
	if !ok {
		return
	}

	httpkit.OK(c, transport.ToFollowUpListResponse(h.svc.ListForLead(c.Request.Context(), leadID)))
}

func (h *Handler) NextPending(c *gin.Context) {
	leadID, ok := parseID(c, "id")
	if !ok {
		return
	}

	f, found := h.svc.NextPending(c.Request.Context(), leadID)
	if !found {
		c.Status(http.StatusNoContent)
		return
	}

	httpkit.OK(c, transport.ToFollowUpResponse(f))
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListFollowUpsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	httpkit.OK(c, transport.ToFollowUpListResponse(h.svc.List(c.Request.Context(), req.ToFilter())))
}

func (h *Handler) Stats(c *gin.Context) {
	httpkit.OK(c, transport.ToStatsResponse(h.svc.Stats(c.Request.Context())))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "followUpId")
	if !ok {
		return
	}

	f, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToFollowUpResponse(f))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "followUpId")
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	f, err := h.svc.MarkStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToFollowUpResponse(f))
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}
