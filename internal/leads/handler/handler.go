package handler

import (
	"net/http"

	"visa_leads_backend/internal/leads/analytics"
	"visa_leads_backend/internal/leads/management"
	"visa_leads_backend/internal/leads/query"
	"visa_leads_backend/internal/leads/transport"
	"visa_leads_backend/platform/httpkit"
	"visa_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *management.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *management.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/metrics", h.Metrics)
	rg.GET("/pipeline", h.Pipeline)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PATCH("/:id/notes", h.UpdateNotes)
	rg.PATCH("/:id/stage", h.TransitionStage)
	rg.POST("/:id/custom-fields", h.AddCustomField)
	rg.POST("/:id/custom-fields/validate", h.ValidateCustomFields)
	rg.PUT("/:id/custom-fields/:fieldId", h.UpdateCustomField)
	rg.DELETE("/:id/custom-fields/:fieldId", h.RemoveCustomField)
	rg.PUT("/:id/custom-fields/:fieldId/value", h.SetCustomFieldValue)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	criteria, err := req.ToCriteria()
	if httpkit.HandleError(c, err) {
		return
	}

	leads := h.svc.Query(c.Request.Context(), criteria)
	httpkit.OK(c, transport.ToLeadListResponse(query.Paginate(leads, req.Page, req.PageSize)))
}

func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	in, err := req.ToInput()
	if httpkit.HandleError(c, err) {
		return
	}

	lead, err := h.svc.AddLead(c.Request.Context(), in, actorOf(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToLeadResponse(lead))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	lead, err := h.svc.GetLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	patch, err := req.ToPatch()
	if httpkit.HandleError(c, err) {
		return
	}

	lead, err := h.svc.UpdateLead(c.Request.Context(), id, patch, actorOf(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	opts := management.DeleteOptions{PurgeFollowUps: c.Query("purgeFollowUps") == "true"}
	if err := h.svc.DeleteLead(c.Request.Context(), id, opts, actorOf(identity)); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) UpdateNotes(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lead, err := h.svc.UpdateNotes(c.Request.Context(), id, req.Notes, actorOf(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) TransitionStage(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.TransitionStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lead, err := h.svc.TransitionStage(c.Request.Context(), id, req.Stage, actorOf(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.StageResponse{
		Lead:           transport.ToLeadResponse(lead),
		AllowedTargets: h.svc.Pipeline().AllowedTargets(lead.Stage),
	})
}

func (h *Handler) Pipeline(c *gin.Context) {
	httpkit.OK(c, transport.PipelineResponse{Stages: h.svc.Pipeline().Stages()})
}

func (h *Handler) Metrics(c *gin.Context) {
	metrics := analytics.Summarize(h.svc.ListLeads(c.Request.Context()))
	httpkit.OK(c, transport.ToMetricsResponse(metrics))
}

func actorOf(identity httpkit.Identity) management.Actor {
	return management.Actor{ID: identity.StaffID(), Name: identity.StaffName()}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}
