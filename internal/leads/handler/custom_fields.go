package handler

import (
	"net/http"

	"visa_leads_backend/internal/leads/transport"
	"visa_leads_backend/platform/httpkit"
	"visa_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AddCustomField(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.CustomFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	field, err := h.svc.AddCustomField(c.Request.Context(), id, req.ToDefinition(), req.Value, actorOf(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToCustomFieldResponse(field))
}

func (h *Handler) UpdateCustomField(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fieldID, ok := parseID(c, "fieldId")
	if !ok {
		return
	}

	var req transport.UpdateCustomFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	field, err := h.svc.UpdateCustomField(c.Request.Context(), id, fieldID, req.ToPatch(), actorOf(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToCustomFieldResponse(field))
}

func (h *Handler) RemoveCustomField(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fieldID, ok := parseID(c, "fieldId")
	if !ok {
		return
	}

	if err := h.svc.RemoveCustomField(c.Request.Context(), id, fieldID, actorOf(identity)); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) SetCustomFieldValue(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fieldID, ok := parseID(c, "fieldId")
	if !ok {
		return
	}

	var req transport.SetCustomFieldValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	field, err := h.svc.SetCustomFieldValue(c.Request.Context(), id, fieldID, req.Value, actorOf(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToCustomFieldResponse(field))
}

func (h *Handler) ValidateCustomFields(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.ValidateCustomFields(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ValidationResponse{Valid: true})
}
