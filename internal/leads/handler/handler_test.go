package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"visa_leads_backend/internal/events"
	"visa_leads_backend/internal/leads/management"
	"visa_leads_backend/internal/leads/repository"
	"visa_leads_backend/internal/leads/transport"
	"visa_leads_backend/platform/httpkit"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Nop()
	val := validator.New()
	svc := management.New(repository.NewMemoryStore(), val, events.NewInMemoryBus(log), log)

	r := gin.New()
	group := r.Group("/leads", func(c *gin.Context) {
		c.Set(httpkit.ContextStaffIDKey, "staff-1")
		c.Set(httpkit.ContextStaffNameKey, "Sarah Johnson")
		c.Next()
	})
	New(svc, val).RegisterRoutes(group)
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func johnDoe() map[string]any {
	return map[string]any{
		"fullName":           "John Doe",
		"email":              "john@x.com",
		"phone":              "+15551234567",
		"nationality":        "US",
		"visaTypes":          []string{"student"},
		"destinationCountry": "CA",
		"inquiryDate":        "2024-04-15",
		"leadSource":         "website",
		"followUpMethod":     "email",
	}
}

func createLead(t *testing.T, r *gin.Engine, body map[string]any) transport.LeadResponse {
	t.Helper()
	w := do(r, http.MethodPost, "/leads", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var lead transport.LeadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lead))
	return lead
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httpkit.ErrorResponse {
	t.Helper()
	var resp httpkit.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateAndGetLead(t *testing.T) {
	r := newRouter(t)

	lead := createLead(t, r, johnDoe())
	assert.Equal(t, "New", string(lead.Status))
	assert.Equal(t, "new", string(lead.Stage))
	assert.Equal(t, "2024-04-15", lead.InquiryDate)
	assert.Equal(t, 0, lead.LeadScore)
	assert.Empty(t, lead.CustomFields)

	w := do(r, http.MethodGet, "/leads/"+lead.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got transport.LeadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, lead.ID, got.ID)
	assert.Equal(t, "John Doe", got.FullName)
}

func TestCreateLeadValidation(t *testing.T) {
	r := newRouter(t)
	body := johnDoe()
	body["email"] = "not-an-email"

	w := do(r, http.MethodPost, "/leads", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, msgValidationFailed, resp.Error)
	assert.Contains(t, resp.Details, "email")
}

func TestCreateLeadRejectsBadDate(t *testing.T) {
	r := newRouter(t)
	body := johnDoe()
	body["inquiryDate"] = "15/04/2024"

	w := do(r, http.MethodPost, "/leads", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownLeadIs404(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/leads/5b0a3e9e-8f1a-4a57-9d35-3a8a2b0c9f11", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NotFoundError", decodeError(t, w).Kind)
}

func TestStageSkipIs422(t *testing.T) {
	r := newRouter(t)
	lead := createLead(t, r, johnDoe())

	w := do(r, http.MethodPatch, "/leads/"+lead.ID.String()+"/stage", map[string]string{"stage": "followed_up"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodPatch, "/leads/"+lead.ID.String()+"/stage", map[string]string{"stage": "contacted"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp transport.StageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "contacted", string(resp.Lead.Stage))
	assert.NotNil(t, resp.Lead.LastUpdated)
	assert.Len(t, resp.AllowedTargets, 2)
}

func TestUpdateClearsNextFollowUpDate(t *testing.T) {
	r := newRouter(t)
	body := johnDoe()
	body["nextFollowUpDate"] = "2024-04-22"
	lead := createLead(t, r, body)
	require.NotNil(t, lead.NextFollowUpDate)

	w := do(r, http.MethodPut, "/leads/"+lead.ID.String(), map[string]any{"nextFollowUpDate": nil, "leadScore": 60})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got transport.LeadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Nil(t, got.NextFollowUpDate)
	assert.Equal(t, 60, got.LeadScore)
	assert.Equal(t, "warm", string(got.ScoreBand))
}

func TestListFiltersAndPages(t *testing.T) {
	r := newRouter(t)
	createLead(t, r, johnDoe())
	maria := johnDoe()
	maria["fullName"] = "Maria Garcia"
	maria["email"] = "maria@example.com"
	maria["nationality"] = "MX"
	createLead(t, r, maria)

	w := do(r, http.MethodGet, "/leads?search=GARCIA", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page transport.LeadListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Maria Garcia", page.Items[0].FullName)

	w = do(r, http.MethodGet, "/leads?pageSize=1&page=2", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Maria Garcia", page.Items[0].FullName)

	w = do(r, http.MethodGet, "/leads?from=2024-04-15", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 0, page.Total, "range bounds are exclusive")
}

func TestListHugePageIsEmpty(t *testing.T) {
	r := newRouter(t)
	createLead(t, r, johnDoe())

	w := do(r, http.MethodGet, "/leads?page=9223372036854775807", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page transport.LeadListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Empty(t, page.Items)
}

func TestCustomFieldFlow(t *testing.T) {
	r := newRouter(t)
	lead := createLead(t, r, johnDoe())
	base := "/leads/" + lead.ID.String() + "/custom-fields"

	w := do(r, http.MethodPost, base, map[string]any{"name": "eca", "label": "ECA Reference", "type": "text", "required": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var field struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &field))

	w = do(r, http.MethodPost, base, map[string]any{"name": "eca", "label": "Again", "type": "text"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, base+"/validate", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error, "ECA Reference")

	w = do(r, http.MethodPut, base+"/"+field.ID.String()+"/value", map[string]any{"value": "WES-1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, base+"/validate", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, base+"/"+field.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAddCustomFieldWithRejectedValueSavesNothing(t *testing.T) {
	r := newRouter(t)
	lead := createLead(t, r, johnDoe())
	base := "/leads/" + lead.ID.String() + "/custom-fields"
	tier := map[string]any{"name": "tier", "label": "Tier", "type": "select", "options": []string{"gold", "silver"}}

	tier["value"] = "bronze"
	w := do(r, http.MethodPost, base, tier)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/leads/"+lead.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		CustomFields []json.RawMessage `json:"customFields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Empty(t, got.CustomFields)

	tier["value"] = "gold"
	w = do(r, http.MethodPost, base, tier)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var field struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &field))
	assert.Equal(t, "tier", field.Name)
	assert.Equal(t, "gold", field.Value)
}

func TestAddCustomFieldWithoutTypeIsText(t *testing.T) {
	r := newRouter(t)
	lead := createLead(t, r, johnDoe())
	base := "/leads/" + lead.ID.String() + "/custom-fields"

	w := do(r, http.MethodPost, base, map[string]any{"name": "eca", "label": "ECA Reference", "required": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var field struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &field))
	assert.Equal(t, "text", field.Type)

	w = do(r, http.MethodPost, base, map[string]any{"name": "eca", "label": "Duplicate"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteLead(t *testing.T) {
	r := newRouter(t)
	lead := createLead(t, r, johnDoe())

	w := do(r, http.MethodDelete, "/leads/"+lead.ID.String()+"?purgeFollowUps=true", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodDelete, "/leads/"+lead.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics(t *testing.T) {
	r := newRouter(t)
	body := johnDoe()
	body["leadScore"] = 90
	createLead(t, r, body)

	w := do(r, http.MethodGet, "/leads/metrics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var m transport.LeadMetricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, 1, m.TotalLeads)
	assert.Equal(t, 90.0, m.AverageScore)
	assert.Equal(t, 1, m.ByStage["new"])
}
