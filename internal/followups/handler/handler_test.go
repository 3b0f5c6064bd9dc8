package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"visa_leads_backend/internal/events"
	"visa_leads_backend/internal/followups/domain"
	"visa_leads_backend/internal/followups/repository"
	"visa_leads_backend/internal/followups/service"
	"visa_leads_backend/internal/followups/transport"
	"visa_leads_backend/platform/httpkit"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Nop()
	svc := service.New(repository.NewMemoryStore(), validator.New(), events.NewInMemoryBus(log), log,
		service.WithClock(func() time.Time { return now }))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(httpkit.ContextStaffIDKey, "staff-1")
		c.Set(httpkit.ContextStaffNameKey, "Sarah Johnson")
		c.Next()
	})
	h := New(svc, validator.New())
	h.RegisterLeadRoutes(r.Group("/leads"))
	h.RegisterRoutes(r.Group("/follow-ups"))
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

func schedule(t *testing.T, r *gin.Engine, leadID uuid.UUID, at time.Time, method string) transport.FollowUpResponse {
	t.Helper()
	w := do(r, http.MethodPost, "/leads/"+leadID.String()+"/follow-ups", map[string]any{
		"dateTime": at,
		"method":   method,
		"notes":    "discuss documents",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp transport.FollowUpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestScheduleAndListForLead(t *testing.T) {
	r := newRouter(t)
	leadID := uuid.New()

	first := schedule(t, r, leadID, now.Add(24*time.Hour), "call")
	second := schedule(t, r, leadID, now.Add(48*time.Hour), "email")

	assert.Equal(t, domain.StatusPending, first.Status)
	assert.Equal(t, "staff-1", first.StaffID)
	assert.Equal(t, "Sarah Johnson", first.StaffName)

	w := do(r, http.MethodGet, "/leads/"+leadID.String()+"/follow-ups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list transport.FollowUpListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, second.ID, list.Items[0].ID)
	assert.Equal(t, first.ID, list.Items[1].ID)
}

func TestScheduleRejectsInvalidBody(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/leads/"+uuid.NewString()+"/follow-ups", map[string]any{
		"dateTime": now,
		"method":   "fax",
		"notes":    "x",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp httpkit.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Details, "method")

	w = do(r, http.MethodPost, "/leads/not-a-uuid/follow-ups", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNextPending(t *testing.T) {
	r := newRouter(t)
	leadID := uuid.New()

	w := do(r, http.MethodGet, "/leads/"+leadID.String()+"/follow-ups/next", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	later := schedule(t, r, leadID, now.Add(72*time.Hour), "call")
	sooner := schedule(t, r, leadID, now.Add(2*time.Hour), "meeting")
	_ = later

	w = do(r, http.MethodGet, "/leads/"+leadID.String()+"/follow-ups/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var next transport.FollowUpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &next))
	assert.Equal(t, sooner.ID, next.ID)
}

func TestUpdateStatusAndFilter(t *testing.T) {
	r := newRouter(t)
	f := schedule(t, r, uuid.New(), now.Add(-time.Hour), "whatsapp")
	schedule(t, r, uuid.New(), now.Add(time.Hour), "call")

	w := do(r, http.MethodPatch, "/follow-ups/"+f.ID.String()+"/status", map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/follow-ups?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list transport.FollowUpListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, f.ID, list.Items[0].ID)

	w = do(r, http.MethodGet, "/follow-ups?status=done", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/follow-ups/"+f.ID.String()+"/status", map[string]any{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/follow-ups/"+uuid.NewString()+"/status", map[string]any{"status": "missed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetByID(t *testing.T) {
	r := newRouter(t)
	f := schedule(t, r, uuid.New(), now.Add(time.Hour), "email")

	w := do(r, http.MethodGet, "/follow-ups/"+f.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/follow-ups/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStats(t *testing.T) {
	r := newRouter(t)
	f := schedule(t, r, uuid.New(), now.Add(-time.Hour), "call")
	schedule(t, r, uuid.New(), now.Add(-2*time.Hour), "email")
	do(r, http.MethodPatch, "/follow-ups/"+f.ID.String()+"/status", map[string]any{"status": "completed"})

	w := do(r, http.MethodGet, "/follow-ups/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats transport.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 50.0, stats.CompletionRate)
	assert.Equal(t, 1, stats.MethodBreakdown[domain.MethodCall])
	require.Len(t, stats.WeeklyTrend, 7)
	assert.Equal(t, "2024-04-15", stats.WeeklyTrend[6].Date)
	assert.Equal(t, 2, stats.WeeklyTrend[6].Count)
	require.Len(t, stats.StaffPerformance, 1)
	assert.Equal(t, 50.0, stats.StaffPerformance[0].SuccessRate)
}
