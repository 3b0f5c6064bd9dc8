package transport

import (
	"time"

	"visa_leads_backend/internal/followups/domain"
	"visa_leads_backend/internal/followups/service"

	"github.com/google/uuid"
)

// Request DTOs
type ScheduleFollowUpRequest struct {
	DateTime time.Time     `json:"dateTime" validate:"required"`
	Method   domain.Method `json:"method" validate:"required,oneof=phone call email whatsapp message meeting"`
	Notes    string        `json:"notes" validate:"required,max=5000"`
}

type UpdateStatusRequest struct {
	Status domain.Status `json:"status" validate:"required,oneof=pending completed missed"`
}

// ListFollowUpsRequest is bound from the query string.
type ListFollowUpsRequest struct {
	Method  string `form:"method" validate:"omitempty,oneof=phone call email whatsapp message meeting"`
	Status  string `form:"status" validate:"omitempty,oneof=pending completed missed"`
	StaffID string `form:"staffId"`
}

// Response DTOs
type FollowUpResponse struct {
	ID        uuid.UUID     `json:"id"`
	LeadID    uuid.UUID     `json:"leadId"`
	DateTime  time.Time     `json:"dateTime"`
	Method    domain.Method `json:"method"`
	StaffID   string        `json:"staffId,omitempty"`
	StaffName string        `json:"staffName,omitempty"`
	Notes     string        `json:"notes"`
	Status    domain.Status `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type FollowUpListResponse struct {
	Items []FollowUpResponse `json:"items"`
}

type StatsResponse struct {
	Total            int                   `json:"totalFollowUps"`
	Completed        int                   `json:"completedFollowUps"`
	Pending          int                   `json:"pendingFollowUps"`
	Missed           int                   `json:"missedFollowUps"`
	CompletionRate   float64               `json:"completionRate"`
	MethodBreakdown  map[domain.Method]int `json:"methodBreakdown"`
	WeeklyTrend      []DayCount            `json:"weeklyTrend"`
	StaffPerformance []StaffPerformance    `json:"staffPerformance"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type StaffPerformance struct {
	StaffID     string  `json:"staffId"`
	StaffName   string  `json:"staffName,omitempty"`
	Total       int     `json:"total"`
	Completed   int     `json:"completed"`
	SuccessRate float64 `json:"followUpSuccess"`
}

func ToFollowUpResponse(f domain.FollowUp) FollowUpResponse {
	return FollowUpResponse{
		ID:        f.ID,
		LeadID:    f.LeadID,
		DateTime:  f.DateTime,
		Method:    f.Method,
		StaffID:   f.StaffID,
		StaffName: f.StaffName,
		Notes:     f.Notes,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func ToFollowUpListResponse(items []domain.FollowUp) FollowUpListResponse {
	out := make([]FollowUpResponse, 0, len(items))
	for _, f := range items {
		out = append(out, ToFollowUpResponse(f))
	}
	return FollowUpListResponse{Items: out}
}

func ToStatsResponse(s service.Stats) StatsResponse {
	trend := make([]DayCount, 0, len(s.Trend))
	for _, d := range s.Trend {
		trend = append(trend, DayCount{Date: d.Date, Count: d.Count})
	}
	staff := make([]StaffPerformance, 0, len(s.Staff))
	for _, p := range s.Staff {
		staff = append(staff, StaffPerformance{
			StaffID:     p.StaffID,
			StaffName:   p.StaffName,
			Total:       p.Total,
			Completed:   p.Completed,
			SuccessRate: p.SuccessRate,
		})
	}
	return StatsResponse{
		Total:            s.Total,
		Completed:        s.Completed,
		Pending:          s.Pending,
		Missed:           s.Missed,
		CompletionRate:   s.CompletionRate,
		MethodBreakdown:  s.ByMethod,
		WeeklyTrend:      trend,
		StaffPerformance: staff,
	}
}

func (r ListFollowUpsRequest) ToFilter() service.Filter {
	return service.Filter{
		Method:  domain.Method(r.Method),
		Status:  domain.Status(r.Status),
		StaffID: r.StaffID,
	}
}
