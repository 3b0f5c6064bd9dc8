package transport

import (
	"encoding/json"
	"time"

	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/internal/leads/scoring"

	"github.com/google/uuid"
)

// Request DTOs
type CreateLeadRequest struct {
	FullName           string               `json:"fullName" validate:"required,max=200"`
	Email              string               `json:"email" validate:"required,email"`
	Phone              string               `json:"phone" validate:"required,phone"`
	Nationality        string               `json:"nationality" validate:"required,max=100"`
	VisaTypes          []string             `json:"visaTypes" validate:"required,min=1,dive,required"`
	DestinationCountry string               `json:"destinationCountry" validate:"required,max=100"`
	InquiryDate        Date                 `json:"inquiryDate"`
	LeadSource         string               `json:"leadSource" validate:"required,max=100"`
	CurrentLocation    string               `json:"currentLocation,omitempty" validate:"max=200"`
	PreferredProgram   string               `json:"preferredProgram,omitempty" validate:"max=200"`
	AssignedTo         string               `json:"assignedTo,omitempty" validate:"max=200"`
	Notes              string               `json:"notes,omitempty"`
	AdditionalNotes    string               `json:"additionalNotes,omitempty"`
	Status             domain.Status        `json:"status,omitempty" validate:"omitempty,oneof=New Contacted 'Doc Collected' Applied Closed"`
	Stage              domain.Stage         `json:"stage,omitempty" validate:"omitempty,oneof=new contacted in_progress followed_up closed"`
	LeadScore          *int                 `json:"leadScore,omitempty" validate:"omitempty,min=0,max=100"`
	NextFollowUpDate   *Date                `json:"nextFollowUpDate,omitempty"`
	FollowUpMethod     domain.ContactMethod `json:"followUpMethod" validate:"required,oneof=phone whatsapp email in_person"`
	CustomFields       []CustomFieldRequest `json:"customFields,omitempty" validate:"dive"`
}

type UpdateLeadRequest struct {
	FullName           *string               `json:"fullName,omitempty" validate:"omitempty,max=200"`
	Email              *string               `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string               `json:"phone,omitempty" validate:"omitempty,phone"`
	Nationality        *string               `json:"nationality,omitempty" validate:"omitempty,max=100"`
	VisaTypes          *[]string             `json:"visaTypes,omitempty" validate:"omitempty,min=1,dive,required"`
	DestinationCountry *string               `json:"destinationCountry,omitempty" validate:"omitempty,max=100"`
	InquiryDate        *Date                 `json:"inquiryDate,omitempty"`
	LeadSource         *string               `json:"leadSource,omitempty" validate:"omitempty,max=100"`
	CurrentLocation    *string               `json:"currentLocation,omitempty" validate:"omitempty,max=200"`
	PreferredProgram   *string               `json:"preferredProgram,omitempty" validate:"omitempty,max=200"`
	AssignedTo         *string               `json:"assignedTo,omitempty" validate:"omitempty,max=200"`
	Notes              *string               `json:"notes,omitempty"`
	AdditionalNotes    *string               `json:"additionalNotes,omitempty"`
	Status             *domain.Status        `json:"status,omitempty" validate:"omitempty,oneof=New Contacted 'Doc Collected' Applied Closed"`
	Stage              *domain.Stage         `json:"stage,omitempty" validate:"omitempty,oneof=new contacted in_progress followed_up closed"`
	LeadScore          *int                  `json:"leadScore,omitempty" validate:"omitempty,min=0,max=100"`
	NextFollowUpDate   OptionalDate          `json:"nextFollowUpDate,omitempty" validate:"-"`
	FollowUpMethod     *domain.ContactMethod `json:"followUpMethod,omitempty" validate:"omitempty,oneof=phone whatsapp email in_person"`
	CustomFields       *[]CustomFieldRequest `json:"customFields,omitempty" validate:"omitempty,dive"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"max=10000"`
}

type TransitionStageRequest struct {
	Stage domain.Stage `json:"stage" validate:"required"`
}

type CustomFieldRequest struct {
	ID          *uuid.UUID       `json:"id,omitempty"`
	Name        string           `json:"name" validate:"required,max=100"`
	Label       string           `json:"label" validate:"required,max=200"`
	Type        domain.FieldType `json:"type,omitempty" validate:"omitempty,oneof=text textarea number select date switch"`
	Placeholder string           `json:"placeholder,omitempty" validate:"max=200"`
	Required    bool             `json:"required"`
	Options     []string         `json:"options,omitempty" validate:"omitempty,dive,required"`
	Value       json.RawMessage  `json:"value,omitempty"`
}

type UpdateCustomFieldRequest struct {
	Name        *string           `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Label       *string           `json:"label,omitempty" validate:"omitempty,min=1,max=200"`
	Type        *domain.FieldType `json:"type,omitempty" validate:"omitempty,oneof=text textarea number select date switch"`
	Placeholder *string           `json:"placeholder,omitempty" validate:"omitempty,max=200"`
	Required    *bool             `json:"required,omitempty"`
	Options     *[]string         `json:"options,omitempty" validate:"omitempty,dive,required"`
}

type SetCustomFieldValueRequest struct {
	Value json.RawMessage `json:"value"`
}

// ListLeadsRequest is bound from the query string.
type ListLeadsRequest struct {
	Search      string `form:"search"`
	Nationality string `form:"nationality"`
	VisaType    string `form:"visaType"`
	Status      string `form:"status" validate:"omitempty,oneof=New Contacted 'Doc Collected' Applied Closed"`
	Stage       string `form:"stage" validate:"omitempty,oneof=new contacted in_progress followed_up closed"`
	LeadSource  string `form:"leadSource"`
	From        string `form:"from"`
	To          string `form:"to"`
	Page        int    `form:"page" validate:"omitempty,min=1"`
	PageSize    int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ExportLeadsRequest selects the leads to export with the list filters.
type ExportLeadsRequest struct {
	Search      string `json:"search,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	VisaType    string `json:"visaType,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=New Contacted 'Doc Collected' Applied Closed"`
	Stage       string `json:"stage,omitempty" validate:"omitempty,oneof=new contacted in_progress followed_up closed"`
	LeadSource  string `json:"leadSource,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
}

// Response DTOs
type LeadResponse struct {
	ID                 uuid.UUID             `json:"id"`
	FullName           string                `json:"fullName"`
	Email              string                `json:"email"`
	Phone              string                `json:"phone"`
	Nationality        string                `json:"nationality"`
	VisaTypes          []string              `json:"visaTypes"`
	DestinationCountry string                `json:"destinationCountry"`
	InquiryDate        string                `json:"inquiryDate"`
	LeadSource         string                `json:"leadSource"`
	CurrentLocation    string                `json:"currentLocation,omitempty"`
	PreferredProgram   string                `json:"preferredProgram,omitempty"`
	AssignedTo         string                `json:"assignedTo,omitempty"`
	Notes              string                `json:"notes"`
	AdditionalNotes    string                `json:"additionalNotes,omitempty"`
	Status             domain.Status         `json:"status"`
	Stage              domain.Stage          `json:"stage"`
	LeadScore          int                   `json:"leadScore"`
	ScoreBand          scoring.Band          `json:"scoreBand"`
	NextFollowUpDate   *string               `json:"nextFollowUpDate"`
	FollowUpMethod     domain.ContactMethod  `json:"followUpMethod"`
	LastUpdated        *time.Time            `json:"lastUpdated"`
	CustomFields       []CustomFieldResponse `json:"customFields"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

type CustomFieldResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Label       string            `json:"label"`
	Type        domain.FieldType  `json:"type"`
	Placeholder string            `json:"placeholder,omitempty"`
	Required    bool              `json:"required"`
	Options     []string          `json:"options,omitempty"`
	Value       domain.FieldValue `json:"value"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type StageResponse struct {
	Lead           LeadResponse   `json:"lead"`
	AllowedTargets []domain.Stage `json:"allowedTargets"`
}

type PipelineResponse struct {
	Stages []domain.Stage `json:"stages"`
}

type LeadMetricsResponse struct {
	TotalLeads     int                   `json:"totalLeads"`
	ByStage        map[domain.Stage]int  `json:"byStage"`
	ByStatus       map[domain.Status]int `json:"byStatus"`
	ScoreBands     map[scoring.Band]int  `json:"scoreBands"`
	AverageScore   float64               `json:"averageScore"`
	ConversionRate float64               `json:"conversionRate"`
	Staff          []StaffMetrics        `json:"staffPerformance"`
}

type StaffMetrics struct {
	Name           string  `json:"name"`
	LeadsHandled   int     `json:"leadsHandled"`
	Closed         int     `json:"closed"`
	ConversionRate float64 `json:"conversionRate"`
}

type ValidationResponse struct {
	Valid bool `json:"valid"`
}

type ExportResponse struct {
	ObjectKey string    `json:"objectKey"`
	URL       string    `json:"url"`
	Rows      int       `json:"rows"`
	ExpiresAt time.Time `json:"expiresAt"`
}
