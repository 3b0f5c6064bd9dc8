// Package domain holds the follow-up model. A follow-up references its lead
// by ID only; the lead may no longer exist.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Method is how staff intend to reach the lead.
type Method string

const (
	MethodPhone    Method = "phone"
	MethodCall     Method = "call"
	MethodEmail    Method = "email"
	MethodWhatsApp Method = "whatsapp"
	MethodMessage  Method = "message"
	MethodMeeting  Method = "meeting"
)

// Methods lists every follow-up method in display order.
var Methods = []Method{MethodPhone, MethodCall, MethodEmail, MethodWhatsApp, MethodMessage, MethodMeeting}

func (m Method) IsValid() bool {
	for _, v := range Methods {
		if v == m {
			return true
		}
	}
	return false
}

// Status is the outcome of a follow-up. Any status may change to any other.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
)

var Statuses = []Status{StatusPending, StatusCompleted, StatusMissed}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusMissed:
		return true
	}
	return false
}

// FollowUp is a planned contact with a lead.
type FollowUp struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	DateTime  time.Time `json:"dateTime"`
	Method    Method    `json:"method"`
	StaffID   string    `json:"staffId,omitempty"`
	StaffName string    `json:"staffName,omitempty"`
	Notes     string    `json:"notes"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsUpcoming reports whether the follow-up is still pending and due after now.
func (f FollowUp) IsUpcoming(now time.Time) bool {
	return f.Status == StatusPending && f.DateTime.After(now)
}
