// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"visa_leads_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewBaseEventAt = events.NewBaseEventAt
)

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is added.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	FullName   string    `json:"fullName"`
	LeadSource string    `json:"leadSource"`
	Stage      string    `json:"stage"`
	Status     string    `json:"status"`
	ActorID    string    `json:"actorId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadUpdated is published after any committed change to a lead other than a
// pipeline transition.
type LeadUpdated struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Change  string    `json:"change"`
	ActorID string    `json:"actorId,omitempty"`
}

func (e LeadUpdated) EventName() string { return "leads.lead.updated" }

// LeadDeleted is published when a lead is removed. Follow-up history is kept
// unless PurgeFollowUps is set.
type LeadDeleted struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	PurgeFollowUps bool      `json:"purgeFollowUps"`
	ActorID        string    `json:"actorId,omitempty"`
}

func (e LeadDeleted) EventName() string { return "leads.lead.deleted" }

// LeadStageChanged is published when a pipeline transition moves a lead.
type LeadStageChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ActorID   string    `json:"actorId,omitempty"`
	ActorName string    `json:"actorName,omitempty"`
}

func (e LeadStageChanged) EventName() string { return "leads.stage.changed" }

// =============================================================================
// Follow-up Domain Events
// =============================================================================

// FollowUpScheduled is published when a follow-up is added to a lead's timeline.
type FollowUpScheduled struct {
	BaseEvent
	FollowUpID uuid.UUID `json:"followUpId"`
	LeadID     uuid.UUID `json:"leadId"`
	DateTime   time.Time `json:"dateTime"`
	Method     string    `json:"method"`
	StaffID    string    `json:"staffId,omitempty"`
}

func (e FollowUpScheduled) EventName() string { return "followups.follow_up.scheduled" }

// FollowUpStatusChanged is published when a follow-up is marked completed,
// missed or back to pending.
type FollowUpStatusChanged struct {
	BaseEvent
	FollowUpID uuid.UUID `json:"followUpId"`
	LeadID     uuid.UUID `json:"leadId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
}

func (e FollowUpStatusChanged) EventName() string { return "followups.follow_up.status_changed" }
