package events

import (
	"context"

	"visa_leads_backend/platform/metrics"
)

// RegisterMetrics subscribes Prometheus counters to the lead and follow-up events.
func RegisterMetrics(bus Bus, m *metrics.Metrics) {
	bus.Subscribe(LeadCreated{}.EventName(), HandlerFunc(func(_ context.Context, _ Event) error {
		m.ObserveLeadEvent("created")
		return nil
	}))
	bus.Subscribe(LeadUpdated{}.EventName(), HandlerFunc(func(_ context.Context, e Event) error {
		if ev, ok := e.(LeadUpdated); ok {
			m.ObserveLeadEvent("updated_" + ev.Change)
		}
		return nil
	}))
	bus.Subscribe(LeadDeleted{}.EventName(), HandlerFunc(func(_ context.Context, _ Event) error {
		m.ObserveLeadEvent("deleted")
		return nil
	}))
	bus.Subscribe(LeadStageChanged{}.EventName(), HandlerFunc(func(_ context.Context, e Event) error {
		if ev, ok := e.(LeadStageChanged); ok {
			m.ObserveStageTransition(ev.From, ev.To)
		}
		return nil
	}))
	bus.Subscribe(FollowUpScheduled{}.EventName(), HandlerFunc(func(_ context.Context, e Event) error {
		if ev, ok := e.(FollowUpScheduled); ok {
			m.ObserveFollowUpEvent("scheduled", ev.Method)
		}
		return nil
	}))
	bus.Subscribe(FollowUpStatusChanged{}.EventName(), HandlerFunc(func(_ context.Context, e Event) error {
		if ev, ok := e.(FollowUpStatusChanged); ok {
			m.ObserveFollowUpEvent("status_changed", ev.To)
		}
		return nil
	}))
}
