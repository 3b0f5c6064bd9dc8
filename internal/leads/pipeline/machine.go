// Package pipeline enforces how a lead moves through the stage pipeline
// new -> contacted -> in_progress -> followed_up -> closed.
package pipeline

import (
	"fmt"
	"time"

	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/platform/apperr"
)

// Transition describes a committed stage change.
type Transition struct {
	From domain.Stage
	To   domain.Stage
	At   time.Time
}

// Machine validates stage transition requests. Forward movement is capped at
// one stage per request; backward movement is always allowed.
type Machine struct{}

// New creates a Machine.
func New() *Machine {
	return &Machine{}
}

// Stages returns the pipeline in order.
func (m *Machine) Stages() []domain.Stage {
	return append([]domain.Stage(nil), domain.Stages...)
}

// Next returns the stage after s, or false when s is terminal or unknown.
func (m *Machine) Next(s domain.Stage) (domain.Stage, bool) {
	idx := current(s).Index()
	if idx < 0 || idx+1 >= len(domain.Stages) {
		return "", false
	}
	return domain.Stages[idx+1], true
}

// AllowedTargets lists every stage a lead at s may be moved to, excluding s itself.
func (m *Machine) AllowedTargets(s domain.Stage) []domain.Stage {
	idx := current(s).Index()
	if idx < 0 {
		return nil
	}
	out := make([]domain.Stage, 0, idx+1)
	for i, st := range domain.Stages {
		if i != idx && i <= idx+1 {
			out = append(out, st)
		}
	}
	return out
}

// RequestTransition moves lead to target. On success it returns the updated
// copy and the transition; a request for the current stage succeeds with a nil
// transition and an unchanged lead. On failure the input lead is returned as is.
func (m *Machine) RequestTransition(lead domain.Lead, target domain.Stage, now time.Time) (domain.Lead, *Transition, error) {
	if !target.IsValid() {
		return lead, nil, apperr.Validation(fmt.Sprintf("unknown stage %q", target))
	}

	from := current(lead.Stage)
	fromIdx := from.Index()
	if fromIdx < 0 {
		return lead, nil, apperr.Validation(fmt.Sprintf("lead has unknown stage %q", lead.Stage))
	}

	toIdx := target.Index()
	if toIdx == fromIdx {
		return lead, nil, nil
	}
	if toIdx > fromIdx+1 {
		next := domain.Stages[fromIdx+1]
		return lead, nil, apperr.InvalidTransition(
			fmt.Sprintf("cannot move from %s to %s; advance one stage at a time (next is %s)", from, target, next),
		).WithDetails(map[string]string{"from": string(from), "to": string(target), "next": string(next)})
	}

	out := lead.Clone()
	out.Stage = target
	at := now.UTC()
	out.LastUpdated = &at
	return out, &Transition{From: from, To: target, At: at}, nil
}

// current treats a lead without a stage as new.
func current(s domain.Stage) domain.Stage {
	if s == "" {
		return domain.StageNew
	}
	return s
}
