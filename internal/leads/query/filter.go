// Package query filters and pages lead snapshots. Everything here is a pure
// function of its inputs.
package query

import (
	"strings"
	"time"

	"visa_leads_backend/internal/leads/domain"

	"golang.org/x/text/cases"
)

// DateRange bounds InquiryDate exclusively on both ends. A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range constrains nothing.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r DateRange) contains(t time.Time) bool {
	if !r.Start.IsZero() && !t.After(r.Start) {
		return false
	}
	if !r.End.IsZero() && !t.Before(r.End) {
		return false
	}
	return true
}

// Criteria are AND-combined. Empty members impose no constraint.
type Criteria struct {
	// SearchText matches as a case-insensitive substring of the full name,
	// email, phone or any visa type.
	SearchText  string
	Nationality string
	VisaType    string
	Status      domain.Status
	Stage       domain.Stage
	LeadSource  string
	DateRange   DateRange
}

// Filter returns the leads matching c in their original relative order.
// The input slice and its leads are not modified.
func Filter(leads []domain.Lead, c Criteria) []domain.Lead {
	m := newMatcher(c)
	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if m.match(lead) {
			out = append(out, lead)
		}
	}
	return out
}

type matcher struct {
	fold        cases.Caser
	search      string
	nationality string
	visaType    string
	status      domain.Status
	stage       domain.Stage
	leadSource  string
	dates       DateRange
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{
		fold:   cases.Fold(),
		status: domain.Status(strings.TrimSpace(string(c.Status))),
		stage:  domain.Stage(strings.TrimSpace(string(c.Stage))),
		dates:  c.DateRange,
	}
	m.search = m.fold.String(strings.TrimSpace(c.SearchText))
	m.nationality = m.fold.String(strings.TrimSpace(c.Nationality))
	m.visaType = m.fold.String(strings.TrimSpace(c.VisaType))
	m.leadSource = m.fold.String(strings.TrimSpace(c.LeadSource))
	return m
}

func (m *matcher) match(lead domain.Lead) bool {
	if m.search != "" && !m.matchesSearch(lead) {
		return false
	}
	if m.nationality != "" && m.fold.String(lead.Nationality) != m.nationality {
		return false
	}
	if m.visaType != "" && !m.hasVisaType(lead) {
		return false
	}
	if m.status != "" && lead.Status != m.status {
		return false
	}
	if m.stage != "" && lead.Stage != m.stage {
		return false
	}
	if m.leadSource != "" && m.fold.String(lead.LeadSource) != m.leadSource {
		return false
	}
	if !m.dates.IsZero() && !m.dates.contains(lead.InquiryDate) {
		return false
	}
	return true
}

func (m *matcher) matchesSearch(lead domain.Lead) bool {
	for _, candidate := range []string{lead.FullName, lead.Email, lead.Phone} {
		if strings.Contains(m.fold.String(candidate), m.search) {
			return true
		}
	}
	for _, vt := range lead.VisaTypes {
		if strings.Contains(m.fold.String(vt), m.search) {
			return true
		}
	}
	return false
}

func (m *matcher) hasVisaType(lead domain.Lead) bool {
	for _, vt := range lead.VisaTypes {
		if m.fold.String(vt) == m.visaType {
			return true
		}
	}
	return false
}
