// Package analytics aggregates dashboard KPIs over a lead snapshot.
package analytics

import (
	"math"
	"sort"
	"strings"

	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/internal/leads/scoring"
)

// LeadMetrics aggregates KPI values for the dashboard.
type LeadMetrics struct {
	TotalLeads     int
	ByStage        map[domain.Stage]int
	ByStatus       map[domain.Status]int
	ScoreBands     map[scoring.Band]int
	AverageScore   float64
	ConversionRate float64
	Staff          []StaffMetrics
}

// StaffMetrics summarises the leads assigned to one staff member.
type StaffMetrics struct {
	Name           string
	LeadsHandled   int
	Closed         int
	ConversionRate float64
}

const unassigned = "Unassigned"

// Summarize computes metrics for leads. A lead counts as converted once it
// reaches the closed stage. Rates are percentages rounded to one decimal.
func Summarize(leads []domain.Lead) LeadMetrics {
	m := LeadMetrics{
		TotalLeads: len(leads),
		ByStage:    make(map[domain.Stage]int, len(domain.Stages)),
		ByStatus:   make(map[domain.Status]int, len(domain.Statuses)),
		ScoreBands: scoring.Distribution(leads),
	}
	for _, s := range domain.Stages {
		m.ByStage[s] = 0
	}
	for _, s := range domain.Statuses {
		m.ByStatus[s] = 0
	}

	staff := map[string]*StaffMetrics{}
	var scoreSum, closed int
	for _, l := range leads {
		m.ByStage[l.Stage]++
		m.ByStatus[l.Status]++
		scoreSum += l.LeadScore

		name := strings.TrimSpace(l.AssignedTo)
		if name == "" {
			name = unassigned
		}
		sm, ok := staff[name]
		if !ok {
			sm = &StaffMetrics{Name: name}
			staff[name] = sm
		}
		sm.LeadsHandled++
		if l.Stage == domain.StageClosed {
			sm.Closed++
			closed++
		}
	}

	if len(leads) > 0 {
		m.AverageScore = round1(float64(scoreSum) / float64(len(leads)))
	}
	m.ConversionRate = percent(closed, len(leads))

	m.Staff = make([]StaffMetrics, 0, len(staff))
	for _, sm := range staff {
		sm.ConversionRate = percent(sm.Closed, sm.LeadsHandled)
		m.Staff = append(m.Staff, *sm)
	}
	sort.Slice(m.Staff, func(i, j int) bool {
		if m.Staff[i].LeadsHandled != m.Staff[j].LeadsHandled {
			return m.Staff[i].LeadsHandled > m.Staff[j].LeadsHandled
		}
		return m.Staff[i].Name < m.Staff[j].Name
	})
	return m
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) * 100 / float64(total))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
