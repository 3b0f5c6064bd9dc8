package service

import (
	"context"
	"math"
	"sort"
	"time"

	"visa_leads_backend/internal/followups/domain"
)

const trendDays = 7

// Stats summarises follow-up activity for the dashboard.
type Stats struct {
	Total          int
	Completed      int
	Pending        int
	Missed         int
	CompletionRate float64
	ByMethod       map[domain.Method]int
	Trend          []DayCount
	Staff          []StaffPerformance
}

// DayCount is the number of follow-ups due on one UTC day.
type DayCount struct {
	Date  string
	Count int
}

// StaffPerformance is the follow-up record of one staff member.
type StaffPerformance struct {
	StaffID     string
	StaffName   string
	Total       int
	Completed   int
	SuccessRate float64
}

// Stats computes totals, the completion rate, a per-method breakdown, the
// last seven days of scheduled follow-ups and per-staff success rates.
func (s *Service) Stats(ctx context.Context) Stats {
	return computeStats(s.List(ctx, Filter{}), s.now())
}

func computeStats(items []domain.FollowUp, now time.Time) Stats {
	st := Stats{
		Total:    len(items),
		ByMethod: make(map[domain.Method]int, len(domain.Methods)),
	}
	for _, m := range domain.Methods {
		st.ByMethod[m] = 0
	}

	today := now.UTC().Truncate(24 * time.Hour)
	first := today.AddDate(0, 0, -(trendDays - 1))
	trend := make([]DayCount, trendDays)
	for i := range trend {
		trend[i].Date = first.AddDate(0, 0, i).Format(time.DateOnly)
	}

	staff := map[string]*StaffPerformance{}
	for _, f := range items {
		switch f.Status {
		case domain.StatusCompleted:
			st.Completed++
		case domain.StatusPending:
			st.Pending++
		case domain.StatusMissed:
			st.Missed++
		}
		st.ByMethod[f.Method]++

		day := f.DateTime.UTC().Truncate(24 * time.Hour)
		if !day.Before(first) && !day.After(today) {
			trend[int(day.Sub(first).Hours()/24)].Count++
		}

		if f.StaffID == "" {
			continue
		}
		sp, ok := staff[f.StaffID]
		if !ok {
			sp = &StaffPerformance{StaffID: f.StaffID, StaffName: f.StaffName}
			staff[f.StaffID] = sp
		}
		sp.Total++
		if f.Status == domain.StatusCompleted {
			sp.Completed++
		}
	}

	st.CompletionRate = percent(st.Completed, st.Total)
	st.Trend = trend

	st.Staff = make([]StaffPerformance, 0, len(staff))
	for _, sp := range staff {
		sp.SuccessRate = percent(sp.Completed, sp.Total)
		st.Staff = append(st.Staff, *sp)
	}
	sort.Slice(st.Staff, func(i, j int) bool {
		if st.Staff[i].Total != st.Staff[j].Total {
			return st.Staff[i].Total > st.Staff[j].Total
		}
		return st.Staff[i].StaffID < st.Staff[j].StaffID
	})
	return st
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}
