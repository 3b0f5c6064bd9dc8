// Package scoring interprets the 0-100 lead score. The score itself is set by
// staff; nothing here derives it from stage or status.
package scoring

import (
	"fmt"

	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/platform/apperr"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Band is a coarse priority bucket for a score.
type Band string

const (
	BandHot      Band = "hot"
	BandWarm     Band = "warm"
	BandLukewarm Band = "lukewarm"
	BandCold     Band = "cold"
)

// Bands lists the buckets from highest to lowest priority.
var Bands = []Band{BandHot, BandWarm, BandLukewarm, BandCold}

// BandFor maps a score to its bucket: 80+ hot, 60+ warm, 40+ lukewarm, otherwise cold.
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandHot
	case score >= 60:
		return BandWarm
	case score >= 40:
		return BandLukewarm
	default:
		return BandCold
	}
}

// Validate rejects scores outside 0-100.
func Validate(score int) error {
	if score < MinScore || score > MaxScore {
		return apperr.Validation(fmt.Sprintf("lead score must be between %d and %d", MinScore, MaxScore)).
			WithDetails(map[string]int{"leadScore": score})
	}
	return nil
}

// Distribution counts leads per band. Every band is present in the result.
func Distribution(leads []domain.Lead) map[Band]int {
	out := make(map[Band]int, len(Bands))
	for _, b := range Bands {
		out[b] = 0
	}
	for _, l := range leads {
		out[BandFor(l.LeadScore)]++
	}
	return out
}
