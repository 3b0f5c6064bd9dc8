package pipeline

import (
	"testing"
	"time"

	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 4, 20, 9, 30, 0, 0, time.UTC)

func leadAt(stage domain.Stage) domain.Lead {
	return domain.Lead{FullName: "John Doe", Stage: stage}
}

func TestNeverAdvancesMoreThanOneStage(t *testing.T) {
	m := New()
	for fromIdx, from := range domain.Stages {
		for toIdx, to := range domain.Stages {
			out, tr, err := m.RequestTransition(leadAt(from), to, now)

			switch {
			case toIdx > fromIdx+1:
				require.Error(t, err, "%s -> %s", from, to)
				assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
				assert.Equal(t, from, out.Stage)
				assert.Nil(t, tr)
			case toIdx == fromIdx:
				require.NoError(t, err)
				assert.Nil(t, tr)
			default:
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, out.Stage)
				require.NotNil(t, tr)
				assert.Equal(t, Transition{From: from, To: to, At: now}, *tr)
			}
		}
	}
}

func TestSkipFromNewFails(t *testing.T) {
	lead := leadAt(domain.StageNew)

	out, _, err := New().RequestTransition(lead, domain.StageFollowedUp, now)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
	assert.Equal(t, domain.StageNew, out.Stage)
	assert.Equal(t, domain.StageNew, lead.Stage)
}

func TestSameStageDoesNotTouchLastUpdated(t *testing.T) {
	earlier := now.Add(-48 * time.Hour)
	lead := leadAt(domain.StageContacted)
	lead.LastUpdated = &earlier

	out, tr, err := New().RequestTransition(lead, domain.StageContacted, now)

	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Equal(t, earlier, *out.LastUpdated)
}

func TestTransitionLeavesScoreAndStatus(t *testing.T) {
	lead := leadAt(domain.StageInProgress)
	lead.Status = domain.StatusApplied
	lead.LeadScore = 72

	out, _, err := New().RequestTransition(lead, domain.StageNew, now)

	require.NoError(t, err)
	assert.Equal(t, domain.StageNew, out.Stage)
	assert.Equal(t, domain.StatusApplied, out.Status)
	assert.Equal(t, 72, out.LeadScore)
	assert.Equal(t, now, *out.LastUpdated)
	assert.Nil(t, lead.LastUpdated, "input must not be mutated")
}

func TestUnknownTarget(t *testing.T) {
	_, _, err := New().RequestTransition(leadAt(domain.StageNew), "archived", now)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestEmptyStageActsAsNew(t *testing.T) {
	out, _, err := New().RequestTransition(leadAt(""), domain.StageContacted, now)
	require.NoError(t, err)
	assert.Equal(t, domain.StageContacted, out.Stage)
}

func TestNextAndAllowedTargets(t *testing.T) {
	m := New()

	next, ok := m.Next(domain.StageInProgress)
	assert.True(t, ok)
	assert.Equal(t, domain.StageFollowedUp, next)

	_, ok = m.Next(domain.StageClosed)
	assert.False(t, ok)

	assert.Equal(t, []domain.Stage{domain.StageNew, domain.StageInProgress}, m.AllowedTargets(domain.StageContacted))
	assert.Equal(t,
		[]domain.Stage{domain.StageNew, domain.StageContacted, domain.StageInProgress, domain.StageFollowedUp},
		m.AllowedTargets(domain.StageClosed))
}
