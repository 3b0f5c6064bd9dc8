package events

import (
	"context"
	"testing"

	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetricsCountsEvents(t *testing.T) {
	bus := NewInMemoryBus(logger.Nop())
	m := metrics.New()
	RegisterMetrics(bus, m)
	ctx := context.Background()

	require.NoError(t, bus.PublishSync(ctx, LeadStageChanged{BaseEvent: NewBaseEvent(), LeadID: uuid.New(), From: "new", To: "contacted"}))
	require.NoError(t, bus.PublishSync(ctx, FollowUpScheduled{BaseEvent: NewBaseEvent(), Method: "email"}))
	require.NoError(t, bus.PublishSync(ctx, LeadCreated{BaseEvent: NewBaseEvent()}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageTransitions.WithLabelValues("new", "contacted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FollowUpEvents.WithLabelValues("scheduled", "email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LeadEvents.WithLabelValues("created")))
}
