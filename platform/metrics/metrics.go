// Package metrics exposes Prometheus collectors for HTTP traffic and the
// lead/follow-up lifecycle.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "visa_leads"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	LeadEvents       *prometheus.CounterVec
	StageTransitions *prometheus.CounterVec
	FollowUpEvents   *prometheus.CounterVec
	ReminderJobs     *prometheus.CounterVec
}

// New creates and registers every collector, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		LeadEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lead_events_total",
				Help:      "Lead lifecycle events by type",
			},
			[]string{"event"},
		),
		StageTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lead_stage_transitions_total",
				Help:      "Pipeline stage changes by source and target stage",
			},
			[]string{"from", "to"},
		),
		FollowUpEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "follow_up_events_total",
				Help:      "Follow-up scheduling and status changes",
			},
			[]string{"event", "value"},
		),
		ReminderJobs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "follow_up_reminders_total",
				Help:      "Follow-up reminder jobs by outcome",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.LeadEvents,
		m.StageTransitions,
		m.FollowUpEvents,
		m.ReminderJobs,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latencies. The route template is used
// as the path label so IDs do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveLeadEvent counts a lead lifecycle event such as "created" or "deleted".
func (m *Metrics) ObserveLeadEvent(event string) {
	m.LeadEvents.WithLabelValues(event).Inc()
}

// ObserveStageTransition counts a committed stage change.
func (m *Metrics) ObserveStageTransition(from, to string) {
	m.StageTransitions.WithLabelValues(from, to).Inc()
}

// ObserveFollowUpEvent counts a follow-up event, labelled by method or status.
func (m *Metrics) ObserveFollowUpEvent(event, value string) {
	m.FollowUpEvents.WithLabelValues(event, value).Inc()
}

// ObserveReminder counts a reminder job outcome ("sent", "skipped", "failed").
func (m *Metrics) ObserveReminder(outcome string) {
	m.ReminderJobs.WithLabelValues(outcome).Inc()
}
