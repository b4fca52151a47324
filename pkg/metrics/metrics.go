package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	EventsTotal *prometheus.CounterVec
	QueueDepth  prometheus.Gauge

	AuditsTotal   *prometheus.CounterVec
	AuditIssues   *prometheus.CounterVec
	AuditDuration prometheus.Histogram
}

// New registers every collector on reg. Pass prometheus.DefaultRegisterer to
// expose them through promhttp.Handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		EventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_events_total",
				Help: "Tracking calls by kind and outcome.",
			},
			[]string{"kind", "outcome"}, // outcome: queued, dropped, failed
		),
		QueueDepth: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "analytics_queue_depth",
				Help: "Commands waiting in the dataLayer for the collector.",
			},
		),
		AuditsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_audits_total",
				Help: "Total number of content validation runs.",
			},
			[]string{"status"}, // status: ok, recovered
		),
		AuditIssues: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_audit_issues_total",
				Help: "Validation issues reported, by severity and category.",
			},
			[]string{"type", "category"},
		),
		AuditDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "content_audit_duration_seconds",
				Help:    "Duration of content validation runs.",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
			},
		),
	}
}

// IncEvent counts one tracking call. Safe on a nil receiver.
func (m *Metrics) IncEvent(kind, outcome string) {
	if m == nil {
		return
	}
	m.EventsTotal.WithLabelValues(kind, outcome).Inc()
}

// SetQueueDepth records the current dataLayer backlog. Safe on a nil receiver.
func (m *Metrics) SetQueueDepth(n int64) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}
