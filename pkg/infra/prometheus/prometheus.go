package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	checkLabels = []string{"direction", "level", "action"}

	latencyBuckets = []float64{
		1, 2.5, 5, // pattern matching
		10, 25, 50, // registry contention
		100, 250, 500, // remote classifier
		1000, 2500, 5000, // remote classifier under stress
	}

	GuardrailChecksTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_guardrail_checks_total",
			Help: "Guardrail checks by direction, risk level and action",
		},
		checkLabels,
	)

	GuardrailCheckLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_guardrail_check_latency_ms",
			Help:    "Guardrail check latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"direction"},
	)

	BlockedShortCircuitsTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_blocked_short_circuits_total",
			Help: "Requests rejected for already-blocked users without classification",
		},
	)

	ClassifierFailuresTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_classifier_failures_total",
			Help: "Classifier errors degraded to the Medium-risk fallback",
		},
	)

	AlertsDroppedTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_alerts_dropped_total",
			Help: "Escalation alerts dropped because the notifier queue was full",
		},
	)

	AlertDeliveryFailuresTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_alert_delivery_failures_total",
			Help: "Escalation alerts a sink failed to deliver",
		},
		[]string{"sink"},
	)

	IncidentArchiveFailuresTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_incident_archive_failures_total",
			Help: "Incidents the archive repository failed to persist",
		},
	)
)

// Handler exposes the sentinel registry for the metrics server.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
