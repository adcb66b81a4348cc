// Package metrics exposes Prometheus instrumentation for the workflow engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_sessions_total",
			Help: "Total pipeline sessions by outcome",
		},
		[]string{"outcome"},
	)

	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courier_stage_duration_seconds",
			Help:    "Pipeline stage execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	stageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_stage_failures_total",
			Help: "Total failed pipeline stage executions",
		},
		[]string{"stage"},
	)

	feedbackEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_feedback_events_total",
			Help: "Total reviewer feedback events by action and whether a transition applied",
		},
		[]string{"action", "applied"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "courier_active_sessions",
			Help: "Sessions currently in processing status",
		},
	)
)

// Session outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeNoAction  = "no_action"
	OutcomeDuplicate = "duplicate"
)

// RecordSession counts a finished (or short-circuited) pipeline session.
func RecordSession(outcome string) {
	sessionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveStage records one stage execution.
func ObserveStage(stage string, duration time.Duration, success bool) {
	stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if !success {
		stageFailures.WithLabelValues(stage).Inc()
	}
}

// RecordFeedback counts a reviewer feedback event.
func RecordFeedback(action string, applied bool) {
	label := "false"
	if applied {
		label = "true"
	}
	feedbackEvents.WithLabelValues(action, label).Inc()
}

// SetActiveSessions sets the processing-session gauge.
func SetActiveSessions(count int) {
	activeSessions.Set(float64(count))
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
