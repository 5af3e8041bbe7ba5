package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// SynapseMetrics records limit evaluations and workflow executions.
type SynapseMetrics struct {
	limitChecks *prometheus.CounterVec
	executions  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewSynapseMetrics registers the collectors on reg. A nil registerer yields a no-op recorder.
func NewSynapseMetrics(reg prometheus.Registerer) *SynapseMetrics {
	if reg == nil {
		return &SynapseMetrics{}
	}
	limitChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "usage_limit_checks_total",
		Help: "Usage limit evaluations by feature and outcome.",
	}, []string{"feature", "outcome"})
	executions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_executions_total",
		Help: "Workflow executions by type and outcome.",
	}, []string{"type", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workflow_execution_duration_seconds",
		Help:    "Duration of workflow dispatch in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	reg.MustRegister(limitChecks, executions, duration)
	return &SynapseMetrics{
		limitChecks: limitChecks,
		executions:  executions,
		duration:    duration,
	}
}

// ObserveLimitCheck counts one evaluation.
func (m *SynapseMetrics) ObserveLimitCheck(feature string, allowed bool) {
	if m == nil || m.limitChecks == nil {
		return
	}
	outcome := OutcomeDenied
	if allowed {
		outcome = OutcomeAllowed
	}
	m.limitChecks.WithLabelValues(normalizeLabel(feature), outcome).Inc()
}

// ObserveExecution counts one dispatch and records its duration.
func (m *SynapseMetrics) ObserveExecution(workflowType string, elapsed time.Duration, err error) {
	if m == nil || m.executions == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	label := normalizeLabel(workflowType)
	m.executions.WithLabelValues(label, outcome).Inc()
	m.duration.WithLabelValues(label).Observe(elapsed.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
