package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	// Evaluation outcomes by category and boarding eligibility.
	EvaluationsTotal *prometheus.CounterVec

	// Latency of a full evaluation, rules only (no persistence).
	EvaluateLatency prometheus.Histogram

	// Ledger appends on the write path.
	RecordsAppended prometheus.Counter

	// Notification emissions that failed after a committed append.
	NotifyFailures prometheus.Counter
}

// New creates a Metrics instance with all verification metrics registered on
// the default registry.
func New() *Metrics {
	return &Metrics{
		EvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "boardcheck_evaluations_total",
			Help: "Total policy evaluations by passenger category and boarding eligibility",
		}, []string{"category", "can_board"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "boardcheck_evaluate_duration_seconds",
			Help:    "Duration of pure policy evaluation",
			Buckets: []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001},
		}),

		RecordsAppended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "boardcheck_ledger_appends_total",
			Help: "Total verification records appended to the ledger",
		}),

		NotifyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "boardcheck_notify_failures_total",
			Help: "Total notification emissions that failed after a committed append",
		}),
	}
}

// IncrementEvaluation records an evaluation outcome.
func (m *Metrics) IncrementEvaluation(category, canBoard string) {
	if m != nil {
		m.EvaluationsTotal.WithLabelValues(category, canBoard).Inc()
	}
}

// ObserveEvaluateLatency records the duration of a rule evaluation.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// IncrementRecordsAppended counts a successful ledger append.
func (m *Metrics) IncrementRecordsAppended() {
	if m != nil {
		m.RecordsAppended.Inc()
	}
}

// IncrementNotifyFailures counts a failed notification emission.
func (m *Metrics) IncrementNotifyFailures() {
	if m != nil {
		m.NotifyFailures.Inc()
	}
}
