package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the moderation domain's Prometheus metrics.
type Metrics struct {
	Decisions             *prometheus.CounterVec
	BulkItems             prometheus.Histogram
	LedgerInconsistencies prometheus.Counter
}

// New creates and registers the moderation metrics.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "marketmod_moderation_decisions_total",
			Help: "Moderation decisions by action kind and outcome.",
		}, []string{"kind", "outcome"}),
		BulkItems: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketmod_moderation_bulk_items",
			Help:    "Number of items per bulk moderation request.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		LedgerInconsistencies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "marketmod_moderation_ledger_inconsistencies_total",
			Help: "Decisions whose action row was written but the audit row was not.",
		}),
	}
}

// IncrementDecision records one finished decision. Nil-safe.
func (m *Metrics) IncrementDecision(kind, outcome string) {
	if m != nil {
		m.Decisions.WithLabelValues(kind, outcome).Inc()
	}
}

// ObserveBulkSize records the size of a bulk request. Nil-safe.
func (m *Metrics) ObserveBulkSize(n int) {
	if m != nil {
		m.BulkItems.Observe(float64(n))
	}
}

// IncrementLedgerInconsistency records an action-without-audit window. Nil-safe.
func (m *Metrics) IncrementLedgerInconsistency() {
	if m != nil {
		m.LedgerInconsistencies.Inc()
	}
}
