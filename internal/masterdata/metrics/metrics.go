package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	IntegrityViolationsTotal prometheus.Counter
	ManualOverridesTotal     prometheus.Counter
	CandidateIngestsTotal    *prometheus.CounterVec
	FieldLoadDuration        prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		IntegrityViolationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "provenio_masterdata_integrity_violations_total",
			Help: "Populated canonical attributes found without a matching meta entry; indicates an upstream write bypassed validation",
		}),
		ManualOverridesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "provenio_masterdata_manual_overrides_total",
			Help: "Total number of manual overrides applied to canonical fields",
		}),
		CandidateIngestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "provenio_masterdata_candidate_ingests_total",
			Help: "Total number of external candidate values written to canonical fields",
		}, []string{"source"}),
		FieldLoadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "provenio_masterdata_field_load_duration_seconds",
			Help:    "Latency of single canonical field loads",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

func (m *Metrics) IncrementIntegrityViolations() {
	m.IntegrityViolationsTotal.Inc()
}

func (m *Metrics) IncrementManualOverrides() {
	m.ManualOverridesTotal.Inc()
}

func (m *Metrics) IncrementCandidateIngests(source string) {
	m.CandidateIngestsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveFieldLoad(d time.Duration) {
	m.FieldLoadDuration.Observe(d.Seconds())
}
