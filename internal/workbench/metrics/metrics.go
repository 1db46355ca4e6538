package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	buildDuration        prometheus.Histogram
	unresolvableMappings prometheus.Counter
	propagations         prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		buildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "provenio_workbench_build_duration_seconds",
			Help:    "Time taken to build the workbench view for an entity",
			Buckets: prometheus.DefBuckets,
		}),
		unresolvableMappings: promauto.NewCounter(prometheus.CounterOpts{
			Name: "provenio_workbench_unresolvable_mappings_total",
			Help: "Question mappings that reference no known field or group",
		}),
		propagations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "provenio_workbench_propagations_total",
			Help: "Master values copied into questionnaire answers",
		}),
	}
}

func (m *Metrics) ObserveBuild(d time.Duration) {
	m.buildDuration.Observe(d.Seconds())
}

func (m *Metrics) IncrementUnresolvableMappings() {
	m.unresolvableMappings.Inc()
}

func (m *Metrics) IncrementPropagations() {
	m.propagations.Inc()
}
