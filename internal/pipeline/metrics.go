package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	recomputes *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	stages     *prometheus.GaugeVec
	skipped    *prometheus.CounterVec
	exports    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recomputes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "look",
				Subsystem: "pipeline",
				Name:      "recomputes_total",
				Help:      "Total number of pipeline recomputes",
			},
			[]string{"pipeline"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "look",
				Subsystem: "pipeline",
				Name:      "recompute_duration_seconds",
				Help:      "Duration of pipeline recomputes in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pipeline"},
		),
		stages: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "look",
				Subsystem: "pipeline",
				Name:      "stages",
				Help:      "Number of operators in the pipeline",
			},
			[]string{"pipeline"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "look",
				Subsystem: "pipeline",
				Name:      "identity_stages_skipped_total",
				Help:      "Total number of stages skipped because they were identities",
			},
			[]string{"pipeline"},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "look",
				Subsystem: "pipeline",
				Name:      "lut_exports_total",
				Help:      "Total number of LUT exports",
			},
			[]string{"pipeline", "result"},
		),
	}
	reg.MustRegister(m.recomputes, m.duration, m.stages, m.skipped, m.exports)
	return m
}

func (m *Metrics) observeRecompute(pipeline string, seconds float64, skipped int) {
	if m == nil {
		return
	}
	m.recomputes.WithLabelValues(pipeline).Inc()
	m.duration.WithLabelValues(pipeline).Observe(seconds)
	m.skipped.WithLabelValues(pipeline).Add(float64(skipped))
}

func (m *Metrics) setStages(pipeline string, n int) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(pipeline).Set(float64(n))
}

func (m *Metrics) observeExport(pipeline string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.exports.WithLabelValues(pipeline, result).Inc()
}
