package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the allergy check pipeline.
type Metrics struct {
	ChecksTotal *prometheus.CounterVec // labels: outcome={ok,region_miss,invalid_input,pollen_data_error,llm_error}

	// Outbound call instrumentation.
	ExternalCallDuration *prometheus.HistogramVec // labels: target={pollen_api,llm}

	// Stage-local recoveries that substituted a fallback value.
	FallbacksTotal *prometheus.CounterVec // labels: stage={impute,chart}
}

// NewMetrics creates the pipeline metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pollen_advisor",
			Name:      "checks_total",
			Help:      "Allergy check requests by outcome.",
		}, []string{"outcome"}),
		ExternalCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pollen_advisor",
			Name:      "external_call_duration_seconds",
			Help:      "Duration of outbound provider calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"target"}),
		FallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pollen_advisor",
			Name:      "fallbacks_total",
			Help:      "Stages that substituted their fallback value after a parse or provider failure.",
		}, []string{"stage"}),
	}

	reg.MustRegister(m.ChecksTotal, m.ExternalCallDuration, m.FallbacksTotal)
	return m
}
