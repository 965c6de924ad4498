// Package metrics exposes Prometheus collectors for chart runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exclusion reasons.
const (
	ReasonInvalidDistance = "invalid_distance"
	ReasonNonFinite       = "non_finite"
)

var (
	chartsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exosky_charts_total",
			Help: "Total number of chart builds.",
		},
		[]string{"kind", "pov", "result"},
	)

	chartDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exosky_chart_duration_seconds",
			Help:    "Chart build duration in seconds, including catalog load.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	recordsExcludedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exosky_records_excluded_total",
			Help: "Catalog records excluded from 3D placement.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(chartsTotal)
	prometheus.MustRegister(chartDurationSeconds)
	prometheus.MustRegister(recordsExcludedTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveChart records one chart build.
func ObserveChart(kind, pov string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	chartsTotal.WithLabelValues(kind, pov, result).Inc()
	chartDurationSeconds.WithLabelValues(kind).Observe(d.Seconds())
}

// AddExcluded counts records excluded for reason.
func AddExcluded(reason string, n int) {
	if n <= 0 {
		return
	}
	recordsExcludedTotal.WithLabelValues(reason).Add(float64(n))
}
