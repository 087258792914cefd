package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the API's domain metrics.
type Metrics struct {
	// counters
	CounterReports     *prometheus.CounterVec
	CounterCacheMisses prometheus.Counter

	// gauges
	GaugeActivities prometheus.Gauge
}

// NewMetrics registers the API metrics on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CounterReports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "reports_total",
			Help:      "The total number of computed reports",
		}, []string{"status"}),
		CounterCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "activity_cache_misses_total",
			Help:      "The total number of activity loads from the store",
		}),
		GaugeActivities: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "activities_loaded",
			Help:      "Number of activities in the last loaded collection",
		}),
	}
}
