package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// resampling pipeline.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec   // labels: kind={analyze,stability}, outcome={success,error}
	RunDuration     *prometheus.HistogramVec // labels: kind={analyze,stability}
	RecordsIn       prometheus.Counter
	ObservationsOut prometheus.Counter

	DuplicatesDropped *prometheus.CounterVec // labels: kind={month,day}
	StationsSampled   prometheus.Histogram
	MemoCache         *prometheus.CounterVec // labels: result={hit,miss}
	DatasetLoaded     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_metrics",
			Name:      "runs_total",
			Help:      "Completed pipeline runs by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rain_metrics",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete pipeline run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		RecordsIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rain_metrics",
			Name:      "records_in_total",
			Help:      "Wide station-month records fed into analysis runs.",
		}),
		ObservationsOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rain_metrics",
			Name:      "observations_total",
			Help:      "Valid daily observations produced by normalization.",
		}),
		DuplicatesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_metrics",
			Name:      "duplicates_dropped_total",
			Help:      "Rows dropped by deduplication, by kind (month or day).",
		}, []string{"kind"}),
		StationsSampled: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rain_metrics",
			Name:      "stations_sampled",
			Help:      "Stations selected per analysis run.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		}),
		MemoCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_metrics",
			Name:      "memo_cache_total",
			Help:      "Memoization cache lookups by result.",
		}, []string{"result"}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rain_metrics",
			Name:      "dataset_loaded",
			Help:      "1 when a dataset is loaded and the service can run analyses.",
		}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.RecordsIn,
		m.ObservationsOut,
		m.DuplicatesDropped,
		m.StationsSampled,
		m.MemoCache,
		m.DatasetLoaded,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_metrics", Name: "runs_total"}, []string{"kind", "outcome"}),
		RunDuration:       prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "rain_metrics", Name: "run_duration_seconds"}, []string{"kind"}),
		RecordsIn:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rain_metrics", Name: "records_in_total"}),
		ObservationsOut:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rain_metrics", Name: "observations_total"}),
		DuplicatesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_metrics", Name: "duplicates_dropped_total"}, []string{"kind"}),
		StationsSampled:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rain_metrics", Name: "stations_sampled"}),
		MemoCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_metrics", Name: "memo_cache_total"}, []string{"result"}),
		DatasetLoaded:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rain_metrics", Name: "dataset_loaded"}),
	}
}
