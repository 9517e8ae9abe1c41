package purge

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports purge counters to Prometheus. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	checkedTotal prometheus.Counter
	matchedTotal prometheus.Counter
	deletedTotal *prometheus.CounterVec
	failedTotal  *prometheus.CounterVec
	inFlight     prometheus.Gauge
}

// InitPrometheusMetrics creates and registers purge metrics on reg.
// A nil reg means prometheus.DefaultRegisterer.
func InitPrometheusMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "purge_runs_total",
				Help:      "Total number of purge runs by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "purge_run_duration_seconds",
				Help:      "Wall time of purge runs",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
			},
			[]string{"outcome"},
		),
		checkedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "purge_messages_checked_total",
				Help:      "Messages visited while scanning history",
			},
		),
		matchedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "purge_messages_matched_total",
				Help:      "Messages selected for deletion",
			},
		),
		deletedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "purge_messages_deleted_total",
				Help:      "Messages deleted by deletion mode",
			},
			[]string{"mode"},
		),
		failedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "purge_messages_failed_total",
				Help:      "Messages that could not be deleted by deletion mode",
			},
			[]string{"mode"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "purge_runs_in_flight",
				Help:      "Purge runs currently executing",
			},
		),
	}

	reg.MustRegister(
		m.runsTotal,
		m.runDuration,
		m.checkedTotal,
		m.matchedTotal,
		m.deletedTotal,
		m.failedTotal,
		m.inFlight,
	)

	return m
}

func (m *Metrics) RecordRun(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *Metrics) RecordScan(stats ScanStats) {
	if m == nil {
		return
	}
	m.checkedTotal.Add(float64(stats.Checked))
	m.matchedTotal.Add(float64(stats.Matched))
}

func (m *Metrics) RecordDeletion(mode AgeBucket, deleted, failed int) {
	if m == nil {
		return
	}
	m.deletedTotal.WithLabelValues(mode.String()).Add(float64(deleted))
	m.failedTotal.WithLabelValues(mode.String()).Add(float64(failed))
}

func (m *Metrics) runStarted() {
	if m != nil {
		m.inFlight.Inc()
	}
}

func (m *Metrics) runFinished() {
	if m != nil {
		m.inFlight.Dec()
	}
}
