package queue

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics captures dispatcher health signals.
type Metrics struct {
	jobs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	collapsed *prometheus.CounterVec
	backlog   prometheus.Gauge
}

// NewMetrics registers the queue collectors on registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_queue_jobs_total",
			Help: "Job attempts by job name and outcome.",
		}, []string{"job", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_queue_job_duration_seconds",
			Help:    "Duration of job attempts.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		collapsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_queue_jobs_collapsed_total",
			Help: "Dispatches dropped because an identical job was in flight.",
		}, []string{"job"}),
		backlog: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_queue_backlog",
			Help: "Jobs waiting for a worker.",
		}),
	}
	registerer.MustRegister(m.jobs, m.duration, m.collapsed, m.backlog)
	return m
}

func (m *Metrics) observeAttempt(job string, outcome Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(job, string(outcome)).Inc()
	m.duration.WithLabelValues(job).Observe(elapsed.Seconds())
}

func (m *Metrics) observeCollapsed(job string) {
	if m == nil {
		return
	}
	m.collapsed.WithLabelValues(job).Inc()
}

func (m *Metrics) setBacklog(n int) {
	if m == nil {
		return
	}
	m.backlog.Set(float64(n))
}
