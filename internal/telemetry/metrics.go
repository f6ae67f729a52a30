package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobMetrics holds the Prometheus metrics for one pipeline run. The registry
// is private to the run and optionally pushed to a gateway on completion, the
// usual pattern for cron-style batch jobs.
type JobMetrics struct {
	RunsTotal        *prometheus.CounterVec
	RecordsProcessed prometheus.Gauge
	BlockedRequests  prometheus.Gauge
	RunDuration      prometheus.Gauge

	pusher *push.Pusher
}

func NewJobMetrics(gatewayURL string) *JobMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &JobMetrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "security_report",
			Name:      "runs_total",
			Help:      "Pipeline runs by terminal status.",
		}, []string{"status"}), // status: done, skipped, failed
		RecordsProcessed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "security_report",
			Name:      "records_processed",
			Help:      "Access log records aggregated in the last run.",
		}),
		BlockedRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "security_report",
			Name:      "blocked_requests",
			Help:      "Attack records counted in the last run.",
		}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "security_report",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the last run.",
		}),
	}

	if gatewayURL != "" {
		m.pusher = push.New(gatewayURL, "security_report").Gatherer(registry)
	}
	return m
}

// Push sends the collected metrics to the configured gateway. It is a no-op
// when no gateway was configured.
func (m *JobMetrics) Push() error {
	if m.pusher == nil {
		return nil
	}
	return m.pusher.Push()
}
