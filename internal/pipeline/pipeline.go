package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tommcrojo/security-log-analytics/internal/mailer"
	"github.com/tommcrojo/security-log-analytics/internal/report"
	"github.com/tommcrojo/security-log-analytics/internal/source"
	"github.com/tommcrojo/security-log-analytics/internal/telemetry"
)

// Status is the terminal state of a pipeline run.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

type state string

const (
	stateFetching    state = "fetching"
	stateAggregating state = "aggregating"
	stateDelivering  state = "delivering"
)

type Renderer interface {
	Render(m *report.Metrics) (string, error)
}

type Archiver interface {
	Store(ctx context.Context, windowStart time.Time, m *report.Metrics, document string) error
}

// Pipeline sequences one report run: window calculation, fetch, aggregation,
// rendering and delivery. It runs exactly once per invocation and holds no
// state across runs.
type Pipeline struct {
	source    source.Source
	renderer  Renderer
	sink      mailer.Sink
	archive   Archiver
	metrics   *telemetry.JobMetrics
	recipient string
	now       func() time.Time
	log       *logrus.Entry
}

func New(logger *logrus.Logger, src source.Source, renderer Renderer, sink mailer.Sink, recipient string) *Pipeline {
	return &Pipeline{
		source:    src,
		renderer:  renderer,
		sink:      sink,
		recipient: recipient,
		now:       time.Now,
		log:       logger.WithField("component", "pipeline"),
	}
}

// WithArchive enables report archival after rendering. Archive failures are
// warnings, never run failures.
func (p *Pipeline) WithArchive(a Archiver) *Pipeline {
	p.archive = a
	return p
}

func (p *Pipeline) WithTelemetry(m *telemetry.JobMetrics) *Pipeline {
	p.metrics = m
	return p
}

// WithClock overrides the wall clock, which otherwise determines both the
// reporting window and the generated-at stamp.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run executes one pipeline pass. Fetch and aggregation failures abort the
// run; delivery failures are downgraded to warnings because the metrics were
// already correctly computed by then.
func (p *Pipeline) Run(ctx context.Context) (Status, error) {
	started := time.Now()

	windowStart, windowEnd := report.PreviousMonth(p.now())
	period := report.PeriodLabel(windowStart)

	log := p.log.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"period": period,
	})
	log.Info("Starting pipeline run")

	log.WithField("state", stateFetching).Debug("Fetching records")
	records, err := p.source.Fetch(ctx, windowStart, windowEnd)
	if err != nil {
		return p.finish(log, started, StatusFailed, 0, 0), fmt.Errorf("fetch failed: %w", err)
	}
	if len(records) == 0 {
		log.Info("No records found for period")
		return p.finish(log, started, StatusSkipped, 0, 0), nil
	}

	log.WithField("state", stateAggregating).Debug("Aggregating records")
	m := report.Aggregate(records)
	if m == nil {
		log.Info("Aggregation produced no metrics")
		return p.finish(log, started, StatusSkipped, 0, 0), nil
	}
	m.ReportPeriod = period
	m.GeneratedAt = p.now()

	log.WithField("state", stateDelivering).Debug("Rendering and delivering report")
	document, err := p.renderer.Render(m)
	if err != nil {
		return p.finish(log, started, StatusFailed, m.Summary.TotalRequests, m.Summary.BlockedRequests),
			fmt.Errorf("render failed: %w", err)
	}

	if p.archive != nil {
		if err := p.archive.Store(ctx, windowStart, m, document); err != nil {
			log.WithError(err).Warn("Report archive failed")
		}
	}

	subject := "Security Report - " + period
	if err := p.sink.Send(ctx, document, p.recipient, subject); err != nil {
		log.WithError(err).Warn("Report delivery failed")
	}

	log.WithFields(logrus.Fields{
		"total_requests":   m.Summary.TotalRequests,
		"blocked_requests": m.Summary.BlockedRequests,
		"security_score":   m.Summary.SecurityScore,
	}).Info("Pipeline run completed")
	return p.finish(log, started, StatusDone, m.Summary.TotalRequests, m.Summary.BlockedRequests), nil
}

func (p *Pipeline) finish(log *logrus.Entry, started time.Time, status Status, total, blocked int) Status {
	if p.metrics != nil {
		p.metrics.RunsTotal.WithLabelValues(string(status)).Inc()
		p.metrics.RecordsProcessed.Set(float64(total))
		p.metrics.BlockedRequests.Set(float64(blocked))
		p.metrics.RunDuration.Set(time.Since(started).Seconds())
		if err := p.metrics.Push(); err != nil {
			log.WithError(err).Warn("Metrics push failed")
		}
	}
	return status
}
