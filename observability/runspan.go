package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RunSpan pairs the run-level trace span with run metrics so callers start
// and finish both together. With no tracer or meter configured the span is
// a no-op and metric recording is skipped; StartRun is always safe to call.
type RunSpan struct {
	graphName string
	runID     string
	start     time.Time
	metrics   *Metrics
	span      trace.Span
}

// StartRun opens the run-level span and marks the run active.
// The returned context carries the span for child node spans.
func StartRun(ctx context.Context, graphName, runID string, metrics *Metrics) (context.Context, *RunSpan) {
	ctx, span := StartSpan(ctx, SpanRun)
	span.SetAttributes(
		attribute.String(AttrGraphName, graphName),
		attribute.String(AttrRunID, runID),
	)
	if metrics != nil {
		metrics.RecordRunStart(ctx)
	}
	return ctx, &RunSpan{
		graphName: graphName,
		runID:     runID,
		start:     time.Now(),
		metrics:   metrics,
		span:      span,
	}
}

// End closes the span and records the run outcome.
func (rs *RunSpan) End(ctx context.Context, status string, err error) {
	duration := time.Since(rs.start)

	if err != nil {
		rs.span.RecordError(err)
		rs.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	rs.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	rs.span.End()

	if rs.metrics != nil {
		rs.metrics.RecordRunEnd(ctx, rs.graphName, status, duration)
	}
}

// Duration returns the elapsed time since the run span opened.
func (rs *RunSpan) Duration() time.Duration {
	return time.Since(rs.start)
}

// Metrics returns the metrics handle the span was started with, or nil.
func (rs *RunSpan) Metrics() *Metrics {
	return rs.metrics
}
