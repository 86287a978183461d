package backend

import (
	"context"
	"time"

	apperrors "github.com/kbukum/agentflow/errors"
	"github.com/kbukum/agentflow/observability"
)

// WithTracing returns a Middleware that opens a child span per Invoke and
// records failures on it. Spans nest under the caller's node span through
// the context.
func WithTracing() Middleware {
	return func(inner Backend) Backend {
		return &tracingBackend{inner: inner}
	}
}

type tracingBackend struct {
	inner Backend
}

func (t *tracingBackend) Name() string                         { return t.inner.Name() }
func (t *tracingBackend) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingBackend) Invoke(ctx context.Context, inv Invocation) (*Result, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanBackend)
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrBackend, t.inner.Name())
	observability.SetSpanAttribute(ctx, observability.AttrRunID, inv.RunID)
	observability.SetSpanAttribute(ctx, observability.AttrNodeID, inv.NodeID)
	observability.SetSpanAttribute(ctx, observability.AttrKind, string(inv.Kind))
	observability.SetSpanAttribute(ctx, observability.AttrTier, string(inv.Tier))

	start := time.Now()
	result, err := t.inner.Invoke(ctx, inv)
	observability.SetSpanAttribute(ctx, observability.AttrDurationMs, time.Since(start).Milliseconds())
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return result, err
}

// WithMetrics returns a Middleware that counts invocation failures by error
// code and backend. Run and node instruments are recorded by the executor,
// which owns cost.
func WithMetrics(metrics *observability.Metrics) Middleware {
	return func(inner Backend) Backend {
		return &metricsBackend{inner: inner, metrics: metrics}
	}
}

type metricsBackend struct {
	inner   Backend
	metrics *observability.Metrics
}

func (m *metricsBackend) Name() string                         { return m.inner.Name() }
func (m *metricsBackend) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsBackend) Invoke(ctx context.Context, inv Invocation) (*Result, error) {
	result, err := m.inner.Invoke(ctx, inv)
	if err != nil && m.metrics != nil {
		errType := "unknown"
		if appErr, ok := apperrors.AsAppError(err); ok {
			errType = string(appErr.Code)
		}
		m.metrics.RecordError(ctx, errType, m.inner.Name())
	}
	return result, err
}
