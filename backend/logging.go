package backend

import (
	"context"
	"time"

	"github.com/kbukum/agentflow/logger"
)

// WithLogging returns a Middleware that logs each Invoke call with run and
// node identity, tier, duration, and outcome.
func WithLogging(log *logger.Logger) Middleware {
	return func(inner Backend) Backend {
		return &loggingBackend{inner: inner, log: log}
	}
}

type loggingBackend struct {
	inner Backend
	log   *logger.Logger
}

func (l *loggingBackend) Name() string                         { return l.inner.Name() }
func (l *loggingBackend) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingBackend) Invoke(ctx context.Context, inv Invocation) (*Result, error) {
	start := time.Now()
	result, err := l.inner.Invoke(ctx, inv)
	duration := time.Since(start)

	fields := map[string]interface{}{
		logger.FieldBackend:  l.inner.Name(),
		logger.FieldRunID:    inv.RunID,
		logger.FieldNodeID:   inv.NodeID,
		logger.FieldTier:     string(inv.Tier),
		logger.FieldDuration: duration.Milliseconds(),
	}

	if err != nil {
		fields[logger.FieldError] = err.Error()
		l.log.Error("backend invoke failed", fields)
	} else {
		fields[logger.FieldTokens] = result.Usage.TotalTokens
		l.log.Debug("backend invoke ok", fields)
	}

	return result, err
}
