package backend

import (
	"context"
	"fmt"

	apperrors "github.com/kbukum/agentflow/errors"
)

// WithRecovery returns a Middleware that converts a backend panic into an
// error, so a misbehaving backend fails its node instead of the process.
func WithRecovery() Middleware {
	return func(inner Backend) Backend {
		return &recoveryBackend{inner: inner}
	}
}

type recoveryBackend struct {
	inner Backend
}

func (r *recoveryBackend) Name() string                         { return r.inner.Name() }
func (r *recoveryBackend) IsAvailable(ctx context.Context) bool { return r.inner.IsAvailable(ctx) }

func (r *recoveryBackend) Invoke(ctx context.Context, inv Invocation) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = apperrors.Internal(fmt.Errorf("backend %s panicked on node %s: %v", r.inner.Name(), inv.NodeID, rec))
		}
	}()
	return r.inner.Invoke(ctx, inv)
}
