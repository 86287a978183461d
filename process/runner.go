package process

import (
	"context"

	"github.com/kbukum/agentflow/resilience"
)

// RunnerConfig configures resilience for repeated worker execution.
// Nil fields disable the corresponding layer.
type RunnerConfig struct {
	Retry          *resilience.RetryConfig
	CircuitBreaker *resilience.CircuitBreakerConfig
}

// Runner wraps Run with persistent resilience state.
// Create one with NewRunner and call Run repeatedly. The circuit breaker
// state survives across calls, so repeated crashes trip the breaker.
type Runner struct {
	retry   *resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewRunner creates a Runner with the given resilience config.
// A zero config means Run calls process.Run directly.
func NewRunner(cfg RunnerConfig) *Runner {
	r := &Runner{}
	if cfg.Retry != nil {
		rc := *cfg.Retry
		r.retry = &rc
	}
	if cfg.CircuitBreaker != nil {
		r.breaker = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	return r
}

// Run executes a worker process through the configured resilience layers.
// The breaker is outermost: when it is open the process is never started
// and resilience.ErrCircuitOpen is returned.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	run := func() (*Result, error) {
		return Run(ctx, cmd)
	}
	if r.retry != nil {
		inner := run
		run = func() (*Result, error) {
			return resilience.Retry(ctx, *r.retry, inner)
		}
	}
	if r.breaker == nil {
		return run()
	}

	var result *Result
	err := r.breaker.Execute(func() error {
		var runErr error
		result, runErr = run()
		return runErr
	})
	return result, err
}

// BreakerState reports the circuit breaker state, or resilience.StateClosed
// when no breaker is configured.
func (r *Runner) BreakerState() resilience.State {
	if r.breaker == nil {
		return resilience.StateClosed
	}
	return r.breaker.State()
}
