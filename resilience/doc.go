// Package resilience provides patterns for fault-tolerant calls to
// execution backends.
//
// This package includes:
//   - CircuitBreaker: Prevents hammering an unhealthy backend by failing fast
//   - Retry: Retries failed operations with exponential backoff
//
// The LLM client retries transient HTTP failures; the process runner wraps
// subprocess launches in a circuit breaker so a persistently broken binary
// stops a run quickly instead of timing out node after node:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("subprocess"))
//	err := cb.Execute(func() error {
//	    return launch(ctx, cmd)
//	})
package resilience
