// Package errors provides unified error handling for the scheduler and its
// surfaces. It implements structured error types with error codes, HTTP status
// mapping, and retryable detection following RFC 7807 and Google AIP-193.
//
// Errors fall into families: graph definition errors are fatal and detected
// before any node executes; node execution errors are recorded against the
// failing node and halt the run; backend and configuration errors cover the
// surrounding machinery. Tier routing deliberately has no error family, the
// router always produces a decision.
package errors
