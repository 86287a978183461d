// Package server exposes graph runs over HTTP using Gin.
//
// Run submission is synchronous: POST /v1/runs executes every node of the
// submitted graph before responding with the complete run result. Node
// failures are part of that result, not HTTP errors; only malformed
// requests and invalid graph definitions map to 4xx responses.
//
// # Endpoints
//
//   - POST /v1/runs: submit a graph and execute it
//   - GET /v1/runs/:id: fetch a persisted run result
//   - GET /v1/tiers: inspect the active routing table
//   - GET /healthz: service health including backend availability
//   - GET /version: build information
//
// # Middleware
//
// Panic recovery and request-ID middleware run inside the Gin engine.
// Request logging, body-size limits, and CORS wrap the engine at the
// http.Handler level (server/middleware). Run submission can additionally
// be rate limited per client ip.
package server
