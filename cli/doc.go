// Package cli implements the agentflow command line: run executes a
// graph definition against a backend, serve exposes the same execution
// over HTTP, tiers prints the routing table, and version reports build
// information. Commands share a --config flag; flags override the loaded
// configuration.
package cli
