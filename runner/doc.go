// Package runner executes dependency graphs against an execution backend.
//
// A Runner plans the graph once (graph.ComputeOrder), then walks the order
// strictly one node at a time: route the node to a tier, gather the output
// values of its dependencies, compose a backend.Invocation, and block on
// the delegated call. The first failure halts the run; completed work is
// kept and reported. Execution failures are part of the returned Result,
// not an error return; only graph definition errors abort before running.
//
// Observers (artifact stores, progress displays) hook the run lifecycle
// without the core depending on them.
package runner
