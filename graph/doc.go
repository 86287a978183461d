// Package graph provides the dependency-graph model for delegated task
// execution and the scheduler that plans a run over it.
//
// A Graph is a plain, reusable value: an ordered collection of Nodes, each
// naming a task, a capability kind, its dependencies, and the context key
// its output lands under. Graphs carry no execution state; a single Graph
// may back any number of concurrent runs.
//
// ComputeOrder validates a graph (unique ids, resolvable dependencies,
// acyclicity, unique output keys) and produces a deterministic
// dependency-first execution order plus the set of nodes unreachable from
// the entry points.
//
// Graphs can be built in code or loaded from YAML specs via Load/LoadFile.
package graph
