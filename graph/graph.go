package graph

import (
	"github.com/kbukum/agentflow/util"
)

// Graph is an ordered collection of nodes forming a dependency graph.
// Declaration order is the deterministic iteration order everywhere a
// tie must be broken. A Graph is read-only once built and safe to share
// across concurrent runs.
type Graph struct {
	// Name identifies the graph in results and logs.
	Name string
	// Nodes in declaration order.
	Nodes []Node
	// Entry optionally names the single entry point. Empty means entry
	// points are inferred (every node without dependencies).
	Entry string
	// ResultKeys optionally names the output keys that make up the final
	// result of a run. Empty falls back to the output of the last node
	// in execution order.
	ResultKeys []string
	// Metadata carries descriptive key/value pairs.
	Metadata map[string]string
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// OutputKeyOf returns the effective output key for a node: its declared
// key, or its id when no key is declared.
func (g *Graph) OutputKeyOf(n Node) string {
	return util.Coalesce(n.OutputKey, n.ID)
}

// IDs returns the node ids in declaration order.
func (g *Graph) IDs() []string {
	return util.Map(g.Nodes, func(n Node) string { return n.ID })
}
