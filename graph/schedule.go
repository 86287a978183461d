package graph

import (
	"fmt"

	"github.com/kbukum/agentflow/errors"
)

// Schedule is the outcome of planning a graph: a deterministic execution
// order plus the nodes that order never reaches.
type Schedule struct {
	// Order lists node ids in execution order. Every node in Order has
	// all of its dependencies earlier in the slice.
	Order []string
	// Unreachable lists, in declaration order, nodes that no entry point
	// reaches. They are skipped at run time.
	Unreachable []string
}

// Scheduling colors. White nodes are unscheduled, grey nodes are on the
// active dependency chain, black nodes are placed in the order.
const (
	white = iota
	grey
	black
)

// ComputeOrder validates the graph and plans its execution order.
//
// Validation happens before traversal: empty or duplicate node ids,
// unresolvable or self-referential dependencies, and duplicate output
// keys are each rejected with a definition error.
//
// Traversal starts from the entry points: the declared Entry node if
// set, otherwise every node without dependencies in declaration order.
// From each entry point it walks depth-first into dependent nodes,
// placing every node after its (recursively placed) dependencies. A
// node reached while already on the active dependency chain is a cycle
// and aborts planning; a node reached twice through converging paths is
// placed once, at its first visit. Nodes the walk never reaches are
// reported as Unreachable, in declaration order, and the caller decides
// whether that matters.
//
// The result is deterministic: the same graph always yields the same
// schedule. ComputeOrder never mutates the graph.
func ComputeOrder(g *Graph) (Schedule, error) {
	if len(g.Nodes) == 0 {
		return Schedule{}, nil
	}

	index := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return Schedule{}, errors.GraphInvalid("node with empty id")
		}
		if _, exists := index[n.ID]; exists {
			return Schedule{}, errors.DuplicateNode(n.ID)
		}
		index[n.ID] = n
	}

	for _, n := range g.Nodes {
		for _, dep := range n.DependsOn {
			if dep == n.ID {
				return Schedule{}, errors.GraphInvalid(fmt.Sprintf("node %q depends on itself", n.ID))
			}
			if _, ok := index[dep]; !ok {
				return Schedule{}, errors.MissingDependency(n.ID, dep)
			}
		}
	}

	keyOwner := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		key := g.OutputKeyOf(n)
		if first, taken := keyOwner[key]; taken {
			return Schedule{}, errors.DuplicateOutputKey(key, first, n.ID)
		}
		keyOwner[key] = n.ID
	}

	// Dependents of each node, in declaration order of the dependents.
	children := make(map[string][]string, len(g.Nodes))
	for _, n := range g.Nodes {
		for _, dep := range n.DependsOn {
			children[dep] = append(children[dep], n.ID)
		}
	}

	var entries []string
	if g.Entry != "" {
		if _, ok := index[g.Entry]; !ok {
			return Schedule{}, errors.UnknownEntry(g.Entry)
		}
		entries = []string{g.Entry}
	} else {
		for _, n := range g.Nodes {
			if len(n.DependsOn) == 0 {
				entries = append(entries, n.ID)
			}
		}
	}
	// Every node having dependencies means at least one cycle exists.
	// Start the walk anyway so the cycle path surfaces in the error.
	if len(entries) == 0 {
		entries = []string{g.Nodes[0].ID}
	}

	color := make(map[string]int, len(g.Nodes))
	order := make([]string, 0, len(g.Nodes))
	var chain []string

	// place appends id to the order after placing its dependencies.
	// The grey marker spans only this dependency recursion, so a node
	// reached again through a converging path is black, not a cycle.
	var place func(id string) error
	place = func(id string) error {
		switch color[id] {
		case black:
			return nil
		case grey:
			return errors.CycleDetected(cyclePath(chain, id))
		}
		color[id] = grey
		chain = append(chain, id)
		for _, dep := range index[id].DependsOn {
			if err := place(dep); err != nil {
				return err
			}
		}
		chain = chain[:len(chain)-1]
		color[id] = black
		order = append(order, id)
		return nil
	}

	// visit places a node and then walks into its dependents, so a
	// declared entry carries its downstream nodes into the schedule.
	expanded := make(map[string]bool, len(g.Nodes))
	var visit func(id string) error
	visit = func(id string) error {
		if expanded[id] {
			return nil
		}
		expanded[id] = true
		if err := place(id); err != nil {
			return err
		}
		for _, child := range children[id] {
			if err := visit(child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, entry := range entries {
		if err := visit(entry); err != nil {
			return Schedule{}, err
		}
	}

	var unreachable []string
	for _, n := range g.Nodes {
		if color[n.ID] != black {
			unreachable = append(unreachable, n.ID)
		}
	}

	return Schedule{Order: order, Unreachable: unreachable}, nil
}

// cyclePath extracts the cycle from the dependency chain: the segment
// from the first occurrence of id to the end, closed by id itself.
func cyclePath(chain []string, id string) []string {
	for i, p := range chain {
		if p == id {
			cycle := make([]string, 0, len(chain)-i+1)
			cycle = append(cycle, chain[i:]...)
			return append(cycle, id)
		}
	}
	return []string{id, id}
}
