package graph

import "fmt"

// Kind classifies what capability a node's task calls for. The tier router
// uses it to pick a default execution tier when no heuristic matches.
type Kind string

const (
	// KindExplore enumerates or inspects existing material (scan, list, count).
	KindExplore Kind = "explore"
	// KindPlan produces a course of action from gathered context.
	KindPlan Kind = "plan"
	// KindAnalyze performs deep reasoning over structure or behavior.
	KindAnalyze Kind = "analyze"
	// KindGenerate produces new content or code.
	KindGenerate Kind = "generate"
	// KindVerify checks produced output against expectations.
	KindVerify Kind = "verify"
	// KindGeneral is the fallback classification.
	KindGeneral Kind = "general"
)

// Kinds returns all valid kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindExplore, KindPlan, KindAnalyze, KindGenerate, KindVerify, KindGeneral}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindExplore, KindPlan, KindAnalyze, KindGenerate, KindVerify, KindGeneral:
		return true
	}
	return false
}

// ParseKind parses a kind string. The empty string maps to KindGeneral.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindGeneral, nil
	}
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("graph: unknown kind %q", s)
	}
	return k, nil
}

// Node is a single work item in a graph. Nodes are plain values and are
// never mutated after the graph is assembled.
type Node struct {
	// ID uniquely identifies the node within its graph.
	ID string
	// Kind classifies the capability the task calls for.
	Kind Kind
	// Task is the free-form description handed to the execution backend.
	Task string
	// DependsOn lists ids of nodes whose outputs this node consumes,
	// in declaration order.
	DependsOn []string
	// Tier optionally pins the execution tier, bypassing all routing
	// heuristics. Empty means route by heuristics.
	Tier string
	// OutputKey names the context key this node's output is stored under.
	// Empty defaults to the node id.
	OutputKey string
	// Metadata carries descriptive key/value pairs. It never influences
	// scheduling.
	Metadata map[string]string
}
