package routing

import (
	"fmt"
	"strings"

	"github.com/kbukum/agentflow/graph"
)

// Keyword families inspected in the task text. Matching is a
// case-insensitive substring test.
var (
	explorationKeywords = []string{"scan", "explore", "find", "identify", "count", "list"}
	reasoningKeywords   = []string{"analyze", "understand", "architecture", "design", "pattern"}
	generationKeywords  = []string{"generate", "create", "write", "compile"}
)

// rule is one row of the routing policy. match reports whether the rule
// applies and, if so, the tier it selects and the justification.
type rule struct {
	name  string
	match func(node graph.Node, sig Signals, cfg *Config) (Tier, string, bool)
}

// policy is the rule table, highest priority first. The first matching
// rule decides; the final kind-default rule always matches, which is
// what makes Route total.
var policy = []rule{
	{name: "override", match: matchOverride},
	{name: "exploration", match: matchExploration},
	{name: "deep-reasoning", match: matchReasoning},
	{name: "generation", match: matchGeneration},
	{name: "bulk-items", match: matchBulkItems},
	{name: "high-complexity", match: matchHighComplexity},
	{name: "kind-default", match: matchKindDefault},
}

// matchOverride honors an explicit tier on the node. No heuristic runs
// when an override is present. An override naming an unknown tier is
// ignored here; spec loading already rejects it for declarative graphs.
func matchOverride(node graph.Node, _ Signals, _ *Config) (Tier, string, bool) {
	if node.Tier == "" {
		return "", "", false
	}
	tier, err := ParseTier(node.Tier)
	if err != nil {
		return "", "", false
	}
	return tier, "explicit tier override", true
}

func matchExploration(node graph.Node, _ Signals, _ *Config) (Tier, string, bool) {
	kw, ok := containsKeyword(node.Task, explorationKeywords)
	if !ok {
		return "", "", false
	}
	return TierLite, fmt.Sprintf("exploration keyword %q favors the low-cost tier", kw), true
}

func matchReasoning(node graph.Node, _ Signals, _ *Config) (Tier, string, bool) {
	kw, ok := containsKeyword(node.Task, reasoningKeywords)
	if !ok {
		return "", "", false
	}
	return TierPremium, fmt.Sprintf("deep-reasoning keyword %q needs the high-capability tier", kw), true
}

func matchGeneration(node graph.Node, _ Signals, _ *Config) (Tier, string, bool) {
	kw, ok := containsKeyword(node.Task, generationKeywords)
	if !ok {
		return "", "", false
	}
	return TierPremium, fmt.Sprintf("generation keyword %q needs the high-capability tier", kw), true
}

func matchBulkItems(_ graph.Node, sig Signals, cfg *Config) (Tier, string, bool) {
	if sig.ItemCount <= cfg.BulkItemThreshold {
		return "", "", false
	}
	return TierLite, fmt.Sprintf("%d items exceed the bulk threshold of %d, low-cost tier for throughput", sig.ItemCount, cfg.BulkItemThreshold), true
}

func matchHighComplexity(_ graph.Node, sig Signals, _ *Config) (Tier, string, bool) {
	if sig.Complexity != ComplexityHigh {
		return "", "", false
	}
	return TierPremium, "high complexity signal needs the high-capability tier", true
}

func matchKindDefault(node graph.Node, _ Signals, cfg *Config) (Tier, string, bool) {
	kind := node.Kind
	if kind == "" {
		kind = graph.KindGeneral
	}
	tier, ok := cfg.KindDefaults[kind]
	if !ok {
		tier = TierStandard
	}
	return tier, fmt.Sprintf("default tier for %s tasks", kind), true
}

// containsKeyword returns the first keyword found in the task text.
func containsKeyword(task string, keywords []string) (string, bool) {
	lower := strings.ToLower(task)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}
