package routing

import (
	"github.com/kbukum/agentflow/graph"
)

// Signals is the runtime context a caller supplies for a run. It feeds
// the heuristic rules; the zero value is a perfectly good default.
type Signals struct {
	// ItemCount is the declared number of items the run processes.
	ItemCount int `json:"item_count,omitempty"`
	// Complexity is the caller's difficulty estimate.
	Complexity Complexity `json:"complexity,omitempty"`
}

// Decision is the routing outcome for one node, produced immediately
// before invocation and recorded on the node's result.
type Decision struct {
	// Kind is the node's capability classification.
	Kind graph.Kind `json:"kind"`
	// Tier is the selected cost/capability profile.
	Tier Tier `json:"tier"`
	// Model is the tier's configured model name.
	Model string `json:"model"`
	// Rule names the policy rule that decided.
	Rule string `json:"rule"`
	// Reason is the human-readable justification.
	Reason string `json:"reason"`
	// EstimatedCost is the projected USD cost of the invocation, sized
	// from the task text and the configured default output tokens.
	EstimatedCost float64 `json:"estimated_cost"`
}

// Router selects a tier for each node from an injected Config and the
// built-in rule table. A Router is immutable and safe for concurrent
// use.
type Router struct {
	cfg    Config
	policy []rule
}

// New builds a Router. Unset config fields take the built-in defaults.
func New(cfg Config) *Router {
	cfg.ApplyDefaults()
	return &Router{cfg: cfg, policy: policy}
}

// Config returns a copy of the router's effective configuration.
func (r *Router) Config() Config {
	return r.cfg
}

// Route decides the tier for a node. It is total: some rule always
// matches, an unrecognized task simply falls through to the node kind's
// default tier.
func (r *Router) Route(node graph.Node, sig Signals) Decision {
	kind := node.Kind
	if kind == "" {
		kind = graph.KindGeneral
	}

	var (
		tier     Tier
		ruleName string
		reason   string
	)
	for _, rl := range r.policy {
		if t, why, ok := rl.match(node, sig, &r.cfg); ok {
			tier, ruleName, reason = t, rl.name, why
			break
		}
	}

	return Decision{
		Kind:          kind,
		Tier:          tier,
		Model:         r.cfg.Tiers[tier].Model,
		Rule:          ruleName,
		Reason:        reason,
		EstimatedCost: r.cfg.EstimateCost(tier, EstimateTokens(node.Task), r.cfg.DefaultOutputTokens),
	}
}

// EstimateCost prices a workload on a tier using the router's table.
func (r *Router) EstimateCost(tier Tier, inputTokens, outputTokens int) float64 {
	return r.cfg.EstimateCost(tier, inputTokens, outputTokens)
}

// Compare prices the same workload on two tiers using the router's
// table.
func (r *Router) Compare(a, b Tier, inputTokens, outputTokens int) Comparison {
	return r.cfg.Compare(a, b, inputTokens, outputTokens)
}
