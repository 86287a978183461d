// Package routing selects the cost/capability tier a node executes
// under, just before the node is delegated to its execution backend.
//
// The policy is an ordered rule table: an explicit override on the node
// always wins, then keyword families in the task text (exploration,
// deep reasoning, generation), then runtime signals (bulk item count,
// high complexity), and finally a per-kind default. Routing is total;
// there is no error path.
//
// Pricing lives in an injected Config rather than package globals, so
// tiers, models and rates are swappable per deployment. The package
// also exposes a pure cost estimator and a tier comparison used for
// reporting.
package routing
