package runner

import (
	"context"

	"github.com/kbukum/agentflow/backend"
	"github.com/kbukum/agentflow/graph"
	"github.com/kbukum/agentflow/routing"
)

// Observer receives run lifecycle callbacks. Observers are the seam for
// collaborators such as artifact stores and progress displays. A panicking
// observer is logged and skipped; it never fails the run.
type Observer interface {
	// RunStarted fires once per run, before the first node.
	RunStarted(ctx context.Context, g *graph.Graph, runID string, input any)
	// NodeStarted fires before a node's backend invocation, with the
	// composed invocation and the routing decision it runs under.
	NodeStarted(ctx context.Context, runID string, inv backend.Invocation, decision routing.Decision)
	// NodeFinished fires after a node's invocation, success or failure.
	NodeFinished(ctx context.Context, runID string, result *NodeResult)
	// RunFinished fires once per run with the assembled result.
	RunFinished(ctx context.Context, result *Result)
}

// NopObserver ignores every callback. Embed it to implement only the
// callbacks you care about.
type NopObserver struct{}

func (NopObserver) RunStarted(context.Context, *graph.Graph, string, any) {}
func (NopObserver) NodeStarted(context.Context, string, backend.Invocation, routing.Decision) {
}
func (NopObserver) NodeFinished(context.Context, string, *NodeResult) {}
func (NopObserver) RunFinished(context.Context, *Result)              {}
