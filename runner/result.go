package runner

import (
	"fmt"
	"time"

	"github.com/kbukum/agentflow/backend"
	"github.com/kbukum/agentflow/routing"
)

// RunState tracks a run through its lifecycle.
type RunState string

const (
	// RunPending means the run has been created but not started.
	RunPending RunState = "pending"
	// RunRunning means nodes are executing.
	RunRunning RunState = "running"
	// RunSucceeded means every scheduled node completed.
	RunSucceeded RunState = "succeeded"
	// RunFailed means a node failed and the run halted.
	RunFailed RunState = "failed"
)

// validTransitions is the run lifecycle. Terminal states have no successors.
var validTransitions = map[RunState][]RunState{
	RunPending: {RunRunning},
	RunRunning: {RunSucceeded, RunFailed},
}

// transition advances a run state. An invalid move is a programming error
// in the runner itself, not a runtime condition, so it panics.
func transition(from, to RunState) RunState {
	for _, next := range validTransitions[from] {
		if next == to {
			return to
		}
	}
	panic(fmt.Sprintf("runner: invalid state transition %s -> %s", from, to))
}

// NodeResult records the outcome of one node invocation. It is immutable
// once recorded.
type NodeResult struct {
	// NodeID identifies the node.
	NodeID string `json:"node_id"`
	// Success reports whether the delegated invocation succeeded.
	Success bool `json:"success"`
	// Output is the backend's output value on success.
	Output any `json:"output,omitempty"`
	// Err is the failure message on failure.
	Err string `json:"error,omitempty"`
	// Routing is the decision the node ran under.
	Routing routing.Decision `json:"routing"`
	// Usage is the token usage the backend reported.
	Usage backend.Usage `json:"usage"`
	// Cost is the reported usage priced on the routed tier, in USD. The
	// pre-invocation estimate lives inside Routing.
	Cost float64 `json:"cost_usd"`
	// StartedAt and FinishedAt bracket the invocation.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Duration is FinishedAt minus StartedAt.
	Duration time.Duration `json:"duration"`
}

// Metrics aggregates a run's execution numbers.
type Metrics struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
	// TotalCost sums the priced usage of every invoked node, in USD.
	TotalCost float64 `json:"total_cost_usd"`
	// TotalTokens sums the token usage of every invoked node.
	TotalTokens int `json:"total_tokens"`
	// NodeCount is the number of scheduled nodes. After a failure the
	// remaining scheduled nodes are never attempted, so NodeCount can
	// exceed Succeeded plus Failed.
	NodeCount int `json:"node_count"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Result is the outcome of a run. Execution failures are reported inside
// a complete Result; only graph definition errors prevent one.
type Result struct {
	// RunID is the unique id assigned to this run.
	RunID string `json:"run_id"`
	// GraphName names the executed graph.
	GraphName string `json:"graph"`
	// State is the terminal run state.
	State RunState `json:"state"`
	// Success reports whether every scheduled node completed.
	Success bool `json:"success"`
	// Output is the final output: the declared result keys as present in
	// the state at run end, or the last ordered node's output value.
	Output any `json:"output,omitempty"`
	// NodeResults holds the outcome of every attempted node, by node id.
	NodeResults map[string]*NodeResult `json:"node_results"`
	// Unreachable lists nodes the schedule never reaches, in declaration
	// order.
	Unreachable []string `json:"unreachable,omitempty"`
	// Metrics aggregates timings, cost, and counts.
	Metrics Metrics `json:"metrics"`
}

// Failure returns the failed node's result. The runner halts on the first
// failure, so at most one node result carries one.
func (r *Result) Failure() (*NodeResult, bool) {
	for _, nr := range r.NodeResults {
		if !nr.Success {
			return nr, true
		}
	}
	return nil, false
}
