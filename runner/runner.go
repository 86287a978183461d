package runner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/agentflow/backend"
	"github.com/kbukum/agentflow/graph"
	"github.com/kbukum/agentflow/logger"
	"github.com/kbukum/agentflow/observability"
	"github.com/kbukum/agentflow/routing"
)

// Runner executes a graph against a backend, strictly one node at a time.
// A Runner holds no per-run state and may be reused; each call to Run
// creates a fresh State owned by that run alone.
type Runner struct {
	backend   backend.Backend
	router    *routing.Router
	log       *logger.Logger
	observers []Observer
	signals   routing.Signals
	metrics   *observability.Metrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithObserver registers a run lifecycle observer. Observers are notified
// in registration order.
func WithObserver(obs Observer) Option {
	return func(r *Runner) {
		if obs != nil {
			r.observers = append(r.observers, obs)
		}
	}
}

// WithSignals sets the routing signals applied to every run.
func WithSignals(sig routing.Signals) Option {
	return func(r *Runner) { r.signals = sig }
}

// WithMetrics records run and node instruments on the given metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// New creates a Runner delegating execution to the given backend with
// tiers decided by the given router.
func New(b backend.Backend, router *routing.Router, opts ...Option) *Runner {
	r := &Runner{
		backend: b,
		router:  router,
		log:     logger.NewDefault("runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the graph to completion or first failure.
//
// The order is computed once up front; a graph definition error returns
// (nil, error) before any side effect. From there the run always produces
// a complete Result: nodes execute strictly in order, each delegated to
// the backend with its routing decision and gathered dependency values,
// and the first failure halts the run with the completed prefix intact.
// Context cancellation surfaces as the failure of the node in flight.
func (r *Runner) Run(ctx context.Context, g *graph.Graph, input any) (*Result, error) {
	schedule, err := graph.ComputeOrder(g)
	if err != nil {
		return nil, err
	}

	state := NewState(input)
	runID := uuid.NewString()
	log := r.log.WithRun(runID)

	if len(schedule.Unreachable) > 0 {
		log.Warn("nodes unreachable from entry point", logger.Fields(
			logger.FieldGraph, g.Name,
			"nodes", schedule.Unreachable,
		))
	}

	ctx, span := observability.StartRun(ctx, g.Name, runID, r.metrics)

	runState := transition(RunPending, RunRunning)
	log.Info("run started", logger.Fields(
		logger.FieldGraph, g.Name,
		"nodes", len(schedule.Order),
	))
	r.notify(log, func(o Observer) { o.RunStarted(ctx, g, runID, input) })

	results := make(map[string]*NodeResult, len(schedule.Order))
	var runErr error
	for _, id := range schedule.Order {
		node, _ := g.Node(id)
		nr, err := r.runNode(ctx, log, g, node, runID, state)
		results[id] = nr
		if err != nil {
			runErr = err
			break
		}
	}

	if runErr != nil {
		runState = transition(runState, RunFailed)
	} else {
		runState = transition(runState, RunSucceeded)
	}

	finishedAt := time.Now()
	result := &Result{
		RunID:       runID,
		GraphName:   g.Name,
		State:       runState,
		Success:     runErr == nil,
		Output:      finalOutput(g, schedule.Order, state),
		NodeResults: results,
		Unreachable: schedule.Unreachable,
		Metrics:     aggregate(state.StartedAt(), finishedAt, len(schedule.Order), results),
	}

	span.End(ctx, string(runState), runErr)
	log.Info("run finished", logger.Fields(
		logger.FieldGraph, g.Name,
		logger.FieldStatus, string(runState),
		logger.FieldDuration, result.Metrics.Duration.Milliseconds(),
		logger.FieldCost, result.Metrics.TotalCost,
		logger.FieldTokens, result.Metrics.TotalTokens,
	))
	r.notify(log, func(o Observer) { o.RunFinished(ctx, result) })
	return result, nil
}

// runNode routes, gathers inputs, and delegates one node. The returned
// error reports the invocation failure; the NodeResult is recorded either
// way.
func (r *Runner) runNode(ctx context.Context, log *logger.Logger, g *graph.Graph, node graph.Node, runID string, state *State) (*NodeResult, error) {
	decision := r.router.Route(node, r.signals)
	log.Debug("node routed", logger.Fields(
		logger.FieldNodeID, node.ID,
		logger.FieldKind, string(decision.Kind),
		logger.FieldTier, string(decision.Tier),
		logger.FieldModel, decision.Model,
		"rule", decision.Rule,
	))

	inv := backend.Invocation{
		RunID:        runID,
		GraphName:    g.Name,
		NodeID:       node.ID,
		Kind:         decision.Kind,
		Tier:         decision.Tier,
		Model:        decision.Model,
		Task:         node.Task,
		Input:        state.Input(),
		Dependencies: gatherDependencies(g, node, state),
		Metadata:     node.Metadata,
	}
	r.notify(log, func(o Observer) { o.NodeStarted(ctx, runID, inv, decision) })

	nodeCtx, span := observability.StartSpan(ctx, observability.SpanNode)
	observability.SetSpanAttribute(nodeCtx, observability.AttrNodeID, node.ID)
	observability.SetSpanAttribute(nodeCtx, observability.AttrKind, string(decision.Kind))
	observability.SetSpanAttribute(nodeCtx, observability.AttrTier, string(decision.Tier))

	startedAt := time.Now()
	res, err := r.backend.Invoke(nodeCtx, inv)
	finishedAt := time.Now()

	nr := &NodeResult{
		NodeID:     node.ID,
		Routing:    decision,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Duration:   finishedAt.Sub(startedAt),
	}

	status := "ok"
	if err != nil {
		status = "error"
		nr.Err = err.Error()
		state.markFailed(node.ID)
		observability.SetSpanError(nodeCtx, err)
		log.Error("node failed", logger.Fields(
			logger.FieldNodeID, node.ID,
			logger.FieldError, err.Error(),
			logger.FieldDuration, nr.Duration.Milliseconds(),
		))
	} else {
		nr.Success = true
		nr.Output = res.Output
		nr.Usage = res.Usage
		nr.Cost = r.router.EstimateCost(decision.Tier, res.Usage.PromptTokens, res.Usage.CompletionTokens)
		state.setOutput(g.OutputKeyOf(node), res.Output)
		state.markCompleted(node.ID)
		log.Info("node completed", logger.Fields(
			logger.FieldNodeID, node.ID,
			logger.FieldTier, string(decision.Tier),
			logger.FieldDuration, nr.Duration.Milliseconds(),
			logger.FieldCost, nr.Cost,
			logger.FieldTokens, res.Usage.TotalTokens,
		))
	}
	observability.SetSpanAttribute(nodeCtx, observability.AttrDurationMs, nr.Duration.Milliseconds())
	observability.SetSpanAttribute(nodeCtx, observability.AttrStatus, status)
	span.End()
	if r.metrics != nil {
		r.metrics.RecordNode(ctx, g.Name, string(decision.Kind), string(decision.Tier), status, nr.Duration, nr.Cost)
	}

	r.notify(log, func(o Observer) { o.NodeFinished(ctx, runID, nr) })
	return nr, err
}

// gatherDependencies collects, for each declared dependency, the value
// stored under that dependency's output key, keyed by the dependency id.
// Missing values are omitted; the consuming backend owns complaints about
// absent inputs.
func gatherDependencies(g *graph.Graph, node graph.Node, state *State) map[string]any {
	if len(node.DependsOn) == 0 {
		return nil
	}
	deps := make(map[string]any, len(node.DependsOn))
	for _, depID := range node.DependsOn {
		dep, ok := g.Node(depID)
		if !ok {
			continue
		}
		if v, ok := state.Output(g.OutputKeyOf(dep)); ok {
			deps[depID] = v
		}
	}
	return deps
}

// finalOutput selects the run's final output: the declared result keys as
// present in the state, or the output value of the last node in execution
// order, or nil when nothing was scheduled.
func finalOutput(g *graph.Graph, order []string, state *State) any {
	if len(g.ResultKeys) > 0 {
		out := make(map[string]any, len(g.ResultKeys))
		for _, key := range g.ResultKeys {
			if v, ok := state.Output(key); ok {
				out[key] = v
			}
		}
		return out
	}
	if len(order) == 0 {
		return nil
	}
	last, _ := g.Node(order[len(order)-1])
	v, _ := state.Output(g.OutputKeyOf(last))
	return v
}

// aggregate builds the run metrics from the recorded node results.
func aggregate(startedAt, finishedAt time.Time, scheduled int, results map[string]*NodeResult) Metrics {
	m := Metrics{
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Duration:   finishedAt.Sub(startedAt),
		NodeCount:  scheduled,
	}
	for _, nr := range results {
		m.TotalCost += nr.Cost
		m.TotalTokens += nr.Usage.TotalTokens
		if nr.Success {
			m.Succeeded++
		} else {
			m.Failed++
		}
	}
	return m
}

// notify invokes fn on every observer, recovering panics so a broken
// observer cannot fail the run.
func (r *Runner) notify(log *logger.Logger, fn func(Observer)) {
	for _, obs := range r.observers {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("observer panicked", logger.Fields(logger.FieldError, rec))
				}
			}()
			fn(obs)
		}()
	}
}
