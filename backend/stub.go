package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/agentflow/routing"
)

// Stub is a scripted backend for tests and dry runs. Outputs and failures
// are keyed by node id; unscripted nodes get a deterministic echo of the
// task. Every invocation is recorded.
type Stub struct {
	name      string
	available bool

	mu          sync.Mutex
	outputs     map[string]any
	failures    map[string]error
	invocations []Invocation
}

// NewStub creates an available stub backend.
func NewStub(name string) *Stub {
	if name == "" {
		name = "stub"
	}
	return &Stub{
		name:      name,
		available: true,
		outputs:   make(map[string]any),
		failures:  make(map[string]error),
	}
}

// WithOutput scripts the output for a node id.
func (s *Stub) WithOutput(nodeID string, output any) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[nodeID] = output
	return s
}

// WithFailure scripts a failure for a node id.
func (s *Stub) WithFailure(nodeID string, err error) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[nodeID] = err
	return s
}

// WithAvailable overrides the availability report.
func (s *Stub) WithAvailable(v bool) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = v
	return s
}

func (s *Stub) Name() string { return s.name }

func (s *Stub) IsAvailable(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// Invoke returns the scripted output or failure for the node, or an echo
// of the task when nothing is scripted.
func (s *Stub) Invoke(ctx context.Context, inv Invocation) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.invocations = append(s.invocations, inv)
	failure := s.failures[inv.NodeID]
	output, scripted := s.outputs[inv.NodeID]
	s.mu.Unlock()

	if failure != nil {
		return nil, failure
	}
	if !scripted {
		output = fmt.Sprintf("%s: %s", inv.Kind, inv.Task)
	}

	promptTokens := routing.EstimateTokens(inv.Task)
	completionTokens := 0
	if text, ok := output.(string); ok {
		completionTokens = routing.EstimateTokens(text)
	}
	return &Result{
		Output: output,
		Model:  inv.Model,
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

// Invocations returns a copy of every invocation recorded so far.
func (s *Stub) Invocations() []Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Invocation, len(s.invocations))
	copy(out, s.invocations)
	return out
}
