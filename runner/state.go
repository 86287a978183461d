package runner

import (
	"sync"
	"time"
)

// State is the execution context of one run: node outputs keyed by output
// key, the opaque run input, and completion bookkeeping. A State is created
// fresh for each run, mutated only by the run that owns it, and discarded
// when the run ends. It is never reused or shared across runs.
type State struct {
	mu        sync.RWMutex
	outputs   map[string]any
	input     any
	completed []string
	failed    []string
	startedAt time.Time
}

// NewState creates the execution context for one run.
func NewState(input any) *State {
	return &State{
		outputs:   make(map[string]any),
		input:     input,
		startedAt: time.Now(),
	}
}

// Output returns the value stored under an output key.
func (s *State) Output(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.outputs[key]
	return v, ok
}

// Outputs returns a snapshot of every stored output.
func (s *State) Outputs() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.outputs))
	for k, v := range s.outputs {
		out[k] = v
	}
	return out
}

// Input returns the opaque run input.
func (s *State) Input() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input
}

// Completed returns the ids of nodes that finished, in execution order.
func (s *State) Completed() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.completed))
	copy(out, s.completed)
	return out
}

// Failed returns the ids of nodes that failed, in execution order.
func (s *State) Failed() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.failed))
	copy(out, s.failed)
	return out
}

// StartedAt returns when the run began.
func (s *State) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAt
}

func (s *State) setOutput(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[key] = value
}

func (s *State) markCompleted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, id)
}

func (s *State) markFailed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, id)
}
