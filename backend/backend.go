package backend

import (
	"context"

	"github.com/kbukum/agentflow/graph"
	"github.com/kbukum/agentflow/routing"
)

// Invocation is one routed work item handed to a backend.
type Invocation struct {
	// RunID identifies the run this invocation belongs to.
	RunID string `json:"run_id"`
	// GraphName is the graph being executed.
	GraphName string `json:"graph,omitempty"`
	// NodeID is the node being executed.
	NodeID string `json:"node_id"`
	// Kind is the node's work category.
	Kind graph.Kind `json:"kind"`
	// Tier is the routed capability tier.
	Tier routing.Tier `json:"tier"`
	// Model is the concrete model the router selected for the tier.
	Model string `json:"model,omitempty"`
	// Task is the node's instruction text.
	Task string `json:"task"`
	// Input is the opaque input the run was started with.
	Input any `json:"input,omitempty"`
	// Dependencies maps dependency node id to that node's recorded output.
	Dependencies map[string]any `json:"dependencies,omitempty"`
	// Metadata carries the node's free-form metadata.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Usage reports token consumption for one invocation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is what a backend produced for one invocation.
type Result struct {
	// Output is the node's produced value.
	Output any `json:"output"`
	// Model is the model that actually served the invocation, when known.
	Model string `json:"model,omitempty"`
	// Usage reports token consumption. Zero when the backend cannot tell.
	Usage Usage `json:"usage"`
}

// Backend executes invocations.
type Backend interface {
	// Name returns the backend's unique name.
	Name() string
	// IsAvailable checks if the backend is ready to handle invocations.
	IsAvailable(ctx context.Context) bool
	// Invoke executes one work item and returns its result.
	Invoke(ctx context.Context, inv Invocation) (*Result, error)
}

// Factory creates a backend instance from configuration.
type Factory func(cfg map[string]any) (Backend, error)
