package backend

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	apperrors "github.com/kbukum/agentflow/errors"
	"github.com/kbukum/agentflow/process"
	"github.com/kbukum/agentflow/resilience"
)

// SubprocessConfig configures a worker-process backend.
type SubprocessConfig struct {
	// Name identifies the backend. Defaults to "subprocess".
	Name string `yaml:"name" json:"name" mapstructure:"name"`
	// Binary is the worker executable. Required.
	Binary string `yaml:"binary" json:"binary" mapstructure:"binary"`
	// Args are fixed arguments passed on every invocation.
	Args []string `yaml:"args" json:"args" mapstructure:"args"`
	// Dir is the working directory for the worker.
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`
	// Env is additional environment (key=value) for the worker.
	Env []string `yaml:"env" json:"env" mapstructure:"env"`
	// GracePeriod is how long a canceled worker gets before SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period" json:"grace_period" mapstructure:"grace_period"`
	// Resilience configures retry and circuit breaking across invocations.
	Resilience process.RunnerConfig `yaml:"-" json:"-" mapstructure:"-"`
}

// workerRequest is the JSON payload written to the worker on stdin.
type workerRequest struct {
	RunID        string            `json:"run_id"`
	Graph        string            `json:"graph,omitempty"`
	NodeID       string            `json:"node_id"`
	Kind         string            `json:"kind"`
	Tier         string            `json:"tier"`
	Model        string            `json:"model,omitempty"`
	Task         string            `json:"task"`
	Input        any               `json:"input,omitempty"`
	Dependencies map[string]any    `json:"dependencies,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// workerResponse is the JSON reply expected on the worker's stdout. A
// non-empty error field or a non-zero exit code fails the invocation.
type workerResponse struct {
	Output any    `json:"output"`
	Error  string `json:"error,omitempty"`
	Usage  *Usage `json:"usage,omitempty"`
}

// Subprocess delegates invocations to a worker program speaking JSON over
// stdin/stdout.
type Subprocess struct {
	cfg    SubprocessConfig
	runner *process.Runner
}

// NewSubprocess creates a worker-process backend.
func NewSubprocess(cfg SubprocessConfig) (*Subprocess, error) {
	if cfg.Binary == "" {
		return nil, apperrors.InvalidConfig("subprocess backend needs a binary")
	}
	if cfg.Name == "" {
		cfg.Name = "subprocess"
	}
	return &Subprocess{cfg: cfg, runner: process.NewRunner(cfg.Resilience)}, nil
}

func (b *Subprocess) Name() string { return b.cfg.Name }

// IsAvailable reports whether the worker binary resolves on this host.
func (b *Subprocess) IsAvailable(ctx context.Context) bool {
	_, err := exec.LookPath(b.cfg.Binary)
	return err == nil
}

// Invoke writes the invocation to the worker as JSON and parses its reply.
func (b *Subprocess) Invoke(ctx context.Context, inv Invocation) (*Result, error) {
	payload, err := json.Marshal(workerRequest{
		RunID:        inv.RunID,
		Graph:        inv.GraphName,
		NodeID:       inv.NodeID,
		Kind:         string(inv.Kind),
		Tier:         string(inv.Tier),
		Model:        inv.Model,
		Task:         inv.Task,
		Input:        inv.Input,
		Dependencies: inv.Dependencies,
		Metadata:     inv.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("backend: encoding worker request: %w", err)
	}

	res, err := b.runner.Run(ctx, process.Command{
		Binary:      b.cfg.Binary,
		Args:        b.cfg.Args,
		Dir:         b.cfg.Dir,
		Env:         b.cfg.Env,
		Stdin:       payload,
		GracePeriod: b.cfg.GracePeriod,
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			return nil, apperrors.BackendUnavailable(b.cfg.Name)
		}
		appErr := apperrors.ExternalServiceError(b.cfg.Name, err)
		if res != nil && len(res.Stderr) > 0 {
			appErr = appErr.WithDetail("stderr", tail(res.Stderr, 512))
		}
		return nil, appErr
	}

	var resp workerResponse
	if err := json.Unmarshal(res.Stdout, &resp); err != nil {
		return nil, fmt.Errorf("backend: worker %s produced invalid JSON: %w", b.cfg.Name, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("backend: worker %s reported: %s", b.cfg.Name, resp.Error)
	}

	result := &Result{Output: resp.Output}
	if resp.Usage != nil {
		result.Usage = *resp.Usage
	}
	return result, nil
}

// tail returns the last n bytes as trimmed text.
func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return strings.TrimSpace(string(b))
}
