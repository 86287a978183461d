package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/agentflow/backend"
	apperrors "github.com/kbukum/agentflow/errors"
	"github.com/kbukum/agentflow/graph"
	"github.com/kbukum/agentflow/logger"
	"github.com/kbukum/agentflow/prompt"
	"github.com/kbukum/agentflow/routing"
	"github.com/kbukum/agentflow/runner"
)

// Store persists run artifacts under a local root, one directory per run.
// It observes the run lifecycle; a failing write is logged and swallowed,
// so a broken disk never fails a run.
//
// Layout:
//
//	<root>/<runID>/run.json             full run result
//	<root>/<runID>/<nodeID>/prompt.md   rendered prompt, or the invocation
//	                                    as JSON when rendering fails
//	<root>/<runID>/<nodeID>/result.json node result
//	<root>/<runID>/<nodeID>/meta.json   routing decision and timings
type Store struct {
	root    string
	log     *logger.Logger
	catalog *prompt.Catalog
}

var _ runner.Observer = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCatalog sets the prompt catalog used to render prompt.md. It should
// match the catalog the executing backend renders with.
func WithCatalog(c *prompt.Catalog) Option {
	return func(s *Store) {
		if c != nil {
			s.catalog = c
		}
	}
}

// NewStore creates a store rooted at dir, creating the directory if
// needed.
func NewStore(dir string, opts ...Option) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("artifact: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("artifact: create root: %w", err)
	}
	s := &Store{
		root:    abs,
		log:     logger.NewDefault("artifact"),
		catalog: prompt.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the absolute artifact root.
func (s *Store) Root() string { return s.root }

// RunStarted creates the run's artifact directory.
func (s *Store) RunStarted(_ context.Context, _ *graph.Graph, runID string, _ any) {
	if err := os.MkdirAll(filepath.Join(s.root, runID), 0o750); err != nil {
		s.logWriteError(runID, "run directory", err)
	}
}

// NodeStarted writes the node's prompt.md: the prompt as the catalog
// renders it, falling back to the invocation as JSON.
func (s *Store) NodeStarted(_ context.Context, runID string, inv backend.Invocation, _ routing.Decision) {
	text, err := s.catalog.Render(prompt.Input{
		Kind:         inv.Kind,
		Task:         inv.Task,
		RunInput:     inv.Input,
		Dependencies: inv.Dependencies,
	})
	if err != nil {
		raw, jsonErr := json.MarshalIndent(inv, "", "  ")
		if jsonErr != nil {
			s.logWriteError(runID, "prompt.md", jsonErr)
			return
		}
		text = string(raw)
	}
	s.write(runID, filepath.Join(s.root, runID, inv.NodeID, "prompt.md"), []byte(text))
}

// nodeMeta is the meta.json shape: the routing decision and timings,
// without the node output.
type nodeMeta struct {
	Routing    routing.Decision `json:"routing"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	DurationMs int64            `json:"duration_ms"`
}

// NodeFinished writes the node's result.json and meta.json.
func (s *Store) NodeFinished(_ context.Context, runID string, result *runner.NodeResult) {
	dir := filepath.Join(s.root, runID, result.NodeID)
	s.writeJSON(runID, filepath.Join(dir, "result.json"), result)
	s.writeJSON(runID, filepath.Join(dir, "meta.json"), nodeMeta{
		Routing:    result.Routing,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		DurationMs: result.Duration.Milliseconds(),
	})
}

// RunFinished writes the full result as run.json.
func (s *Store) RunFinished(_ context.Context, result *runner.Result) {
	s.writeJSON(result.RunID, filepath.Join(s.root, result.RunID, "run.json"), result)
}

// Load reads a stored run result by id.
func (s *Store) Load(runID string) (*runner.Result, error) {
	data, err := os.ReadFile(filepath.Join(s.root, runID, "run.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("run", runID)
		}
		return nil, fmt.Errorf("artifact: read run %s: %w", runID, err)
	}
	var result runner.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("artifact: decode run %s: %w", runID, err)
	}
	return &result, nil
}

func (s *Store) writeJSON(runID, path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.logWriteError(runID, filepath.Base(path), err)
		return
	}
	s.write(runID, path, data)
}

func (s *Store) write(runID, path string, data []byte) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		s.logWriteError(runID, filepath.Base(path), err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logWriteError(runID, filepath.Base(path), err)
	}
}

func (s *Store) logWriteError(runID, what string, err error) {
	s.log.Error("artifact write failed", logger.Fields(
		logger.FieldRunID, runID,
		"artifact", what,
		logger.FieldError, err.Error(),
	))
}
