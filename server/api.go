package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/agentflow/artifact"
	"github.com/kbukum/agentflow/backend"
	apperrors "github.com/kbukum/agentflow/errors"
	"github.com/kbukum/agentflow/graph"
	"github.com/kbukum/agentflow/logger"
	"github.com/kbukum/agentflow/observability"
	"github.com/kbukum/agentflow/routing"
	"github.com/kbukum/agentflow/runner"
	"github.com/kbukum/agentflow/server/middleware"
	"github.com/kbukum/agentflow/util"
	"github.com/kbukum/agentflow/validation"
	"github.com/kbukum/agentflow/version"
)

// RunRequest is the payload for submitting a graph run.
type RunRequest struct {
	// Graph is the inline graph definition.
	Graph graph.Spec `json:"graph"`
	// Input is the initial run input, available to entry nodes.
	Input any `json:"input,omitempty"`
	// Signals tune the routing heuristics for this run.
	Signals routing.Signals `json:"signals,omitempty"`
}

// APIConfig wires the run API's dependencies.
type APIConfig struct {
	// Service names the service in health responses.
	Service string
	// Backend executes node invocations.
	Backend backend.Backend
	// Router selects a tier per node.
	Router *routing.Router
	// Store persists run artifacts and serves run retrieval. Nil disables
	// both; retrieval then reports not found.
	Store *artifact.Store
	// Metrics records per-node measurements. Optional.
	Metrics *observability.Metrics
	// Log defaults to a logger named "api".
	Log *logger.Logger
	// RunsPerMinute rate-limits run submission per client. Zero disables
	// the limiter.
	RunsPerMinute int
}

// API exposes graph runs over HTTP: submission, retrieval, the routing
// table, and service health.
type API struct {
	cfg APIConfig
	log *logger.Logger
}

// NewAPI creates the run API.
func NewAPI(cfg APIConfig) *API {
	if cfg.Service == "" {
		cfg.Service = "agentflow"
	}
	log := cfg.Log
	if log == nil {
		log = logger.NewDefault("api")
	}
	return &API{cfg: cfg, log: log}
}

// Register mounts all API routes on the engine.
func (a *API) Register(engine *gin.Engine) {
	engine.GET("/healthz", a.health)
	engine.GET("/version", a.version)

	v1 := engine.Group("/v1")
	if a.cfg.RunsPerMinute > 0 {
		v1.POST("/runs", middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: a.cfg.RunsPerMinute,
		}), a.createRun)
	} else {
		v1.POST("/runs", a.createRun)
	}
	v1.GET("/runs/:id", a.getRun)
	v1.GET("/tiers", a.listTiers)
}

// createRun executes the submitted graph synchronously and returns the
// complete run result. Node failures are reported inside the result with
// a 200 status; only malformed requests and graph definition errors are
// HTTP errors.
func (a *API) createRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.Validation("invalid run request: "+err.Error()))
		return
	}
	if err := validation.Validate(&req.Graph); err != nil {
		RespondWithError(c, err)
		return
	}
	g, err := req.Graph.ToGraph()
	if err != nil {
		RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	opts := []runner.Option{
		runner.WithLogger(a.log),
		runner.WithSignals(req.Signals),
	}
	if a.cfg.Store != nil {
		opts = append(opts, runner.WithObserver(a.cfg.Store))
	}
	if a.cfg.Metrics != nil {
		opts = append(opts, runner.WithMetrics(a.cfg.Metrics))
	}

	result, err := runner.New(a.cfg.Backend, a.cfg.Router, opts...).Run(c.Request.Context(), g, req.Input)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, result)
}

// getRun returns a previously persisted run result by id.
func (a *API) getRun(c *gin.Context) {
	id := c.Param("id")
	if _, err := util.ValidateUUID("run_id", id); err != nil {
		RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}
	if a.cfg.Store == nil {
		RespondWithError(c, apperrors.NotFound("run", id))
		return
	}
	result, err := a.cfg.Store.Load(id)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, result)
}

// listTiers returns the active routing table.
func (a *API) listTiers(c *gin.Context) {
	RespondOK(c, a.cfg.Router.Config())
}

// health reports service health including backend availability. A down
// backend yields 503.
func (a *API) health(c *gin.Context) {
	h := observability.NewServiceHealth(a.cfg.Service, version.GetShortVersion())

	comp := observability.Health{
		Name:   a.cfg.Backend.Name(),
		Status: observability.HealthStatusUp,
	}
	if !a.cfg.Backend.IsAvailable(c.Request.Context()) {
		comp.Status = observability.HealthStatusDown
		comp.Message = "backend unavailable"
	}
	h.AddComponent(comp)

	code := http.StatusOK
	if h.Status == observability.HealthStatusDown {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, h)
}

// version reports build information.
func (a *API) version(c *gin.Context) {
	RespondOK(c, version.GetVersionInfo())
}
