package server_test

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/agentflow/artifact"
	"github.com/kbukum/agentflow/backend"
	"github.com/kbukum/agentflow/logger"
	"github.com/kbukum/agentflow/observability"
	"github.com/kbukum/agentflow/routing"
	"github.com/kbukum/agentflow/runner"
	"github.com/kbukum/agentflow/server"
	"github.com/kbukum/agentflow/version"
)

// newHandler builds a full server handler around a stub backend so requests
// pass through the complete middleware stack.
func newHandler(t *testing.T, mutate func(*server.APIConfig)) (http.Handler, *backend.Stub) {
	t.Helper()

	stub := backend.NewStub("stub")
	apiCfg := server.APIConfig{
		Service: "agentflow-test",
		Backend: stub,
		Router:  routing.New(routing.Config{}),
		Log:     logger.NewDefault("server-test"),
	}
	if mutate != nil {
		mutate(&apiCfg)
	}

	cfg := server.Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	srv := server.New(cfg, logger.NewDefault("server-test"))
	server.NewAPI(apiCfg).Register(srv.GinEngine())
	return srv.Handler(), stub
}

func postRun(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/runs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rr, req)
	return rr
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", path, http.NoBody))
	return rr
}

func decodeRun(t *testing.T, rr *httptest.ResponseRecorder) *runner.Result {
	t.Helper()
	var envelope struct {
		Data runner.Result `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding run response: %v (body: %s)", err, rr.Body.String())
	}
	return &envelope.Data
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding error response: %v (body: %s)", err, rr.Body.String())
	}
	return envelope.Error.Code
}

const chainGraph = `{
	"graph": {
		"name": "pipeline",
		"nodes": [
			{"id": "a", "task": "summarize the notes"},
			{"id": "b", "task": "polish the summary", "depends_on": ["a"]}
		]
	},
	"input": "raw notes"
}`

// ---------------------------------------------------------------------------
// POST /v1/runs
// ---------------------------------------------------------------------------

func TestCreateRun_Succeeds(t *testing.T) {
	handler, stub := newHandler(t, nil)

	rr := postRun(t, handler, chainGraph)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id on the response")
	}

	result := decodeRun(t, rr)
	if !result.Success {
		t.Errorf("expected success, got state %s", result.State)
	}
	if result.State != runner.RunSucceeded {
		t.Errorf("expected state succeeded, got %s", result.State)
	}
	if _, err := uuid.Parse(result.RunID); err != nil {
		t.Errorf("run id %q is not a UUID: %v", result.RunID, err)
	}
	if len(result.NodeResults) != 2 {
		t.Fatalf("expected 2 node results, got %d", len(result.NodeResults))
	}

	invs := stub.Invocations()
	if len(invs) != 2 || invs[0].NodeID != "a" || invs[1].NodeID != "b" {
		t.Fatalf("unexpected invocation order: %+v", invs)
	}
	if got := invs[1].Dependencies["a"]; got != "general: summarize the notes" {
		t.Errorf("dependency input for b = %v", got)
	}
	if invs[0].Input != "raw notes" {
		t.Errorf("entry input = %v", invs[0].Input)
	}
}

func TestCreateRun_NodeFailureIsStill200(t *testing.T) {
	handler, stub := newHandler(t, nil)
	stub.WithFailure("b", stderrors.New("boom"))

	rr := postRun(t, handler, chainGraph)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for execution failure, got %d", rr.Code)
	}

	result := decodeRun(t, rr)
	if result.Success {
		t.Error("expected failed run")
	}
	if result.State != runner.RunFailed {
		t.Errorf("expected state failed, got %s", result.State)
	}
	failure, ok := result.Failure()
	if !ok {
		t.Fatal("expected a failed node result")
	}
	if failure.NodeID != "b" || !strings.Contains(failure.Err, "boom") {
		t.Errorf("unexpected failure: %+v", failure)
	}
}

func TestCreateRun_InvalidJSON(t *testing.T) {
	handler, _ := newHandler(t, nil)

	rr := postRun(t, handler, "{not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if code := errorCode(t, rr); code != "INVALID_INPUT" {
		t.Errorf("expected INVALID_INPUT, got %s", code)
	}
}

func TestCreateRun_EmptyGraphRejected(t *testing.T) {
	handler, _ := newHandler(t, nil)

	rr := postRun(t, handler, `{"graph": {"name": "empty", "nodes": []}}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty node list, got %d (body: %s)", rr.Code, rr.Body.String())
	}
}

func TestCreateRun_UnknownKindRejected(t *testing.T) {
	handler, _ := newHandler(t, nil)

	body := `{"graph": {"name": "bad", "nodes": [{"id": "a", "kind": "wizard", "task": "summarize the notes"}]}}`
	rr := postRun(t, handler, body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", rr.Code)
	}
}

func TestCreateRun_CycleRejected(t *testing.T) {
	handler, stub := newHandler(t, nil)

	body := `{
		"graph": {
			"name": "looped",
			"nodes": [
				{"id": "a", "task": "summarize the notes", "depends_on": ["b"]},
				{"id": "b", "task": "polish the summary", "depends_on": ["a"]}
			]
		}
	}`
	rr := postRun(t, handler, body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for cycle, got %d (body: %s)", rr.Code, rr.Body.String())
	}
	if code := errorCode(t, rr); code != "CYCLE_DETECTED" {
		t.Errorf("expected CYCLE_DETECTED, got %s", code)
	}
	if len(stub.Invocations()) != 0 {
		t.Error("no node should be invoked for an invalid graph")
	}
}

func TestCreateRun_SignalsRouted(t *testing.T) {
	handler, _ := newHandler(t, nil)

	body := `{
		"graph": {
			"name": "bulk",
			"nodes": [{"id": "a", "kind": "analyze", "task": "inspect the corpus"}]
		},
		"signals": {"item_count": 500}
	}`
	rr := postRun(t, handler, body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rr.Code, rr.Body.String())
	}

	result := decodeRun(t, rr)
	nr := result.NodeResults["a"]
	if nr == nil {
		t.Fatal("missing node result for a")
	}
	if nr.Routing.Rule != "bulk-items" {
		t.Errorf("expected bulk-items rule, got %s", nr.Routing.Rule)
	}
	if nr.Routing.Tier != routing.TierLite {
		t.Errorf("expected lite tier for bulk load, got %s", nr.Routing.Tier)
	}
}

func TestCreateRun_RateLimited(t *testing.T) {
	handler, _ := newHandler(t, func(cfg *server.APIConfig) {
		cfg.RunsPerMinute = 1
	})

	if rr := postRun(t, handler, chainGraph); rr.Code != http.StatusOK {
		t.Fatalf("first run: expected 200, got %d", rr.Code)
	}
	if rr := postRun(t, handler, chainGraph); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second run: expected 429, got %d", rr.Code)
	}
}

// ---------------------------------------------------------------------------
// GET /v1/runs/:id
// ---------------------------------------------------------------------------

func TestGetRun_RoundTrip(t *testing.T) {
	store, err := artifact.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	handler, _ := newHandler(t, func(cfg *server.APIConfig) {
		cfg.Store = store
	})

	created := decodeRun(t, postRun(t, handler, chainGraph))

	rr := get(t, handler, "/v1/runs/"+created.RunID)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rr.Code, rr.Body.String())
	}
	loaded := decodeRun(t, rr)
	if loaded.RunID != created.RunID {
		t.Errorf("loaded run id %s, want %s", loaded.RunID, created.RunID)
	}
	if !loaded.Success || len(loaded.NodeResults) != 2 {
		t.Errorf("loaded run lost results: %+v", loaded)
	}
}

func TestGetRun_InvalidID(t *testing.T) {
	handler, _ := newHandler(t, nil)

	rr := get(t, handler, "/v1/runs/not-a-uuid")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetRun_Missing(t *testing.T) {
	store, err := artifact.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	handler, _ := newHandler(t, func(cfg *server.APIConfig) {
		cfg.Store = store
	})

	rr := get(t, handler, "/v1/runs/"+uuid.NewString())
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if code := errorCode(t, rr); code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %s", code)
	}
}

func TestGetRun_NoStore(t *testing.T) {
	handler, _ := newHandler(t, nil)

	rr := get(t, handler, "/v1/runs/"+uuid.NewString())
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a store, got %d", rr.Code)
	}
}

// ---------------------------------------------------------------------------
// GET /v1/tiers
// ---------------------------------------------------------------------------

func TestListTiers(t *testing.T) {
	handler, _ := newHandler(t, nil)

	rr := get(t, handler, "/v1/tiers")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var envelope struct {
		Data routing.Config `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding tiers: %v", err)
	}
	if got := envelope.Data.Tiers[routing.TierPremium].Model; got != "opus" {
		t.Errorf("premium model = %s", got)
	}
	if envelope.Data.BulkItemThreshold != 50 {
		t.Errorf("bulk item threshold = %d", envelope.Data.BulkItemThreshold)
	}
}

// ---------------------------------------------------------------------------
// GET /healthz and /version
// ---------------------------------------------------------------------------

func TestHealthz_Up(t *testing.T) {
	handler, _ := newHandler(t, nil)

	rr := get(t, handler, "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var health observability.ServiceHealth
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if health.Status != observability.HealthStatusUp {
		t.Errorf("expected up, got %s", health.Status)
	}
	if health.Service != "agentflow-test" {
		t.Errorf("service = %s", health.Service)
	}
	if len(health.Components) != 1 || health.Components[0].Name != "stub" {
		t.Errorf("components = %+v", health.Components)
	}
}

func TestHealthz_BackendDown(t *testing.T) {
	handler, stub := newHandler(t, nil)
	stub.WithAvailable(false)

	rr := get(t, handler, "/healthz")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}

	var health observability.ServiceHealth
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if health.Status != observability.HealthStatusDown {
		t.Errorf("expected down, got %s", health.Status)
	}
}

func TestVersion(t *testing.T) {
	handler, _ := newHandler(t, nil)

	rr := get(t, handler, "/version")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var envelope struct {
		Data version.Info `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding version: %v", err)
	}
	if envelope.Data.Version == "" {
		t.Error("expected a version string")
	}
}

// ---------------------------------------------------------------------------
// CORS through the full stack
// ---------------------------------------------------------------------------

func TestCORS_PreflightThroughServer(t *testing.T) {
	handler, _ := newHandler(t, nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/v1/runs", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow-origin = %q", got)
	}
}
