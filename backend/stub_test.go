package backend_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/kbukum/agentflow/backend"
	"github.com/kbukum/agentflow/graph"
	"github.com/kbukum/agentflow/routing"
)

func TestStubScriptedOutput(t *testing.T) {
	stub := backend.NewStub("test").WithOutput("scan", []string{"a.csv", "b.csv"})

	result, err := stub.Invoke(context.Background(), backend.Invocation{
		NodeID: "scan",
		Task:   "scan the directory",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	files, ok := result.Output.([]string)
	if !ok || len(files) != 2 {
		t.Fatalf("expected scripted output, got %v", result.Output)
	}
}

func TestStubDefaultEcho(t *testing.T) {
	stub := backend.NewStub("test")

	result, err := stub.Invoke(context.Background(), backend.Invocation{
		NodeID: "scan",
		Kind:   graph.KindExplore,
		Task:   "scan the directory",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Output != "explore: scan the directory" {
		t.Errorf("expected echo output, got %v", result.Output)
	}
	if result.Usage.TotalTokens == 0 {
		t.Error("expected nonzero token usage")
	}
}

func TestStubScriptedFailure(t *testing.T) {
	boom := fmt.Errorf("model refused")
	stub := backend.NewStub("test").WithFailure("analyze", boom)

	_, err := stub.Invoke(context.Background(), backend.Invocation{NodeID: "analyze", Task: "t"})
	if err == nil {
		t.Fatal("expected scripted failure")
	}
	if err.Error() != "model refused" {
		t.Errorf("expected scripted error, got %v", err)
	}
}

func TestStubRecordsInvocations(t *testing.T) {
	stub := backend.NewStub("test")

	inv := backend.Invocation{
		RunID:        "run-1",
		NodeID:       "plan",
		Kind:         graph.KindPlan,
		Tier:         routing.TierStandard,
		Task:         "plan the work",
		Dependencies: map[string]any{"scan": "two files"},
	}
	if _, err := stub.Invoke(context.Background(), inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recorded := stub.Invocations()
	if len(recorded) != 1 {
		t.Fatalf("expected 1 recorded invocation, got %d", len(recorded))
	}
	if recorded[0].NodeID != "plan" {
		t.Errorf("expected node 'plan', got %q", recorded[0].NodeID)
	}
	if recorded[0].Dependencies["scan"] != "two files" {
		t.Errorf("expected dependency value recorded, got %v", recorded[0].Dependencies)
	}
}

func TestStubAvailability(t *testing.T) {
	stub := backend.NewStub("test")
	if !stub.IsAvailable(context.Background()) {
		t.Error("expected stub to start available")
	}
	stub.WithAvailable(false)
	if stub.IsAvailable(context.Background()) {
		t.Error("expected stub to report unavailable")
	}
}

func TestStubContextCanceled(t *testing.T) {
	stub := backend.NewStub("test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := stub.Invoke(ctx, backend.Invocation{NodeID: "x", Task: "t"}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestStubDefaultName(t *testing.T) {
	if backend.NewStub("").Name() != "stub" {
		t.Error("expected default name 'stub'")
	}
}
