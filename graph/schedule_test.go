package graph

import (
	"strings"
	"testing"

	"github.com/kbukum/agentflow/errors"
)

// --- test helpers ---

func node(id string, deps ...string) Node {
	return Node{ID: id, Kind: KindGeneral, Task: "task " + id, DependsOn: deps}
}

func assertCode(t *testing.T, err error, code errors.ErrorCode) *errors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
	return appErr
}

func position(order []string, id string) int {
	for i, o := range order {
		if o == id {
			return i
		}
	}
	return -1
}

// --- ComputeOrder tests ---

func TestComputeOrder_Linear(t *testing.T) {
	g := &Graph{
		Name: "scan-then-plan",
		Nodes: []Node{
			{ID: "scan", Kind: KindExplore, Task: "scan the sources", OutputKey: "s"},
			{ID: "plan", Kind: KindPlan, Task: "plan the work", DependsOn: []string{"scan"}, OutputKey: "p"},
		},
		Entry: "scan",
	}

	sched, err := ComputeOrder(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.Order) != 2 || sched.Order[0] != "scan" || sched.Order[1] != "plan" {
		t.Fatalf("expected [scan plan], got %v", sched.Order)
	}
	if len(sched.Unreachable) != 0 {
		t.Fatalf("expected no unreachable nodes, got %v", sched.Unreachable)
	}
}

func TestComputeOrder_Diamond(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			node("a"),
			node("b", "a"),
			node("c", "a"),
			node("d", "b", "c"),
		},
	}

	sched, err := ComputeOrder(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.Order) != 4 {
		t.Fatalf("expected 4 nodes in order, got %v", sched.Order)
	}
	for _, n := range g.Nodes {
		at := position(sched.Order, n.ID)
		if at < 0 {
			t.Fatalf("node %q missing from order %v", n.ID, sched.Order)
		}
		for _, dep := range n.DependsOn {
			if position(sched.Order, dep) >= at {
				t.Fatalf("dependency %q not before %q in %v", dep, n.ID, sched.Order)
			}
		}
	}
}

func TestComputeOrder_ConvergingPathsVisitOnce(t *testing.T) {
	// b and c both depend on a; a must appear exactly once.
	g := &Graph{
		Nodes: []Node{
			node("a"),
			node("b", "a"),
			node("c", "a"),
		},
	}

	sched, err := ComputeOrder(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[string]int)
	for _, id := range sched.Order {
		seen[id]++
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("node %q scheduled %d times: %v", id, count, sched.Order)
		}
	}
}

func TestComputeOrder_Cycle(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			node("x", "y"),
			node("y", "x"),
		},
	}

	_, err := ComputeOrder(g)
	appErr := assertCode(t, err, errors.ErrCodeCycleDetected)
	if !strings.Contains(appErr.Message, "x -> y -> x") {
		t.Fatalf("expected cycle path in message, got %q", appErr.Message)
	}
	if !errors.IsGraphDefinition(err) {
		t.Fatalf("cycle must be a graph definition error")
	}
}

func TestComputeOrder_CycleBehindPrefix(t *testing.T) {
	// A valid prefix feeds a cycle; the error names only the cyclic part.
	g := &Graph{
		Nodes: []Node{
			node("start"),
			node("b", "start", "d"),
			node("c", "b"),
			node("d", "c"),
		},
	}

	_, err := ComputeOrder(g)
	appErr := assertCode(t, err, errors.ErrCodeCycleDetected)
	if strings.Contains(appErr.Message, "start") {
		t.Fatalf("cycle path should not include acyclic prefix: %q", appErr.Message)
	}
}

func TestComputeOrder_SelfReference(t *testing.T) {
	g := &Graph{Nodes: []Node{node("a", "a")}}

	_, err := ComputeOrder(g)
	appErr := assertCode(t, err, errors.ErrCodeGraphInvalid)
	if !strings.Contains(appErr.Message, "itself") {
		t.Fatalf("expected self-reference message, got %q", appErr.Message)
	}
}

func TestComputeOrder_MissingDependency(t *testing.T) {
	g := &Graph{Nodes: []Node{node("a", "ghost")}}

	_, err := ComputeOrder(g)
	appErr := assertCode(t, err, errors.ErrCodeMissingDependency)
	if !strings.Contains(appErr.Message, "a") || !strings.Contains(appErr.Message, "ghost") {
		t.Fatalf("expected node and dependency in message, got %q", appErr.Message)
	}
}

func TestComputeOrder_DuplicateNode(t *testing.T) {
	g := &Graph{Nodes: []Node{node("a"), node("a")}}

	_, err := ComputeOrder(g)
	assertCode(t, err, errors.ErrCodeDuplicateNode)
}

func TestComputeOrder_EmptyNodeID(t *testing.T) {
	g := &Graph{Nodes: []Node{node("")}}

	_, err := ComputeOrder(g)
	assertCode(t, err, errors.ErrCodeGraphInvalid)
}

func TestComputeOrder_DuplicateOutputKey(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "a", Task: "t", OutputKey: "result"},
			{ID: "b", Task: "t", OutputKey: "result"},
		},
	}

	_, err := ComputeOrder(g)
	appErr := assertCode(t, err, errors.ErrCodeDuplicateOutputKey)
	if !strings.Contains(appErr.Message, "result") {
		t.Fatalf("expected key in message, got %q", appErr.Message)
	}
}

func TestComputeOrder_OutputKeyCollidesWithNodeID(t *testing.T) {
	// Node "report" defaults its output key to its id; an explicit key
	// "report" elsewhere collides with it.
	g := &Graph{
		Nodes: []Node{
			{ID: "report", Task: "t"},
			{ID: "b", Task: "t", OutputKey: "report"},
		},
	}

	_, err := ComputeOrder(g)
	assertCode(t, err, errors.ErrCodeDuplicateOutputKey)
}

func TestComputeOrder_DeclaredEntry(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			node("main"),
			node("after", "main"),
			node("orphan"),
		},
		Entry: "main",
	}

	sched, err := ComputeOrder(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.Order) != 2 || sched.Order[0] != "main" || sched.Order[1] != "after" {
		t.Fatalf("expected [main after], got %v", sched.Order)
	}
	if len(sched.Unreachable) != 1 || sched.Unreachable[0] != "orphan" {
		t.Fatalf("expected [orphan] unreachable, got %v", sched.Unreachable)
	}
}

func TestComputeOrder_UnknownEntry(t *testing.T) {
	g := &Graph{Nodes: []Node{node("a")}, Entry: "ghost"}

	_, err := ComputeOrder(g)
	assertCode(t, err, errors.ErrCodeUnknownEntry)
}

func TestComputeOrder_EntryPullsInDependencies(t *testing.T) {
	// The declared entry has dependencies; they are scheduled before it
	// even though traversal starts at the entry.
	g := &Graph{
		Nodes: []Node{
			node("fetch"),
			node("summarize", "fetch"),
		},
		Entry: "summarize",
	}

	sched, err := ComputeOrder(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.Order) != 2 || sched.Order[0] != "fetch" || sched.Order[1] != "summarize" {
		t.Fatalf("expected [fetch summarize], got %v", sched.Order)
	}
}

func TestComputeOrder_UnreachableDeclarationOrder(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			node("z-orphan"),
			node("main"),
			node("a-orphan"),
		},
		Entry: "main",
	}

	sched, err := ComputeOrder(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"z-orphan", "a-orphan"}
	if len(sched.Unreachable) != 2 || sched.Unreachable[0] != want[0] || sched.Unreachable[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, sched.Unreachable)
	}
}

func TestComputeOrder_AllNodesDependent(t *testing.T) {
	// No node is dependency-free and no entry is declared; the graph is
	// necessarily cyclic and the error says so.
	g := &Graph{
		Nodes: []Node{
			node("a", "c"),
			node("b", "a"),
			node("c", "b"),
		},
	}

	_, err := ComputeOrder(g)
	assertCode(t, err, errors.ErrCodeCycleDetected)
}

func TestComputeOrder_Deterministic(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			node("e1"),
			node("e2"),
			node("m1", "e1", "e2"),
			node("m2", "e1"),
			node("end", "m1", "m2"),
		},
	}

	first, err := ComputeOrder(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := ComputeOrder(g)
		if err != nil {
			t.Fatalf("unexpected error on iteration %d: %v", i, err)
		}
		if len(again.Order) != len(first.Order) {
			t.Fatalf("order length changed: %v vs %v", first.Order, again.Order)
		}
		for j := range first.Order {
			if again.Order[j] != first.Order[j] {
				t.Fatalf("order changed on iteration %d: %v vs %v", i, first.Order, again.Order)
			}
		}
	}
}

func TestComputeOrder_EmptyGraph(t *testing.T) {
	sched, err := ComputeOrder(&Graph{Name: "empty"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.Order) != 0 || len(sched.Unreachable) != 0 {
		t.Fatalf("expected empty schedule, got %+v", sched)
	}
}

// --- Graph tests ---

func TestGraph_NodeLookup(t *testing.T) {
	g := &Graph{Nodes: []Node{node("a"), node("b")}}

	n, ok := g.Node("b")
	if !ok || n.ID != "b" {
		t.Fatalf("expected to find b, got %+v (ok=%v)", n, ok)
	}
	if _, ok := g.Node("missing"); ok {
		t.Fatal("expected missing node")
	}
}

func TestGraph_OutputKeyOf(t *testing.T) {
	g := &Graph{}
	if key := g.OutputKeyOf(Node{ID: "a"}); key != "a" {
		t.Fatalf("expected default key a, got %q", key)
	}
	if key := g.OutputKeyOf(Node{ID: "a", OutputKey: "custom"}); key != "custom" {
		t.Fatalf("expected custom, got %q", key)
	}
}

// --- Kind tests ---

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"explore", KindExplore, false},
		{"plan", KindPlan, false},
		{"analyze", KindAnalyze, false},
		{"generate", KindGenerate, false},
		{"verify", KindVerify, false},
		{"general", KindGeneral, false},
		{"", KindGeneral, false},
		{"wizardry", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range Kinds() {
		if !k.Valid() {
			t.Errorf("kind %q should be valid", k)
		}
	}
	if Kind("wizardry").Valid() {
		t.Error("unknown kind should be invalid")
	}
}
