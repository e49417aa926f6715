package scheduler

import (
	"errors"
	"strings"
	"testing"
)

func idTasks(ids ...string) []TaskInput {
	tasks := make([]TaskInput, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, TaskInput{ID: id, Effort: 1})
	}
	return tasks
}

func dep(pred, succ string, kind RelationKind) DependencyInput {
	return DependencyInput{PredecessorID: pred, SuccessorID: succ, Kind: kind}
}

func mustBuild(t *testing.T, tasks []TaskInput, deps []DependencyInput) *depGraph {
	t.Helper()
	g, err := buildGraph(tasks, deps)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

func assertLinearization(t *testing.T, order []string, deps []DependencyInput) {
	t.Helper()
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, d := range deps {
		if pos[d.PredecessorID] >= pos[d.SuccessorID] {
			t.Errorf("edge %s -> %s not respected in order %v", d.PredecessorID, d.SuccessorID, order)
		}
	}
}

func TestBuildGraph_RejectsEmptyID(t *testing.T) {
	_, err := buildGraph([]TaskInput{{ID: "", Effort: 1}}, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildGraph_RejectsDuplicateID(t *testing.T) {
	_, err := buildGraph(idTasks("a", "a"), nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var ierr *InputError
	if !errors.As(err, &ierr) || ierr.TaskID != "a" {
		t.Errorf("expected InputError naming task a, got %v", err)
	}
}

func TestBuildGraph_RejectsUnknownReference(t *testing.T) {
	tasks := idTasks("a")

	_, err := buildGraph(tasks, []DependencyInput{dep("ghost", "a", FinishToStart)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown predecessor: expected ErrInvalidInput, got %v", err)
	}

	_, err = buildGraph(tasks, []DependencyInput{dep("a", "ghost", FinishToStart)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown successor: expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildGraph_RejectsSelfDependency(t *testing.T) {
	_, err := buildGraph(idTasks("a"), []DependencyInput{dep("a", "a", FinishToStart)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildGraph_RejectsDuplicateEdge(t *testing.T) {
	// The same ordered pair is rejected even under a different kind.
	deps := []DependencyInput{
		dep("a", "b", FinishToStart),
		dep("a", "b", StartToStart),
	}
	_, err := buildGraph(idTasks("a", "b"), deps)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildGraph_RejectsUnknownKind(t *testing.T) {
	_, err := buildGraph(idTasks("a", "b"), []DependencyInput{dep("a", "b", RelationKind("XX"))})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTopologicalOrder_LinearChain(t *testing.T) {
	deps := []DependencyInput{
		dep("a", "b", FinishToStart),
		dep("b", "c", FinishToStart),
	}
	g := mustBuild(t, idTasks("c", "a", "b"), deps)

	order, err := g.topologicalOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("expected [a b c], got %v", order)
	}
}

func TestTopologicalOrder_AscendingTieBreak(t *testing.T) {
	g := mustBuild(t, idTasks("c", "a", "b"), nil)

	order, err := g.topologicalOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("expected ascending [a b c], got %v", order)
	}
}

func TestTopologicalOrder_DiamondIsLinearization(t *testing.T) {
	// a -> b -> d
	// a -> c -> d
	deps := []DependencyInput{
		dep("a", "b", FinishToStart),
		dep("a", "c", StartToStart),
		dep("b", "d", FinishToFinish),
		dep("c", "d", FinishToStart),
	}
	g := mustBuild(t, idTasks("a", "b", "c", "d"), deps)

	order, err := g.topologicalOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("expected 4 tasks in order, got %v", order)
	}
	assertLinearization(t, order, deps)
}

func TestTopologicalOrder_CycleWitness(t *testing.T) {
	deps := []DependencyInput{
		dep("a", "b", FinishToStart),
		dep("b", "c", FinishToStart),
		dep("c", "a", FinishToStart),
	}
	g := mustBuild(t, idTasks("a", "b", "c"), deps)

	_, err := g.topologicalOrder()
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}

	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if len(cerr.TaskIDs) != 3 || cerr.TaskIDs[0] != "a" || cerr.TaskIDs[1] != "b" || cerr.TaskIDs[2] != "c" {
		t.Errorf("expected cycle witness [a b c], got %v", cerr.TaskIDs)
	}
	if msg := err.Error(); !strings.Contains(msg, "a -> b -> c -> a") {
		t.Errorf("expected witness in message, got %q", msg)
	}
}

func TestTopologicalOrder_TwoNodeCycle(t *testing.T) {
	deps := []DependencyInput{
		dep("a", "b", StartToStart),
		dep("b", "a", StartToStart),
	}
	g := mustBuild(t, idTasks("a", "b"), deps)

	_, err := g.topologicalOrder()
	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if len(cerr.TaskIDs) != 2 {
		t.Errorf("expected 2 cycle members, got %v", cerr.TaskIDs)
	}
}

func TestTopologicalOrder_CycleBesideCleanComponent(t *testing.T) {
	// x1 -> x2 is fine, m <-> n is not.
	deps := []DependencyInput{
		dep("x1", "x2", FinishToStart),
		dep("m", "n", FinishToStart),
		dep("n", "m", FinishToStart),
	}
	g := mustBuild(t, idTasks("x1", "x2", "m", "n"), deps)

	_, err := g.topologicalOrder()
	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if len(cerr.TaskIDs) != 2 || cerr.TaskIDs[0] != "m" || cerr.TaskIDs[1] != "n" {
		t.Errorf("expected cycle witness [m n], got %v", cerr.TaskIDs)
	}
}
