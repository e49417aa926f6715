package scheduler

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func sept(d int) time.Time {
	return date(2025, time.September, d)
}

func assigned(id string, effort, alloc float64) TaskInput {
	return TaskInput{ID: id, Effort: effort, Allocation: &alloc}
}

func allocOf(v float64) *float64 { return &v }

func mustCalculate(t *testing.T, req Request) *Result {
	t.Helper()
	res, err := Calculate(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func assertTask(t *testing.T, res *Result, id string, start, end time.Time, days int) {
	t.Helper()
	ts, ok := res.Tasks[id]
	if !ok {
		t.Fatalf("task %s missing from result", id)
	}
	if !ts.StartDate.Equal(start) || !ts.EndDate.Equal(end) {
		t.Errorf("task %s: expected %s..%s, got %s..%s", id,
			start.Format("2006-01-02"), end.Format("2006-01-02"),
			ts.StartDate.Format("2006-01-02"), ts.EndDate.Format("2006-01-02"))
	}
	if ts.WorkingDays != days {
		t.Errorf("task %s: expected %d working days, got %d", id, days, ts.WorkingDays)
	}
}

// Scenario: a five person-day task at full allocation fills the first week,
// and its FS successor at 0.8 allocation needs ten working days across the
// following two weeks.
func TestCalculate_FinishToStartChain(t *testing.T) {
	req := Request{
		Epoch: sept(1), // Monday
		Tasks: []TaskInput{
			assigned("t1", 5, 1.0),
			assigned("t2", 8, 0.8),
		},
		Dependencies: []DependencyInput{dep("t1", "t2", FinishToStart)},
	}

	res := mustCalculate(t, req)

	assertTask(t, res, "t1", sept(1), sept(5), 5)
	assertTask(t, res, "t2", sept(8), sept(19), 10)
	if !reflect.DeepEqual(res.CriticalPaths, [][]string{{"t1", "t2"}}) {
		t.Errorf("expected critical path [t1 t2], got %v", res.CriticalPaths)
	}
	if res.TotalDuration != 19 {
		t.Errorf("expected total duration 19, got %d", res.TotalDuration)
	}
}

func TestCalculate_StartToStartSharesStart(t *testing.T) {
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("t1", 5, 1.0),
			assigned("t2", 8, 0.8),
		},
		Dependencies: []DependencyInput{dep("t1", "t2", StartToStart)},
	}

	res := mustCalculate(t, req)

	assertTask(t, res, "t1", sept(1), sept(5), 5)
	assertTask(t, res, "t2", sept(1), sept(12), 10)
	if res.TotalDuration != 12 {
		t.Errorf("expected total duration 12, got %d", res.TotalDuration)
	}
}

func TestCalculate_CriticalPathSkipsParallelTask(t *testing.T) {
	// a -> b -> c in sequence, d runs alone.
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("a", 2, 1.0),
			assigned("b", 3, 1.0),
			assigned("c", 2, 1.0),
			assigned("d", 1, 1.0),
		},
		Dependencies: []DependencyInput{
			dep("a", "b", FinishToStart),
			dep("b", "c", FinishToStart),
		},
	}

	res := mustCalculate(t, req)

	assertTask(t, res, "a", sept(1), sept(2), 2)
	assertTask(t, res, "b", sept(3), sept(5), 3)
	assertTask(t, res, "c", sept(8), sept(9), 2)
	assertTask(t, res, "d", sept(1), sept(1), 1)

	if !reflect.DeepEqual(res.CriticalPaths, [][]string{{"a", "b", "c"}}) {
		t.Errorf("expected critical path [a b c], got %v", res.CriticalPaths)
	}
	if res.TotalDuration != 9 {
		t.Errorf("expected total duration 9, got %d", res.TotalDuration)
	}
}

func TestCalculate_CycleRejectedWithoutDates(t *testing.T) {
	valid := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("a", 2, 1.0),
			assigned("b", 3, 1.0),
			assigned("c", 2, 1.0),
		},
		Dependencies: []DependencyInput{
			dep("a", "b", FinishToStart),
			dep("b", "c", FinishToStart),
		},
	}
	prior := mustCalculate(t, valid)
	priorStart, priorEnd := prior.Tasks["c"].StartDate, prior.Tasks["c"].EndDate

	closed := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("a", 2, 1.0),
			assigned("b", 3, 1.0),
			assigned("c", 2, 1.0),
		},
		Dependencies: []DependencyInput{
			dep("a", "b", FinishToStart),
			dep("b", "c", FinishToStart),
			dep("c", "a", FinishToStart),
		},
	}

	res, err := Calculate(closed)
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}
	if res != nil {
		t.Errorf("expected no result for cyclic input, got %+v", res)
	}

	// The rejected attempt must not touch the earlier schedule.
	if !prior.Tasks["c"].StartDate.Equal(priorStart) || !prior.Tasks["c"].EndDate.Equal(priorEnd) {
		t.Errorf("prior schedule mutated by rejected recalculation")
	}
}

func TestCalculate_FinishToFinishAlignsEnds(t *testing.T) {
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("t1", 5, 1.0),
			assigned("t2", 2, 1.0),
		},
		Dependencies: []DependencyInput{dep("t1", "t2", FinishToFinish)},
	}

	res := mustCalculate(t, req)

	assertTask(t, res, "t1", sept(1), sept(5), 5)
	assertTask(t, res, "t2", sept(4), sept(5), 2)

	// Both tasks close the project, so each terminal yields its own path.
	want := [][]string{{"t1"}, {"t1", "t2"}}
	if !reflect.DeepEqual(res.CriticalPaths, want) {
		t.Errorf("expected paths %v, got %v", want, res.CriticalPaths)
	}
}

func TestCalculate_StartToFinishEpochBinds(t *testing.T) {
	// The SF bound falls before the epoch, so the epoch wins and the walk
	// finds no binding predecessor.
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("t1", 3, 1.0),
			assigned("t2", 4, 1.0),
		},
		Dependencies: []DependencyInput{dep("t1", "t2", StartToFinish)},
	}

	res := mustCalculate(t, req)

	assertTask(t, res, "t2", sept(1), sept(4), 4)
	if res.Tasks["t2"].EndDate.Before(res.Tasks["t1"].StartDate) {
		t.Errorf("SF invariant violated: successor ends %v before predecessor starts %v",
			res.Tasks["t2"].EndDate, res.Tasks["t1"].StartDate)
	}
	if !reflect.DeepEqual(res.CriticalPaths, [][]string{{"t2"}}) {
		t.Errorf("expected path [t2], got %v", res.CriticalPaths)
	}
}

func TestCalculate_EdgeInvariants(t *testing.T) {
	deps := []DependencyInput{
		dep("a", "b", FinishToStart),
		dep("a", "c", StartToStart),
		dep("b", "d", FinishToFinish),
		dep("c", "e", StartToFinish),
	}
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("a", 3, 1.0),
			assigned("b", 2, 1.0),
			assigned("c", 4, 1.0),
			assigned("d", 2, 1.0),
			assigned("e", 3, 1.0),
		},
		Dependencies: deps,
	}

	res := mustCalculate(t, req)

	for _, d := range deps {
		pred, succ := res.Tasks[d.PredecessorID], res.Tasks[d.SuccessorID]
		switch d.Kind {
		case FinishToStart:
			if !succ.StartDate.After(pred.EndDate) {
				t.Errorf("FS %s->%s: successor starts %v, predecessor ends %v",
					d.PredecessorID, d.SuccessorID, succ.StartDate, pred.EndDate)
			}
		case StartToStart:
			if succ.StartDate.Before(pred.StartDate) {
				t.Errorf("SS %s->%s: successor starts %v before predecessor %v",
					d.PredecessorID, d.SuccessorID, succ.StartDate, pred.StartDate)
			}
		case FinishToFinish:
			if succ.EndDate.Before(pred.EndDate) {
				t.Errorf("FF %s->%s: successor ends %v before predecessor %v",
					d.PredecessorID, d.SuccessorID, succ.EndDate, pred.EndDate)
			}
		case StartToFinish:
			if succ.EndDate.Before(pred.StartDate) {
				t.Errorf("SF %s->%s: successor ends %v before predecessor starts %v",
					d.PredecessorID, d.SuccessorID, succ.EndDate, pred.StartDate)
			}
		}
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("a", 3, 1.0),
			assigned("b", 2, 0.5),
			assigned("c", 4, 1.0),
		},
		Dependencies: []DependencyInput{
			dep("a", "b", FinishToStart),
			dep("a", "c", StartToStart),
		},
	}

	first := mustCalculate(t, req)
	second := mustCalculate(t, req)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("recalculation on identical input differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCalculate_LowerAllocationNeverShortens(t *testing.T) {
	full := mustCalculate(t, Request{
		Epoch: sept(1),
		Tasks: []TaskInput{assigned("t", 8, 1.0)},
	})
	half := mustCalculate(t, Request{
		Epoch: sept(1),
		Tasks: []TaskInput{assigned("t", 8, 0.5)},
	})

	if full.Tasks["t"].WorkingDays != 8 || half.Tasks["t"].WorkingDays != 16 {
		t.Errorf("expected 8 and 16 working days, got %d and %d",
			full.Tasks["t"].WorkingDays, half.Tasks["t"].WorkingDays)
	}
	if half.Tasks["t"].EndDate.Before(full.Tasks["t"].EndDate) {
		t.Errorf("halving allocation shortened the task: %v < %v",
			half.Tasks["t"].EndDate, full.Tasks["t"].EndDate)
	}
}

func TestCalculate_MilestoneIsSingleDay(t *testing.T) {
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("t1", 5, 1.0),
			{ID: "m", Effort: 99, Allocation: allocOf(1.0), Milestone: true},
		},
		Dependencies: []DependencyInput{dep("t1", "m", FinishToStart)},
	}

	res := mustCalculate(t, req)

	assertTask(t, res, "m", sept(8), sept(8), 1)
	if !reflect.DeepEqual(res.CriticalPaths, [][]string{{"t1", "m"}}) {
		t.Errorf("expected path [t1 m], got %v", res.CriticalPaths)
	}
}

func TestCalculate_UnassignedFlaggedNotBlocking(t *testing.T) {
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			{ID: "u", Effort: 5}, // no allocation resolved
			assigned("v", 1, 1.0),
		},
		Dependencies: []DependencyInput{dep("u", "v", FinishToStart)},
	}

	res := mustCalculate(t, req)

	assertTask(t, res, "u", sept(1), sept(5), 5)
	assertTask(t, res, "v", sept(8), sept(8), 1)
	if !res.Tasks["u"].Unassigned {
		t.Error("expected task u flagged unassigned")
	}
	if res.Tasks["v"].Unassigned {
		t.Error("task v has an assignee, expected no flag")
	}
}

func TestCalculate_OverDeadlineFlagged(t *testing.T) {
	tight, loose := sept(3), sept(5)
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			{ID: "t1", Effort: 5, Allocation: allocOf(1.0), Deadline: &tight},
			{ID: "t2", Effort: 5, Allocation: allocOf(1.0), Deadline: &loose},
		},
	}

	res := mustCalculate(t, req)

	if !res.Tasks["t1"].OverDeadline {
		t.Error("expected t1 over deadline (ends 09-05, deadline 09-03)")
	}
	if res.Tasks["t2"].OverDeadline {
		t.Error("t2 ends exactly on its deadline, expected no flag")
	}
	// Dates are reported, not clamped.
	assertTask(t, res, "t1", sept(1), sept(5), 5)
}

func TestCalculate_OutsideWindowFlagged(t *testing.T) {
	req := Request{
		Epoch:  sept(1),
		Window: &Window{Start: sept(1), End: sept(10)},
		Tasks: []TaskInput{
			assigned("t1", 5, 1.0),
			assigned("t2", 8, 0.8),
		},
		Dependencies: []DependencyInput{dep("t1", "t2", FinishToStart)},
	}

	res := mustCalculate(t, req)

	if res.Tasks["t1"].OutsideWindow {
		t.Error("t1 fits the window, expected no flag")
	}
	if !res.Tasks["t2"].OutsideWindow {
		t.Error("expected t2 flagged, it ends past the window")
	}
}

func TestCalculate_EarliestStartRespected(t *testing.T) {
	later := sept(10)
	earlier := date(2025, time.August, 25)
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			{ID: "a", Effort: 2, Allocation: allocOf(1.0), EarliestStart: &later},
			{ID: "b", Effort: 2, Allocation: allocOf(1.0), EarliestStart: &earlier},
		},
	}

	res := mustCalculate(t, req)

	assertTask(t, res, "a", sept(10), sept(11), 2)
	// An earliest start before the epoch does not pull the task ahead of it.
	assertTask(t, res, "b", sept(1), sept(2), 2)
}

func TestCalculate_EmptyTaskSetTrivial(t *testing.T) {
	res := mustCalculate(t, Request{Epoch: sept(1)})

	if len(res.Tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(res.Tasks))
	}
	if len(res.CriticalPaths) != 0 {
		t.Errorf("expected no critical paths, got %v", res.CriticalPaths)
	}
	if res.TotalDuration != 0 {
		t.Errorf("expected total duration 0, got %d", res.TotalDuration)
	}
}

func TestCalculate_ZeroEpochRejected(t *testing.T) {
	_, err := Calculate(Request{Tasks: idTasks("a")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCalculate_NonPositiveEffortRejected(t *testing.T) {
	for _, effort := range []float64{0, -2} {
		_, err := Calculate(Request{
			Epoch: sept(1),
			Tasks: []TaskInput{assigned("bad", effort, 1.0)},
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("effort %v: expected ErrInvalidInput, got %v", effort, err)
		}
		var ierr *InputError
		if !errors.As(err, &ierr) || ierr.TaskID != "bad" {
			t.Errorf("effort %v: expected InputError naming the task, got %v", effort, err)
		}
	}
}

func TestCalculate_NonPositiveAllocationRejected(t *testing.T) {
	for _, alloc := range []float64{0, -0.5} {
		_, err := Calculate(Request{
			Epoch: sept(1),
			Tasks: []TaskInput{assigned("bad", 5, alloc)},
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("allocation %v: expected ErrInvalidInput, got %v", alloc, err)
		}
		var ierr *InputError
		if !errors.As(err, &ierr) || ierr.TaskID != "bad" {
			t.Errorf("allocation %v: expected InputError naming the task, got %v", alloc, err)
		}
	}
}

func TestCalculate_ComponentsShareEpoch(t *testing.T) {
	// Two unconnected chains; the longer one carries the critical path.
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("x1", 2, 1.0),
			assigned("x2", 2, 1.0),
			assigned("y1", 3, 1.0),
			assigned("y2", 1, 1.0),
			assigned("y3", 5, 1.0),
		},
		Dependencies: []DependencyInput{
			dep("x1", "x2", FinishToStart),
			dep("y1", "y2", FinishToStart),
			dep("y2", "y3", FinishToStart),
		},
	}

	res := mustCalculate(t, req)

	assertTask(t, res, "x1", sept(1), sept(2), 2)
	assertTask(t, res, "y1", sept(1), sept(3), 3)
	assertTask(t, res, "y3", sept(5), sept(11), 5)
	if !reflect.DeepEqual(res.CriticalPaths, [][]string{{"y1", "y2", "y3"}}) {
		t.Errorf("expected path [y1 y2 y3], got %v", res.CriticalPaths)
	}
	if res.TotalDuration != 11 {
		t.Errorf("expected total duration 11, got %d", res.TotalDuration)
	}
}

func TestCalculate_OnePathPerTerminal(t *testing.T) {
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("a", 5, 1.0),
			assigned("b", 5, 1.0),
		},
	}

	res := mustCalculate(t, req)

	want := [][]string{{"a"}, {"b"}}
	if !reflect.DeepEqual(res.CriticalPaths, want) {
		t.Errorf("expected one path per terminal %v, got %v", want, res.CriticalPaths)
	}
}

func TestCalculate_BindingPrefersLaterEnd(t *testing.T) {
	// Both predecessors bind c's start through SS edges; b finishes later.
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("a", 2, 1.0),
			assigned("b", 3, 1.0),
			assigned("c", 5, 1.0),
		},
		Dependencies: []DependencyInput{
			dep("a", "c", StartToStart),
			dep("b", "c", StartToStart),
		},
	}

	res := mustCalculate(t, req)

	if !reflect.DeepEqual(res.CriticalPaths, [][]string{{"b", "c"}}) {
		t.Errorf("expected path [b c], got %v", res.CriticalPaths)
	}
}

func TestCalculate_BindingTieFallsToSmallerID(t *testing.T) {
	req := Request{
		Epoch: sept(1),
		Tasks: []TaskInput{
			assigned("a", 2, 1.0),
			assigned("b", 2, 1.0),
			assigned("c", 5, 1.0),
		},
		Dependencies: []DependencyInput{
			dep("a", "c", StartToStart),
			dep("b", "c", StartToStart),
		},
	}

	res := mustCalculate(t, req)

	if !reflect.DeepEqual(res.CriticalPaths, [][]string{{"a", "c"}}) {
		t.Errorf("expected path [a c], got %v", res.CriticalPaths)
	}
}

func TestSession_StateTransitions(t *testing.T) {
	ok := NewSession(Request{Epoch: sept(1), Tasks: idTasks("a")})
	if ok.State() != StateIdle {
		t.Errorf("expected idle before run, got %s", ok.State())
	}
	if _, err := ok.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok.State() != StateDone {
		t.Errorf("expected done after run, got %s", ok.State())
	}

	bad := NewSession(Request{
		Epoch: sept(1),
		Tasks: idTasks("a", "b"),
		Dependencies: []DependencyInput{
			dep("a", "b", FinishToStart),
			dep("b", "a", FinishToStart),
		},
	})
	if _, err := bad.Run(); !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}
	if bad.State() != StateFailed {
		t.Errorf("expected failed after cycle, got %s", bad.State())
	}
}

func TestSession_SingleUse(t *testing.T) {
	s := NewSession(Request{Epoch: sept(1), Tasks: idTasks("a")})
	if _, err := s.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Run(); err == nil {
		t.Fatal("expected error on second run of the same session")
	}
	if s.State() != StateDone {
		t.Errorf("rerun attempt changed state to %s", s.State())
	}
}
