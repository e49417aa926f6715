package scheduler

import (
	"errors"
	"fmt"
	"math"
)

// SessionState is the phase a scheduling session is in.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateValidating SessionState = "validating"
	StateScheduling SessionState = "scheduling"
	StateExtracting SessionState = "extracting"
	StateDone       SessionState = "done"
	StateFailed     SessionState = "failed"
)

// Session drives one calculation from snapshot to result. A session is
// single use: Run may be called once, after which the session only reports
// its terminal state.
type Session struct {
	state  SessionState
	req    Request
	result *Result
	err    error
}

func NewSession(req Request) *Session {
	return &Session{state: StateIdle, req: req}
}

func (s *Session) State() SessionState { return s.state }

// Run executes the validating, scheduling and extracting phases in order.
// Any failure is terminal; once scheduling succeeds the remaining phases
// cannot fail.
func (s *Session) Run() (*Result, error) {
	if s.state != StateIdle {
		return nil, fmt.Errorf("schedule session already ran (state %s)", s.state)
	}

	s.state = StateValidating
	if s.req.Epoch.IsZero() {
		return s.fail(invalidf("", "schedule epoch is required"))
	}
	epoch := dateOnly(s.req.Epoch)

	if len(s.req.Tasks) == 0 {
		s.result = &Result{Tasks: map[string]*TaskSchedule{}, TotalDuration: 0}
		s.state = StateDone
		return s.result, nil
	}

	g, err := buildGraph(s.req.Tasks, s.req.Dependencies)
	if err != nil {
		return s.fail(err)
	}
	durations, err := taskDurations(s.req.Tasks)
	if err != nil {
		return s.fail(err)
	}

	s.state = StateScheduling
	order, err := g.topologicalOrder()
	if err != nil {
		return s.fail(err)
	}
	placed := forwardPass(g, order, durations, epoch)

	s.state = StateExtracting
	paths := criticalPaths(g, placed)
	total := totalDuration(epoch, placed, g.ids)

	tasks := make(map[string]*TaskSchedule, len(placed))
	for _, id := range g.ids {
		p := placed[id]
		overDeadline, unassigned, outsideWindow := flagsFor(p, s.req.Window)
		tasks[id] = &TaskSchedule{
			TaskID:        id,
			StartDate:     p.start,
			EndDate:       p.end,
			WorkingDays:   p.days,
			OverDeadline:  overDeadline,
			Unassigned:    unassigned,
			OutsideWindow: outsideWindow,
		}
	}

	s.result = &Result{Tasks: tasks, CriticalPaths: paths, TotalDuration: total}
	s.state = StateDone
	return s.result, nil
}

func (s *Session) fail(err error) (*Result, error) {
	s.state = StateFailed
	s.err = err
	return nil, err
}

// taskDurations resolves every task to its working-day duration, rejecting
// non-positive effort and allocation ratios. Milestones are one-day points
// regardless of effort.
func taskDurations(tasks []TaskInput) (map[string]int, error) {
	durations := make(map[string]int, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if t.Milestone {
			durations[t.ID] = 1
			continue
		}
		if math.IsNaN(t.Effort) || math.IsInf(t.Effort, 0) || t.Effort <= 0 {
			return nil, invalidf(t.ID, "effort must be positive, got %v", t.Effort)
		}
		ratio := 1.0
		if t.Allocation != nil {
			ratio = *t.Allocation
		}
		days, err := workingDaysNeeded(t.Effort, ratio)
		if err != nil {
			var ierr *InputError
			if errors.As(err, &ierr) {
				return nil, &InputError{TaskID: t.ID, Reason: ierr.Reason}
			}
			return nil, err
		}
		durations[t.ID] = days
	}
	return durations, nil
}

// Calculate runs one complete scheduling session over the request.
func Calculate(req Request) (*Result, error) {
	return NewSession(req).Run()
}
