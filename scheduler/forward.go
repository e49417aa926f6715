package scheduler

import "time"

// placement is the working state of one task during and after the forward
// pass. bounds keeps the start lower bound implied by each incoming edge so
// the critical-path walk can tell which predecessor was binding.
type placement struct {
	input  *TaskInput
	days   int
	start  time.Time
	end    time.Time
	bounds map[string]time.Time
}

// edgeBound translates one dependency edge into the earliest start the
// successor may take, given the predecessor's placement and the successor's
// working-day duration.
func edgeBound(kind RelationKind, pred *placement, successorDays int) time.Time {
	switch kind {
	case StartToStart:
		return pred.start
	case FinishToFinish:
		return retreat(pred.end, successorDays)
	case StartToFinish:
		return retreat(pred.start, successorDays)
	default: // FinishToStart, the only kind left after validation
		return nextWorkingDay(pred.end)
	}
}

// forwardPass places every task in topological order. Each start is the
// latest of the epoch, the task's own earliest-start constraint and the
// bounds implied by its incoming edges; the end then follows from the
// working-day duration. Validation has already rejected every fatal
// condition, so the pass cannot fail.
func forwardPass(g *depGraph, order []string, durations map[string]int, epoch time.Time) map[string]*placement {
	placed := make(map[string]*placement, len(order))
	for _, id := range order {
		t := g.tasks[id]
		p := &placement{
			input:  t,
			days:   durations[id],
			bounds: make(map[string]time.Time, len(g.incoming[id])),
		}

		start := epoch
		if t.EarliestStart != nil {
			if es := dateOnly(*t.EarliestStart); es.After(start) {
				start = es
			}
		}
		for _, e := range g.incoming[id] {
			bound := edgeBound(e.kind, placed[e.from], p.days)
			p.bounds[e.from] = bound
			if bound.After(start) {
				start = bound
			}
		}

		p.start = start
		p.end = advance(start, p.days)
		placed[id] = p
	}
	return placed
}

// flagsFor derives the advisory flags of one placed task.
func flagsFor(p *placement, window *Window) (overDeadline, unassigned, outsideWindow bool) {
	if p.input.Deadline != nil && p.end.After(dateOnly(*p.input.Deadline)) {
		overDeadline = true
	}
	if p.input.Allocation == nil {
		unassigned = true
	}
	if window != nil {
		if p.start.Before(dateOnly(window.Start)) || p.end.After(dateOnly(window.End)) {
			outsideWindow = true
		}
	}
	return overDeadline, unassigned, outsideWindow
}
