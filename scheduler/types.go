package scheduler

import "time"

// RelationKind is the type of a dependency edge between two tasks.
type RelationKind string

const (
	// FinishToStart starts the successor on the next working day after the
	// predecessor ends.
	FinishToStart RelationKind = "FS"
	// StartToStart starts the successor no earlier than the predecessor.
	StartToStart RelationKind = "SS"
	// FinishToFinish ends the successor no earlier than the predecessor ends.
	FinishToFinish RelationKind = "FF"
	// StartToFinish ends the successor no earlier than the predecessor starts.
	StartToFinish RelationKind = "SF"
)

func (k RelationKind) IsValid() bool {
	switch k {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// TaskInput is one task of the snapshot handed to the engine. Allocation is
// the resolved ratio of the assignee on the project; nil means the task is
// unassigned and is scheduled at full allocation with an advisory flag.
type TaskInput struct {
	ID            string
	Name          string
	Effort        float64
	Allocation    *float64
	EarliestStart *time.Time
	Deadline      *time.Time
	Milestone     bool
}

// DependencyInput is one edge of the snapshot: Successor cannot proceed
// independently of Predecessor, with the exact constraint given by Kind.
type DependencyInput struct {
	PredecessorID string
	SuccessorID   string
	Kind          RelationKind
}

// Window bounds the project on the calendar. Tasks scheduled outside it are
// flagged, never rejected.
type Window struct {
	Start time.Time
	End   time.Time
}

// Request is a complete, self-contained calculation input. Epoch is the
// baseline date no task may start before.
type Request struct {
	Epoch        time.Time
	Window       *Window
	Tasks        []TaskInput
	Dependencies []DependencyInput
}

// TaskSchedule is the computed placement of one task. The advisory flags
// report conditions the caller may want to surface; none of them fails the
// calculation.
type TaskSchedule struct {
	TaskID        string    `json:"taskId"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	WorkingDays   int       `json:"workingDays"`
	OverDeadline  bool      `json:"overDeadline"`
	Unassigned    bool      `json:"unassigned"`
	OutsideWindow bool      `json:"outsideWindow"`
}

// Result is a successful calculation: a schedule per task, every critical
// path in deterministic order and the inclusive calendar-day span from the
// epoch to the latest end date.
type Result struct {
	Tasks         map[string]*TaskSchedule `json:"tasks"`
	CriticalPaths [][]string               `json:"criticalPaths"`
	TotalDuration int                      `json:"totalDuration"`
}
