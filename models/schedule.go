package models

import "time"

// ScheduleRequest is the recalculation trigger body. An explicit epoch
// overrides the baseline; otherwise the project start date is used, falling
// back to the current date.
type ScheduleRequest struct {
	Epoch *time.Time `json:"epoch,omitempty"`
}

// ScheduleTaskView is one task's computed placement in a recalculation
// response.
type ScheduleTaskView struct {
	TaskID        string    `json:"taskId"`
	Name          string    `json:"name"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	WorkingDays   int       `json:"workingDays"`
	OverDeadline  bool      `json:"overDeadline"`
	Unassigned    bool      `json:"unassigned"`
	OutsideWindow bool      `json:"outsideWindow"`
}

// ScheduleResponse is one complete recalculation result. It is produced
// fresh on every request and superseded by the next one; only the per-task
// dates are persisted.
type ScheduleResponse struct {
	ProjectID         string             `json:"projectId"`
	Epoch             time.Time          `json:"epoch"`
	CalculatedAt      time.Time          `json:"calculatedAt"`
	Tasks             []ScheduleTaskView `json:"tasks"`
	CriticalPaths     [][]string         `json:"criticalPaths"`
	TotalDurationDays int                `json:"totalDurationDays"`
}
