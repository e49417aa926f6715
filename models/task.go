package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "NOT_STARTED"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// Task is a WBS node. EstimatedEffort is in person-days; StartDate/EndDate are
// filled in by schedule recalculation and are absent until the first run.
// Category is a first-class optional attribute (it used to be smuggled into the
// description as a bracketed prefix by the old frontend).
type Task struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	ProjectID       primitive.ObjectID  `json:"projectId" bson:"project_id"`
	PhaseID         *primitive.ObjectID `json:"phaseId,omitempty" bson:"phase_id,omitempty"`
	Name            string              `json:"name" bson:"name"`
	Description     string              `json:"description,omitempty" bson:"description,omitempty"`
	Category        string              `json:"category,omitempty" bson:"category,omitempty"`
	EstimatedEffort float64             `json:"estimatedEffort" bson:"estimated_effort"`
	StartDate       *time.Time          `json:"startDate,omitempty" bson:"start_date,omitempty"`
	EndDate         *time.Time          `json:"endDate,omitempty" bson:"end_date,omitempty"`
	EarliestStart   *time.Time          `json:"earliestStart,omitempty" bson:"earliest_start,omitempty"`
	Deadline        *time.Time          `json:"deadline,omitempty" bson:"deadline,omitempty"`
	Status          TaskStatus          `json:"status" bson:"status"`
	MilestoneFlag   bool                `json:"milestoneFlag" bson:"milestone_flag"`
	AssigneeID      *primitive.ObjectID `json:"assigneeId,omitempty" bson:"assignee_id,omitempty"`

	// Node coordinates in the dependency-graph editor.
	XPosition int `json:"xPosition" bson:"x_position"`
	YPosition int `json:"yPosition" bson:"y_position"`
}

// WBSTask is the task listing shape consumed by the WBS and timeline screens:
// the task itself plus resolved assignee/phase, checklist progress and the
// incoming dependency edges from the workflow graph.
type WBSTask struct {
	Task              `bson:",inline"`
	Assignee          *Employee        `json:"assignee,omitempty" bson:"-"`
	Phase             *ProjectPhase    `json:"phase,omitempty" bson:"-"`
	ChecklistProgress float64          `json:"checklistProgress" bson:"-"`
	ChecklistItems    []TaskChecklist  `json:"checklistItems" bson:"-"`
	Dependencies      []TaskDependency `json:"dependencies" bson:"-"`
}
