package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectInactive  ProjectStatus = "INACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
)

type Project struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string              `json:"name" bson:"name"`
	ClientName string              `json:"clientName,omitempty" bson:"client_name,omitempty"`
	ManagerID  *primitive.ObjectID `json:"managerId,omitempty" bson:"manager_id,omitempty"`
	Budget     float64             `json:"budget,omitempty" bson:"budget,omitempty"`
	StartDate  *time.Time          `json:"startDate,omitempty" bson:"start_date,omitempty"`
	EndDate    *time.Time          `json:"endDate,omitempty" bson:"end_date,omitempty"`
	Status     ProjectStatus       `json:"status" bson:"status"`

	// ScheduleDirty is set by any task/dependency/membership mutation and
	// cleared by a successful recalculation. The engine itself is stateless;
	// deciding when to recalculate is this service's job.
	ScheduleDirty bool `json:"scheduleDirty" bson:"schedule_dirty"`
}
