package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectMember links an employee to a project together with the fraction of
// their working time committed to it. The allocation ratio is what stretches a
// task's person-day effort into elapsed working days during recalculation.
type ProjectMember struct {
	ProjectID       primitive.ObjectID `json:"projectId" bson:"project_id"`
	EmployeeID      primitive.ObjectID `json:"employeeId" bson:"employee_id"`
	RoleInProject   string             `json:"roleInProject,omitempty" bson:"role_in_project,omitempty"`
	AllocationRatio float64            `json:"allocationRatio" bson:"allocation_ratio"`
	JoinDate        *time.Time         `json:"joinDate,omitempty" bson:"join_date,omitempty"`
	LeaveDate       *time.Time         `json:"leaveDate,omitempty" bson:"leave_date,omitempty"`

	Employee *Employee `json:"employee,omitempty" bson:"-"`
}
