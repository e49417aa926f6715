package models

import "time"

type Notification struct {
	ID         string    `cassandra:"id" json:"id"`
	EmployeeID string    `cassandra:"employee_id" json:"employeeId"`
	ProjectID  string    `cassandra:"project_id" json:"projectId"`
	Message    string    `cassandra:"message" json:"message"`
	CreatedAt  time.Time `cassandra:"created_at" json:"createdAt"`
	IsRead     bool      `cassandra:"is_read" json:"isRead"`
}
