package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Employee struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	DailyWorkHours float64            `json:"dailyWorkHours" bson:"daily_work_hours"`
}
