package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type TaskChecklist struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TaskID    primitive.ObjectID `json:"taskId" bson:"task_id"`
	ItemName  string             `json:"itemName" bson:"item_name"`
	IsDone    bool               `json:"isDone" bson:"is_done"`
	SortOrder int                `json:"sortOrder" bson:"sort_order"`
}
