package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ProjectPhase is a coarse grouping of tasks used by the WBS and timeline views.
type ProjectPhase struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProjectID   primitive.ObjectID `json:"projectId" bson:"project_id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	SortOrder   int                `json:"sortOrder" bson:"sort_order"`
	Color       string             `json:"color" bson:"color"`
}

// DefaultPhaseColor is applied when a phase is created without one.
const DefaultPhaseColor = "#1976d2"
