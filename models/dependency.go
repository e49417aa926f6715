package models

// DependencyKind categorizes the precedence relation between two tasks.
type DependencyKind string

const (
	FinishToStart  DependencyKind = "FS"
	StartToStart   DependencyKind = "SS"
	FinishToFinish DependencyKind = "FF"
	StartToFinish  DependencyKind = "SF"
)

// IsValid reports whether the kind is one of the four recognized relations.
func (k DependencyKind) IsValid() bool {
	switch k {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// TaskDependency is a typed precedence edge: TaskID cannot be scheduled freely,
// it is bound to DependsOnID by the relation kind. Edges live in the Neo4j
// workflow graph, not in Mongo; this is their wire shape.
type TaskDependency struct {
	TaskID      string         `json:"taskId"`
	DependsOnID string         `json:"dependsOnId"`
	Kind        DependencyKind `json:"kind"`
}
