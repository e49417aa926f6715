package models

// GraphNode is a task as the dependency-graph editor draws it.
type GraphNode struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Milestone bool   `json:"milestone"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

// GraphEdge is a typed dependency between two drawn nodes.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

// GraphResponse is the editor's project-wide view: every task node plus every
// dependency edge currently in the workflow graph.
type GraphResponse struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
