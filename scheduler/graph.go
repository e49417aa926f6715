package scheduler

import (
	"container/heap"
	"sort"
)

type edge struct {
	from string
	to   string
	kind RelationKind
}

// depGraph is the validated dependency structure of one request: task inputs
// by id, the ids in ascending order and adjacency in both directions.
type depGraph struct {
	tasks    map[string]*TaskInput
	ids      []string
	incoming map[string][]edge
	outgoing map[string][]edge
}

// buildGraph validates the structural part of a snapshot and indexes it.
// Field-level task validation happens separately in the session.
func buildGraph(tasks []TaskInput, deps []DependencyInput) (*depGraph, error) {
	g := &depGraph{
		tasks:    make(map[string]*TaskInput, len(tasks)),
		ids:      make([]string, 0, len(tasks)),
		incoming: make(map[string][]edge),
		outgoing: make(map[string][]edge),
	}

	for i := range tasks {
		t := &tasks[i]
		if t.ID == "" {
			return nil, invalidf("", "task with empty identifier")
		}
		if _, exists := g.tasks[t.ID]; exists {
			return nil, invalidf(t.ID, "duplicate task identifier")
		}
		g.tasks[t.ID] = t
		g.ids = append(g.ids, t.ID)
	}
	sort.Strings(g.ids)

	seen := make(map[[2]string]bool, len(deps))
	for _, d := range deps {
		if _, ok := g.tasks[d.PredecessorID]; !ok {
			return nil, invalidf(d.PredecessorID, "dependency references unknown task")
		}
		if _, ok := g.tasks[d.SuccessorID]; !ok {
			return nil, invalidf(d.SuccessorID, "dependency references unknown task")
		}
		if d.PredecessorID == d.SuccessorID {
			return nil, invalidf(d.SuccessorID, "task depends on itself")
		}
		if !d.Kind.IsValid() {
			return nil, invalidf(d.SuccessorID, "unknown relation kind %q", string(d.Kind))
		}
		pair := [2]string{d.PredecessorID, d.SuccessorID}
		if seen[pair] {
			return nil, invalidf(d.SuccessorID, "duplicate dependency on task %q", d.PredecessorID)
		}
		seen[pair] = true

		e := edge{from: d.PredecessorID, to: d.SuccessorID, kind: d.Kind}
		g.outgoing[e.from] = append(g.outgoing[e.from], e)
		g.incoming[e.to] = append(g.incoming[e.to], e)
	}

	// Sorted adjacency keeps every later pass deterministic.
	for _, id := range g.ids {
		sortEdges(g.outgoing[id], func(e edge) string { return e.to })
		sortEdges(g.incoming[id], func(e edge) string { return e.from })
	}
	return g, nil
}

func sortEdges(edges []edge, key func(edge) string) {
	sort.Slice(edges, func(i, j int) bool { return key(edges[i]) < key(edges[j]) })
}

// topologicalOrder runs Kahn's algorithm, always draining the smallest ready
// task identifier first. If the graph has a cycle it returns a CycleError
// carrying one concrete witness.
func (g *depGraph) topologicalOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.ids))
	ready := &stringMinHeap{}
	for _, id := range g.ids {
		indegree[id] = len(g.incoming[id])
		if indegree[id] == 0 {
			heap.Push(ready, id)
		}
	}

	order := make([]string, 0, len(g.ids))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		order = append(order, id)
		for _, e := range g.outgoing[id] {
			indegree[e.to]--
			if indegree[e.to] == 0 {
				heap.Push(ready, e.to)
			}
		}
	}

	if len(order) < len(g.ids) {
		return nil, &CycleError{TaskIDs: g.findCycle()}
	}
	return order, nil
}

const (
	colorWhite = iota
	colorGray
	colorBlack
)

// findCycle extracts one cycle by depth-first search. It is only called
// after Kahn's algorithm proved a cycle exists, so a witness is guaranteed.
func (g *depGraph) findCycle() []string {
	color := make(map[string]int, len(g.ids))
	parent := make(map[string]string, len(g.ids))

	var cycle []string
	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = colorGray
		for _, e := range g.outgoing[id] {
			switch color[e.to] {
			case colorWhite:
				parent[e.to] = id
				if visit(e.to) {
					return true
				}
			case colorGray:
				cycle = backtrackCycle(parent, id, e.to)
				return true
			}
		}
		color[id] = colorBlack
		return false
	}

	for _, id := range g.ids {
		if color[id] == colorWhite && visit(id) {
			return cycle
		}
	}
	return nil
}

// backtrackCycle rebuilds the cycle from the back edge tail up to its head
// and returns the members in edge order starting at the head.
func backtrackCycle(parent map[string]string, tail, head string) []string {
	reversed := []string{tail}
	for cur := tail; cur != head; {
		cur = parent[cur]
		reversed = append(reversed, cur)
	}
	cycle := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		cycle = append(cycle, reversed[i])
	}
	return cycle
}

// stringMinHeap is a container/heap of task identifiers that pops the
// lexicographically smallest first.
type stringMinHeap []string

func (h stringMinHeap) Len() int            { return len(h) }
func (h stringMinHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h stringMinHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *stringMinHeap) Push(x interface{}) { *h = append(*h, x.(string)) }
func (h *stringMinHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
