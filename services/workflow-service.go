package services

import (
	"context"
	"fmt"

	"gantt-project/microservices/planning-service/logging"
	"gantt-project/microservices/planning-service/models"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// WorkflowService owns the dependency graph in Neo4j. Task nodes are mirrored
// from MongoDB; DEPENDS_ON relationships carry the relation kind and exist
// only here.
type WorkflowService struct {
	Driver neo4j.DriverWithContext
}

func NewWorkflowService(driver neo4j.DriverWithContext) *WorkflowService {
	return &WorkflowService{Driver: driver}
}

// SyncTaskNode mirrors one task into the graph, creating or refreshing its
// node. Called after every task create/update so the editor view stays
// consistent.
func (s *WorkflowService) SyncTaskNode(ctx context.Context, task *models.Task) error {
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (t:Task {id: $id})
			SET t.projectId = $projectId,
				t.name = $name,
				t.status = $status,
				t.milestone = $milestone,
				t.x = $x,
				t.y = $y
		`
		params := map[string]any{
			"id":        task.ID.Hex(),
			"projectId": task.ProjectID.Hex(),
			"name":      task.Name,
			"status":    string(task.Status),
			"milestone": task.MilestoneFlag,
			"x":         task.XPosition,
			"y":         task.YPosition,
		}
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})

	return err
}

// AddDependency creates one typed DEPENDS_ON relationship after checking
// that both tasks exist, the ordered pair is new and the edge would not close
// a cycle. The reachability pre-check is a UX convenience; the schedule
// engine re-verifies acyclicity on every calculation.
func (s *WorkflowService) AddDependency(ctx context.Context, rel models.TaskDependency) error {
	if !rel.Kind.IsValid() {
		return fmt.Errorf("unknown relation kind: %s", rel.Kind)
	}

	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	exist, err := s.TasksExist(ctx, rel.DependsOnID, rel.TaskID)
	if err != nil {
		return fmt.Errorf("failed to check task existence: %v", err)
	}
	if !exist {
		return fmt.Errorf("one or both tasks do not exist")
	}

	exists, err := s.DependencyExists(ctx, rel.DependsOnID, rel.TaskID)
	if err != nil {
		return fmt.Errorf("failed to check if dependency exists: %v", err)
	}
	if exists {
		return fmt.Errorf("dependency already exists")
	}

	hasCycle, err := s.CreatesCycle(ctx, rel.DependsOnID, rel.TaskID)
	if err != nil {
		return fmt.Errorf("failed to check cycle: %v", err)
	}
	if hasCycle {
		return fmt.Errorf("cannot add dependency: cycle detected")
	}

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (from:Task {id: $fromId}), (to:Task {id: $toId})
			MERGE (to)-[r:DEPENDS_ON]->(from)
			SET r.kind = $kind
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"fromId": rel.DependsOnID,
			"toId":   rel.TaskID,
			"kind":   string(rel.Kind),
		})
		return nil, err
	})

	if err != nil {
		return fmt.Errorf("failed to create dependency relation: %v", err)
	}

	logging.Logger.Infof("Dependency added: %s <- %s (%s)", rel.TaskID, rel.DependsOnID, rel.Kind)
	return nil
}

func (s *WorkflowService) RemoveDependency(ctx context.Context, rel models.TaskDependency) error {
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (to:Task {id: $toId})-[r:DEPENDS_ON]->(from:Task {id: $fromId})
			DELETE r
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"fromId": rel.DependsOnID,
			"toId":   rel.TaskID,
		})
		return nil, err
	})

	if err != nil {
		return fmt.Errorf("failed to remove dependency relation: %v", err)
	}
	return nil
}

// CreatesCycle reports whether the predecessor already depends, directly or
// transitively, on the successor.
func (s *WorkflowService) CreatesCycle(ctx context.Context, fromID, toID string) (bool, error) {
	if fromID == toID {
		return true, nil
	}
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (from:Task {id: $fromId}), (to:Task {id: $toId})
			RETURN EXISTS((from)-[:DEPENDS_ON*1..]->(to)) AS hasCycle
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"fromId": fromID,
			"toId":   toID,
		})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			val, ok := res.Record().Values[0].(bool)
			if !ok {
				return false, fmt.Errorf("unexpected result type")
			}
			return val, nil
		}
		return false, nil
	})

	if err != nil {
		return false, fmt.Errorf("cycle detection failed: %v", err)
	}

	return result.(bool), nil
}

func (s *WorkflowService) TasksExist(ctx context.Context, id1, id2 string) (bool, error) {
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			OPTIONAL MATCH (a:Task {id: $id1})
			OPTIONAL MATCH (b:Task {id: $id2})
			RETURN a IS NOT NULL AND b IS NOT NULL AS bothExist
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"id1": id1,
			"id2": id2,
		})
		if err != nil {
			return false, err
		}
		if res.Next(ctx) {
			return res.Record().Values[0].(bool), nil
		}
		return false, nil
	})

	if err != nil {
		return false, err
	}

	return result.(bool), nil
}

func (s *WorkflowService) DependencyExists(ctx context.Context, fromID, toID string) (bool, error) {
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (to:Task {id: $toId})-[r:DEPENDS_ON]->(from:Task {id: $fromId})
			RETURN COUNT(r) > 0 AS exists
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"fromId": fromID,
			"toId":   toID,
		})
		if err != nil {
			return false, err
		}
		if res.Next(ctx) {
			return res.Record().Values[0].(bool), nil
		}
		return false, nil
	})

	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// GetDependencies returns the typed edges pointing out of one task, i.e. the
// tasks it depends on.
func (s *WorkflowService) GetDependencies(ctx context.Context, taskID string) ([]models.TaskDependency, error) {
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (to:Task {id: $taskId})-[r:DEPENDS_ON]->(from:Task)
			RETURN from.id AS fromId, r.kind AS kind
			ORDER BY fromId
		`
		res, err := tx.Run(ctx, query, map[string]any{"taskId": taskID})
		if err != nil {
			return nil, err
		}

		var dependencies []models.TaskDependency
		for res.Next(ctx) {
			record := res.Record()
			fromID, _ := record.Get("fromId")
			kind, _ := record.Get("kind")

			dependencies = append(dependencies, models.TaskDependency{
				TaskID:      taskID,
				DependsOnID: fromID.(string),
				Kind:        models.DependencyKind(kind.(string)),
			})
		}
		return dependencies, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]models.TaskDependency), nil
}

// GetProjectDependencies returns every typed edge between tasks of one
// project, the dependency half of a schedule snapshot.
func (s *WorkflowService) GetProjectDependencies(ctx context.Context, projectID string) ([]models.TaskDependency, error) {
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (to:Task {projectId: $projectId})-[r:DEPENDS_ON]->(from:Task {projectId: $projectId})
			RETURN to.id AS toId, from.id AS fromId, r.kind AS kind
			ORDER BY toId, fromId
		`
		res, err := tx.Run(ctx, query, map[string]any{"projectId": projectID})
		if err != nil {
			return nil, err
		}

		var dependencies []models.TaskDependency
		for res.Next(ctx) {
			record := res.Record()
			toID, _ := record.Get("toId")
			fromID, _ := record.Get("fromId")
			kind, _ := record.Get("kind")

			dependencies = append(dependencies, models.TaskDependency{
				TaskID:      toID.(string),
				DependsOnID: fromID.(string),
				Kind:        models.DependencyKind(kind.(string)),
			})
		}
		return dependencies, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]models.TaskDependency), nil
}

// GetWorkflowGraph loads the editor view of one project: every mirrored task
// node with its canvas position plus the typed edges between them.
func (s *WorkflowService) GetWorkflowGraph(ctx context.Context, projectID string) (*models.GraphResponse, error) {
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	nodes, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (t:Task {projectId: $projectId})
			RETURN t.id AS id, t.name AS name, t.status AS status,
			       t.milestone AS milestone, t.x AS x, t.y AS y
			ORDER BY id
		`
		res, err := tx.Run(ctx, query, map[string]any{"projectId": projectID})
		if err != nil {
			return nil, err
		}

		var out []models.GraphNode
		for res.Next(ctx) {
			record := res.Record()
			id, _ := record.Get("id")
			name, _ := record.Get("name")
			status, _ := record.Get("status")
			milestone, _ := record.Get("milestone")
			x, _ := record.Get("x")
			y, _ := record.Get("y")

			out = append(out, models.GraphNode{
				ID:        id.(string),
				Name:      name.(string),
				Status:    status.(string),
				Milestone: milestone.(bool),
				X:         int(x.(int64)),
				Y:         int(y.(int64)),
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load graph nodes: %v", err)
	}

	deps, err := s.GetProjectDependencies(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph edges: %v", err)
	}

	edges := make([]models.GraphEdge, 0, len(deps))
	for _, d := range deps {
		edges = append(edges, models.GraphEdge{
			From: d.DependsOnID,
			To:   d.TaskID,
			Kind: string(d.Kind),
		})
	}

	return &models.GraphResponse{
		Nodes: nodes.([]models.GraphNode),
		Edges: edges,
	}, nil
}

// RemoveTaskNode detaches and deletes one task node together with all of its
// dependency relationships.
func (s *WorkflowService) RemoveTaskNode(ctx context.Context, taskID string) error {
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (t:Task {id: $taskId})
			DETACH DELETE t
		`
		_, err := tx.Run(ctx, query, map[string]any{"taskId": taskID})
		return nil, err
	})

	if err != nil {
		return fmt.Errorf("failed to remove task node: %v", err)
	}
	return nil
}

// RemoveProjectGraph drops every node of one project, used when the project
// itself is deleted.
func (s *WorkflowService) RemoveProjectGraph(ctx context.Context, projectID string) error {
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (t:Task {projectId: $projectId})
			DETACH DELETE t
		`
		_, err := tx.Run(ctx, query, map[string]any{"projectId": projectID})
		return nil, err
	})

	if err != nil {
		return fmt.Errorf("failed to remove project graph: %v", err)
	}
	return nil
}
