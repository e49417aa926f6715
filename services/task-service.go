package services

import (
	"context"
	"fmt"

	"gantt-project/microservices/planning-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskService struct {
	tasksCollection      *mongo.Collection
	projectsCollection   *mongo.Collection
	membersCollection    *mongo.Collection
	phasesCollection     *mongo.Collection
	checklistsCollection *mongo.Collection
	employeesCollection  *mongo.Collection
	workflowService      *WorkflowService
}

func NewTaskService(client *mongo.Client, workflowService *WorkflowService) *TaskService {
	db := client.Database("planning_db")
	return &TaskService{
		tasksCollection:      db.Collection("tasks"),
		projectsCollection:   db.Collection("projects"),
		membersCollection:    db.Collection("members"),
		phasesCollection:     db.Collection("phases"),
		checklistsCollection: db.Collection("checklists"),
		employeesCollection:  db.Collection("employees"),
		workflowService:      workflowService,
	}
}

// CreateTask validates and stores a task, mirrors it into the workflow graph
// and flags the project for recalculation.
func (s *TaskService) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := s.validateTask(task); err != nil {
		return nil, err
	}
	if task.Status == "" {
		task.Status = models.StatusNotStarted
	}

	task.ID = primitive.NewObjectID()
	result, err := s.tasksCollection.InsertOne(context.Background(), task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	if err := s.workflowService.SyncTaskNode(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to mirror task into workflow graph: %v", err)
	}

	if err := s.markProjectDirty(task.ProjectID); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) validateTask(task *models.Task) error {
	if task.Name == "" {
		return fmt.Errorf("task name is required")
	}

	var project models.Project
	if err := s.projectsCollection.FindOne(context.Background(), bson.M{"_id": task.ProjectID}).Decode(&project); err != nil {
		return fmt.Errorf("project not found: %v", err)
	}

	if !task.MilestoneFlag && task.EstimatedEffort <= 0 {
		return fmt.Errorf("estimated effort must be positive")
	}

	if task.PhaseID != nil {
		var phase models.ProjectPhase
		if err := s.phasesCollection.FindOne(context.Background(), bson.M{"_id": *task.PhaseID}).Decode(&phase); err != nil {
			return fmt.Errorf("phase not found: %v", err)
		}
		if phase.ProjectID != task.ProjectID {
			return fmt.Errorf("phase belongs to a different project")
		}
	}

	// An assignee without a membership record is an input error, never
	// silently defaulted.
	if task.AssigneeID != nil {
		filter := bson.M{"project_id": task.ProjectID, "employee_id": *task.AssigneeID}
		count, err := s.membersCollection.CountDocuments(context.Background(), filter)
		if err != nil {
			return fmt.Errorf("failed to check membership: %v", err)
		}
		if count == 0 {
			return fmt.Errorf("assignee is not a member of the project")
		}
	}

	return nil
}

func (s *TaskService) GetTaskByID(taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.tasksCollection.FindOne(context.Background(), bson.M{"_id": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("task not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %v", err)
	}
	return &task, nil
}

// GetTasksByProject composes the WBS listing: every task with its resolved
// assignee, phase, checklist progress and incoming dependency edges.
func (s *TaskService) GetTasksByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.WBSTask, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.tasksCollection.Find(context.Background(), bson.M{"project_id": projectID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(context.Background())

	var wbs []models.WBSTask
	for cursor.Next(context.Background()) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %v", err)
		}

		entry := models.WBSTask{Task: task}

		if task.AssigneeID != nil {
			var employee models.Employee
			if err := s.employeesCollection.FindOne(context.Background(), bson.M{"_id": *task.AssigneeID}).Decode(&employee); err == nil {
				entry.Assignee = &employee
			}
		}
		if task.PhaseID != nil {
			var phase models.ProjectPhase
			if err := s.phasesCollection.FindOne(context.Background(), bson.M{"_id": *task.PhaseID}).Decode(&phase); err == nil {
				entry.Phase = &phase
			}
		}

		items, err := s.checklistItems(task.ID)
		if err != nil {
			return nil, err
		}
		entry.ChecklistItems = items
		entry.ChecklistProgress = checklistProgress(items)

		deps, err := s.workflowService.GetDependencies(ctx, task.ID.Hex())
		if err != nil {
			return nil, fmt.Errorf("failed to load dependencies for task %s: %v", task.ID.Hex(), err)
		}
		entry.Dependencies = deps

		wbs = append(wbs, entry)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return wbs, nil
}

func (s *TaskService) checklistItems(taskID primitive.ObjectID) ([]models.TaskChecklist, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.checklistsCollection.Find(context.Background(), bson.M{"task_id": taskID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checklist: %v", err)
	}
	defer cursor.Close(context.Background())

	var items []models.TaskChecklist
	for cursor.Next(context.Background()) {
		var item models.TaskChecklist
		if err := cursor.Decode(&item); err != nil {
			return nil, fmt.Errorf("failed to decode checklist item: %v", err)
		}
		items = append(items, item)
	}
	return items, cursor.Err()
}

func checklistProgress(items []models.TaskChecklist) float64 {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, item := range items {
		if item.IsDone {
			done++
		}
	}
	return float64(done) / float64(len(items))
}

// UpdateTask overwrites the editable fields. Changes to effort, constraint
// dates, the milestone flag or the assignee alter the schedule input and
// flag the project for recalculation; renames and description edits do not.
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, input *models.Task) (*models.Task, error) {
	existing, err := s.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}
	input.ProjectID = existing.ProjectID

	if err := s.validateTask(input); err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":             input.Name,
		"description":      input.Description,
		"category":         input.Category,
		"phase_id":         input.PhaseID,
		"estimated_effort": input.EstimatedEffort,
		"earliest_start":   input.EarliestStart,
		"deadline":         input.Deadline,
		"milestone_flag":   input.MilestoneFlag,
		"assignee_id":      input.AssigneeID,
	}}
	if _, err := s.tasksCollection.UpdateOne(context.Background(), bson.M{"_id": taskID}, update); err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}

	updated, err := s.GetTaskByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve updated task: %v", err)
	}

	if err := s.workflowService.SyncTaskNode(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to mirror task into workflow graph: %v", err)
	}

	if scheduleInputChanged(existing, updated) {
		if err := s.markProjectDirty(updated.ProjectID); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

func scheduleInputChanged(before, after *models.Task) bool {
	if before.EstimatedEffort != after.EstimatedEffort {
		return true
	}
	if before.MilestoneFlag != after.MilestoneFlag {
		return true
	}
	if !sameDatePtr(before.EarliestStart, after.EarliestStart) {
		return true
	}
	if !sameDatePtr(before.Deadline, after.Deadline) {
		return true
	}
	if !sameObjectIDPtr(before.AssigneeID, after.AssigneeID) {
		return true
	}
	return false
}

func sameObjectIDPtr(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// UpdateTaskPosition stores new editor canvas coordinates. Positions are
// presentation state only.
func (s *TaskService) UpdateTaskPosition(ctx context.Context, taskID primitive.ObjectID, x, y int) (*models.Task, error) {
	update := bson.M{"$set": bson.M{"x_position": x, "y_position": y}}
	result, err := s.tasksCollection.UpdateOne(context.Background(), bson.M{"_id": taskID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update task position: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("task not found")
	}

	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve updated task: %v", err)
	}
	if err := s.workflowService.SyncTaskNode(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to mirror task into workflow graph: %v", err)
	}
	return task, nil
}

// ChangeTaskStatus updates the status, refusing to start a task whose
// finish-to-start predecessors are not completed yet.
func (s *TaskService) ChangeTaskStatus(ctx context.Context, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	switch status {
	case models.StatusNotStarted, models.StatusInProgress, models.StatusCompleted:
	default:
		return nil, fmt.Errorf("unknown task status: %s", status)
	}

	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	if status == models.StatusInProgress {
		deps, err := s.workflowService.GetDependencies(ctx, taskID.Hex())
		if err != nil {
			return nil, fmt.Errorf("failed to load dependencies: %v", err)
		}
		for _, d := range deps {
			if d.Kind != models.FinishToStart {
				continue
			}
			predID, err := primitive.ObjectIDFromHex(d.DependsOnID)
			if err != nil {
				return nil, fmt.Errorf("invalid predecessor ID in graph: %v", err)
			}
			pred, err := s.GetTaskByID(predID)
			if err != nil {
				return nil, fmt.Errorf("workflow graph references missing task %s", d.DependsOnID)
			}
			if pred.Status != models.StatusCompleted {
				return nil, fmt.Errorf("cannot start task due to unfinished dependency %q", pred.Name)
			}
		}
	}

	update := bson.M{"$set": bson.M{"status": status}}
	result, err := s.tasksCollection.UpdateOne(context.Background(), bson.M{"_id": taskID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("task not found for update")
	}

	task.Status = status
	if err := s.workflowService.SyncTaskNode(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to mirror task into workflow graph: %v", err)
	}

	return task, nil
}

// DeleteTask removes the task, its checklist items and its graph node with
// all attached dependency edges.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return err
	}

	if _, err := s.checklistsCollection.DeleteMany(context.Background(), bson.M{"task_id": taskID}); err != nil {
		return fmt.Errorf("failed to delete checklist items: %v", err)
	}

	if err := s.workflowService.RemoveTaskNode(ctx, taskID.Hex()); err != nil {
		return fmt.Errorf("failed to remove task from workflow graph: %v", err)
	}

	result, err := s.tasksCollection.DeleteOne(context.Background(), bson.M{"_id": taskID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("task not found")
	}

	return s.markProjectDirty(task.ProjectID)
}

func (s *TaskService) markProjectDirty(projectID primitive.ObjectID) error {
	_, err := s.projectsCollection.UpdateOne(context.Background(),
		bson.M{"_id": projectID},
		bson.M{"$set": bson.M{"schedule_dirty": true}})
	if err != nil {
		return fmt.Errorf("failed to flag project for recalculation: %v", err)
	}
	return nil
}

// FlagScheduleDirty marks the project owning the task for recalculation.
// Dependency edges live in the workflow graph and bypass this service's
// mutation paths, so the graph handler flags the project through here.
func (s *TaskService) FlagScheduleDirty(taskID primitive.ObjectID) error {
	var task models.Task
	if err := s.tasksCollection.FindOne(context.Background(), bson.M{"_id": taskID}).Decode(&task); err != nil {
		return fmt.Errorf("task not found: %v", err)
	}
	return s.markProjectDirty(task.ProjectID)
}
