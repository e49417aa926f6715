package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gantt-project/microservices/planning-service/logging"
	"gantt-project/microservices/planning-service/models"
	"gantt-project/microservices/planning-service/scheduler"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleService orchestrates recalculations: it assembles the engine
// snapshot from MongoDB and Neo4j, runs the pure scheduler and persists the
// computed dates. The engine defines no locking, so this layer holds a
// per-project critical section around read-compute-persist.
type ScheduleService struct {
	projectsCollection  *mongo.Collection
	tasksCollection     *mongo.Collection
	membersCollection   *mongo.Collection
	workflowService     *WorkflowService
	notificationService *NotificationService

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewScheduleService(client *mongo.Client, workflowService *WorkflowService, notificationService *NotificationService) *ScheduleService {
	db := client.Database("planning_db")
	return &ScheduleService{
		projectsCollection:  db.Collection("projects"),
		tasksCollection:     db.Collection("tasks"),
		membersCollection:   db.Collection("members"),
		workflowService:     workflowService,
		notificationService: notificationService,
		locks:               make(map[string]*sync.Mutex),
	}
}

func (s *ScheduleService) projectLock(projectID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[projectID] = lock
	}
	return lock
}

// Recalculate runs one end-to-end schedule calculation for the project.
// Recalculations for different projects run in parallel; for the same
// project they are serialized so a mutation mid-flight cannot produce lost
// updates.
func (s *ScheduleService) Recalculate(ctx context.Context, projectID primitive.ObjectID, epochOverride *time.Time) (*models.ScheduleResponse, error) {
	lock := s.projectLock(projectID.Hex())
	lock.Lock()
	defer lock.Unlock()

	var project models.Project
	if err := s.projectsCollection.FindOne(context.Background(), bson.M{"_id": projectID}).Decode(&project); err != nil {
		return nil, fmt.Errorf("project not found: %v", err)
	}

	tasks, err := s.loadTasks(projectID)
	if err != nil {
		return nil, err
	}
	ratios, err := s.loadAllocationRatios(projectID)
	if err != nil {
		return nil, err
	}
	deps, err := s.workflowService.GetProjectDependencies(ctx, projectID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to load dependency edges: %v", err)
	}

	epoch := resolveEpoch(epochOverride, &project)

	req := scheduler.Request{
		Epoch:        epoch,
		Tasks:        make([]scheduler.TaskInput, 0, len(tasks)),
		Dependencies: make([]scheduler.DependencyInput, 0, len(deps)),
	}
	if project.StartDate != nil && project.EndDate != nil {
		req.Window = &scheduler.Window{Start: *project.StartDate, End: *project.EndDate}
	}

	for i := range tasks {
		task := &tasks[i]
		input := scheduler.TaskInput{
			ID:            task.ID.Hex(),
			Name:          task.Name,
			Effort:        task.EstimatedEffort,
			EarliestStart: task.EarliestStart,
			Deadline:      task.Deadline,
			Milestone:     task.MilestoneFlag,
		}
		if task.AssigneeID != nil {
			ratio, ok := ratios[*task.AssigneeID]
			if !ok {
				return nil, fmt.Errorf("%w: task %q: assignee has no membership record in the project",
					scheduler.ErrInvalidInput, task.Name)
			}
			input.Allocation = &ratio
		}
		req.Tasks = append(req.Tasks, input)
	}

	for _, d := range deps {
		req.Dependencies = append(req.Dependencies, scheduler.DependencyInput{
			PredecessorID: d.DependsOnID,
			SuccessorID:   d.TaskID,
			Kind:          scheduler.RelationKind(d.Kind),
		})
	}

	result, err := scheduler.Calculate(req)
	if err != nil {
		logging.Logger.Warnf("Event ID: SCHEDULE_REJECTED, Description: Recalculation for project %s rejected: %v", projectID.Hex(), err)
		return nil, err
	}

	if err := s.persistDates(tasks, result); err != nil {
		return nil, err
	}

	_, err = s.projectsCollection.UpdateOne(context.Background(),
		bson.M{"_id": projectID},
		bson.M{"$set": bson.M{"schedule_dirty": false}})
	if err != nil {
		return nil, fmt.Errorf("failed to clear recalculation flag: %v", err)
	}

	s.sendAdvisories(&project, tasks, result)

	response := buildScheduleResponse(projectID.Hex(), epoch, tasks, result)
	logging.Logger.Infof("Event ID: SCHEDULE_CALCULATED, Description: Project %s scheduled: %d tasks, %d critical path(s), %d total days",
		projectID.Hex(), len(response.Tasks), len(response.CriticalPaths), response.TotalDurationDays)

	return response, nil
}

func (s *ScheduleService) loadTasks(projectID primitive.ObjectID) ([]models.Task, error) {
	cursor, err := s.tasksCollection.Find(context.Background(), bson.M{"project_id": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %v", err)
	}
	defer cursor.Close(context.Background())

	var tasks []models.Task
	for cursor.Next(context.Background()) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %v", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, cursor.Err()
}

// loadAllocationRatios resolves membership allocation per employee. The
// engine never sees memberships, only the flat ratio mapping.
func (s *ScheduleService) loadAllocationRatios(projectID primitive.ObjectID) (map[primitive.ObjectID]float64, error) {
	cursor, err := s.membersCollection.Find(context.Background(), bson.M{"project_id": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %v", err)
	}
	defer cursor.Close(context.Background())

	ratios := make(map[primitive.ObjectID]float64)
	for cursor.Next(context.Background()) {
		var member models.ProjectMember
		if err := cursor.Decode(&member); err != nil {
			return nil, fmt.Errorf("failed to decode membership: %v", err)
		}
		ratios[member.EmployeeID] = member.AllocationRatio
	}
	return ratios, cursor.Err()
}

func resolveEpoch(override *time.Time, project *models.Project) time.Time {
	if override != nil {
		return *override
	}
	if project.StartDate != nil {
		return *project.StartDate
	}
	return time.Now()
}

// persistDates bulk-writes the computed start/end dates back onto the task
// documents.
func (s *ScheduleService) persistDates(tasks []models.Task, result *scheduler.Result) error {
	if len(tasks) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		ts, ok := result.Tasks[task.ID.Hex()]
		if !ok {
			continue
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": task.ID}).
			SetUpdate(bson.M{"$set": bson.M{"start_date": ts.StartDate, "end_date": ts.EndDate}}))
	}
	if len(writes) == 0 {
		return nil
	}

	if _, err := s.tasksCollection.BulkWrite(context.Background(), writes); err != nil {
		return fmt.Errorf("failed to persist computed dates: %v", err)
	}
	return nil
}

// sendAdvisories emits best-effort notifications for over-deadline and
// unassigned tasks. Delivery failures are absorbed by the breaker inside the
// notification service.
func (s *ScheduleService) sendAdvisories(project *models.Project, tasks []models.Task, result *scheduler.Result) {
	if s.notificationService == nil {
		return
	}

	for i := range tasks {
		task := &tasks[i]
		ts, ok := result.Tasks[task.ID.Hex()]
		if !ok {
			continue
		}

		if ts.OverDeadline && task.AssigneeID != nil {
			message := fmt.Sprintf("Task %q slips past its deadline: computed end %s",
				task.Name, ts.EndDate.Format("2006-01-02"))
			_ = s.notificationService.Notify(task.AssigneeID.Hex(), project.ID.Hex(), message)
		}
		if ts.Unassigned && project.ManagerID != nil {
			message := fmt.Sprintf("Task %q is scheduled without an assignee", task.Name)
			_ = s.notificationService.Notify(project.ManagerID.Hex(), project.ID.Hex(), message)
		}
	}
}

func buildScheduleResponse(projectID string, epoch time.Time, tasks []models.Task, result *scheduler.Result) *models.ScheduleResponse {
	names := make(map[string]string, len(tasks))
	for i := range tasks {
		names[tasks[i].ID.Hex()] = tasks[i].Name
	}

	views := make([]models.ScheduleTaskView, 0, len(result.Tasks))
	for id, ts := range result.Tasks {
		views = append(views, models.ScheduleTaskView{
			TaskID:        id,
			Name:          names[id],
			StartDate:     ts.StartDate,
			EndDate:       ts.EndDate,
			WorkingDays:   ts.WorkingDays,
			OverDeadline:  ts.OverDeadline,
			Unassigned:    ts.Unassigned,
			OutsideWindow: ts.OutsideWindow,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].StartDate.Equal(views[j].StartDate) {
			return views[i].StartDate.Before(views[j].StartDate)
		}
		return views[i].TaskID < views[j].TaskID
	})

	return &models.ScheduleResponse{
		ProjectID:         projectID,
		Epoch:             scheduleEpochDate(epoch),
		CalculatedAt:      time.Now(),
		Tasks:             views,
		CriticalPaths:     result.CriticalPaths,
		TotalDurationDays: result.TotalDuration,
	}
}

// scheduleEpochDate mirrors the engine's date normalization so the reported
// epoch matches the dates computed from it.
func scheduleEpochDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
