package services

import (
	"context"
	"fmt"
	"time"

	"gantt-project/microservices/planning-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProjectService struct {
	projectsCollection   *mongo.Collection
	tasksCollection      *mongo.Collection
	membersCollection    *mongo.Collection
	phasesCollection     *mongo.Collection
	checklistsCollection *mongo.Collection
	workflowService      *WorkflowService
}

func NewProjectService(client *mongo.Client, workflowService *WorkflowService) *ProjectService {
	db := client.Database("planning_db")
	return &ProjectService{
		projectsCollection:   db.Collection("projects"),
		tasksCollection:      db.Collection("tasks"),
		membersCollection:    db.Collection("members"),
		phasesCollection:     db.Collection("phases"),
		checklistsCollection: db.Collection("checklists"),
		workflowService:      workflowService,
	}
}

func (s *ProjectService) CreateProject(project *models.Project) (*models.Project, error) {
	if project.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		return nil, fmt.Errorf("project end date must not precede its start date")
	}
	if project.Status == "" {
		project.Status = models.ProjectActive
	}

	project.ID = primitive.NewObjectID()
	project.ScheduleDirty = false

	result, err := s.projectsCollection.InsertOne(context.Background(), project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %v", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)

	return project, nil
}

func (s *ProjectService) GetAllProjects() ([]models.Project, error) {
	cursor, err := s.projectsCollection.Find(context.Background(), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %v", err)
	}
	defer cursor.Close(context.Background())

	var projects []models.Project
	for cursor.Next(context.Background()) {
		var project models.Project
		if err := cursor.Decode(&project); err != nil {
			return nil, fmt.Errorf("failed to decode project: %v", err)
		}
		projects = append(projects, project)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return projects, nil
}

func (s *ProjectService) GetProjectByID(projectID primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := s.projectsCollection.FindOne(context.Background(), bson.M{"_id": projectID}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("project not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve project: %v", err)
	}
	return &project, nil
}

// UpdateProject overwrites the editable fields. Moving the project start
// date shifts the schedule epoch, so that change flags the project for
// recalculation.
func (s *ProjectService) UpdateProject(projectID primitive.ObjectID, input *models.Project) (*models.Project, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, fmt.Errorf("project end date must not precede its start date")
	}

	existing, err := s.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"name":        input.Name,
		"client_name": input.ClientName,
		"manager_id":  input.ManagerID,
		"budget":      input.Budget,
		"start_date":  input.StartDate,
		"end_date":    input.EndDate,
	}
	if input.Status != "" {
		set["status"] = input.Status
	}
	if !sameDatePtr(existing.StartDate, input.StartDate) {
		set["schedule_dirty"] = true
	}

	result, err := s.projectsCollection.UpdateOne(context.Background(),
		bson.M{"_id": projectID}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("project not found for update")
	}

	return s.GetProjectByID(projectID)
}

// DeleteProject removes the project with everything it owns: tasks and their
// checklists, memberships, phases and the mirrored dependency graph.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID primitive.ObjectID) error {
	cursor, err := s.tasksCollection.Find(context.Background(), bson.M{"project_id": projectID})
	if err != nil {
		return fmt.Errorf("failed to load project tasks: %v", err)
	}
	var taskIDs []primitive.ObjectID
	for cursor.Next(context.Background()) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			cursor.Close(context.Background())
			return fmt.Errorf("failed to decode task: %v", err)
		}
		taskIDs = append(taskIDs, task.ID)
	}
	cursor.Close(context.Background())

	if len(taskIDs) > 0 {
		if _, err := s.checklistsCollection.DeleteMany(context.Background(), bson.M{"task_id": bson.M{"$in": taskIDs}}); err != nil {
			return fmt.Errorf("failed to delete checklists: %v", err)
		}
	}
	if _, err := s.tasksCollection.DeleteMany(context.Background(), bson.M{"project_id": projectID}); err != nil {
		return fmt.Errorf("failed to delete tasks: %v", err)
	}
	if _, err := s.membersCollection.DeleteMany(context.Background(), bson.M{"project_id": projectID}); err != nil {
		return fmt.Errorf("failed to delete memberships: %v", err)
	}
	if _, err := s.phasesCollection.DeleteMany(context.Background(), bson.M{"project_id": projectID}); err != nil {
		return fmt.Errorf("failed to delete phases: %v", err)
	}

	if err := s.workflowService.RemoveProjectGraph(ctx, projectID.Hex()); err != nil {
		return fmt.Errorf("failed to remove dependency graph: %v", err)
	}

	result, err := s.projectsCollection.DeleteOne(context.Background(), bson.M{"_id": projectID})
	if err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("project not found")
	}

	return nil
}

func sameDatePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
