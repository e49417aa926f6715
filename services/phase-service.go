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

type PhaseService struct {
	phasesCollection   *mongo.Collection
	projectsCollection *mongo.Collection
	tasksCollection    *mongo.Collection
}

func NewPhaseService(client *mongo.Client) *PhaseService {
	db := client.Database("planning_db")
	return &PhaseService{
		phasesCollection:   db.Collection("phases"),
		projectsCollection: db.Collection("projects"),
		tasksCollection:    db.Collection("tasks"),
	}
}

func (s *PhaseService) CreatePhase(phase *models.ProjectPhase) (*models.ProjectPhase, error) {
	if phase.Name == "" {
		return nil, fmt.Errorf("phase name is required")
	}
	var project models.Project
	if err := s.projectsCollection.FindOne(context.Background(), bson.M{"_id": phase.ProjectID}).Decode(&project); err != nil {
		return nil, fmt.Errorf("project not found: %v", err)
	}
	if phase.Color == "" {
		phase.Color = models.DefaultPhaseColor
	}

	phase.ID = primitive.NewObjectID()
	result, err := s.phasesCollection.InsertOne(context.Background(), phase)
	if err != nil {
		return nil, fmt.Errorf("failed to create phase: %v", err)
	}
	phase.ID = result.InsertedID.(primitive.ObjectID)

	return phase, nil
}

func (s *PhaseService) GetPhasesByProject(projectID primitive.ObjectID) ([]models.ProjectPhase, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.phasesCollection.Find(context.Background(), bson.M{"project_id": projectID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve phases: %v", err)
	}
	defer cursor.Close(context.Background())

	var phases []models.ProjectPhase
	for cursor.Next(context.Background()) {
		var phase models.ProjectPhase
		if err := cursor.Decode(&phase); err != nil {
			return nil, fmt.Errorf("failed to decode phase: %v", err)
		}
		phases = append(phases, phase)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return phases, nil
}

func (s *PhaseService) UpdatePhase(phaseID primitive.ObjectID, input *models.ProjectPhase) (*models.ProjectPhase, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("phase name is required")
	}

	update := bson.M{"$set": bson.M{
		"name":        input.Name,
		"description": input.Description,
		"sort_order":  input.SortOrder,
		"color":       input.Color,
	}}
	result, err := s.phasesCollection.UpdateOne(context.Background(), bson.M{"_id": phaseID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update phase: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("phase not found")
	}

	var phase models.ProjectPhase
	if err := s.phasesCollection.FindOne(context.Background(), bson.M{"_id": phaseID}).Decode(&phase); err != nil {
		return nil, fmt.Errorf("failed to retrieve updated phase: %v", err)
	}
	return &phase, nil
}

// DeletePhase removes the phase and detaches its tasks. Phases are a grouping
// concern only, so no recalculation is needed.
func (s *PhaseService) DeletePhase(phaseID primitive.ObjectID) error {
	_, err := s.tasksCollection.UpdateMany(context.Background(),
		bson.M{"phase_id": phaseID},
		bson.M{"$unset": bson.M{"phase_id": ""}})
	if err != nil {
		return fmt.Errorf("failed to detach tasks from phase: %v", err)
	}

	result, err := s.phasesCollection.DeleteOne(context.Background(), bson.M{"_id": phaseID})
	if err != nil {
		return fmt.Errorf("failed to delete phase: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("phase not found")
	}
	return nil
}
