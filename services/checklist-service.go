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

type ChecklistService struct {
	checklistsCollection *mongo.Collection
	tasksCollection      *mongo.Collection
}

func NewChecklistService(client *mongo.Client) *ChecklistService {
	db := client.Database("planning_db")
	return &ChecklistService{
		checklistsCollection: db.Collection("checklists"),
		tasksCollection:      db.Collection("tasks"),
	}
}

func (s *ChecklistService) AddChecklistItem(item *models.TaskChecklist) (*models.TaskChecklist, error) {
	if item.ItemName == "" {
		return nil, fmt.Errorf("checklist item name is required")
	}

	var task models.Task
	if err := s.tasksCollection.FindOne(context.Background(), bson.M{"_id": item.TaskID}).Decode(&task); err != nil {
		return nil, fmt.Errorf("task not found: %v", err)
	}

	item.ID = primitive.NewObjectID()
	result, err := s.checklistsCollection.InsertOne(context.Background(), item)
	if err != nil {
		return nil, fmt.Errorf("failed to add checklist item: %v", err)
	}
	item.ID = result.InsertedID.(primitive.ObjectID)

	return item, nil
}

func (s *ChecklistService) GetChecklistByTask(taskID primitive.ObjectID) ([]models.TaskChecklist, error) {
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

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return items, nil
}

func (s *ChecklistService) UpdateChecklistItem(itemID primitive.ObjectID, input *models.TaskChecklist) (*models.TaskChecklist, error) {
	if input.ItemName == "" {
		return nil, fmt.Errorf("checklist item name is required")
	}

	update := bson.M{"$set": bson.M{
		"item_name":  input.ItemName,
		"is_done":    input.IsDone,
		"sort_order": input.SortOrder,
	}}
	result, err := s.checklistsCollection.UpdateOne(context.Background(), bson.M{"_id": itemID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update checklist item: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("checklist item not found")
	}

	var item models.TaskChecklist
	if err := s.checklistsCollection.FindOne(context.Background(), bson.M{"_id": itemID}).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to retrieve updated checklist item: %v", err)
	}
	return &item, nil
}

func (s *ChecklistService) DeleteChecklistItem(itemID primitive.ObjectID) error {
	result, err := s.checklistsCollection.DeleteOne(context.Background(), bson.M{"_id": itemID})
	if err != nil {
		return fmt.Errorf("failed to delete checklist item: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("checklist item not found")
	}
	return nil
}
