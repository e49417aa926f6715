package services

import (
	"context"
	"fmt"

	"gantt-project/microservices/planning-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type EmployeeService struct {
	employeesCollection *mongo.Collection
	membersCollection   *mongo.Collection
	tasksCollection     *mongo.Collection
	projectsCollection  *mongo.Collection
}

func NewEmployeeService(client *mongo.Client) *EmployeeService {
	db := client.Database("planning_db")
	return &EmployeeService{
		employeesCollection: db.Collection("employees"),
		membersCollection:   db.Collection("members"),
		tasksCollection:     db.Collection("tasks"),
		projectsCollection:  db.Collection("projects"),
	}
}

func (s *EmployeeService) CreateEmployee(name, email string, dailyWorkHours float64) (*models.Employee, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("employee name and email are required")
	}
	if dailyWorkHours <= 0 {
		dailyWorkHours = 8.0
	}

	employee := &models.Employee{
		ID:             primitive.NewObjectID(),
		Name:           name,
		Email:          email,
		DailyWorkHours: dailyWorkHours,
	}

	result, err := s.employeesCollection.InsertOne(context.Background(), employee)
	if err != nil {
		return nil, fmt.Errorf("failed to create employee: %v", err)
	}
	employee.ID = result.InsertedID.(primitive.ObjectID)

	return employee, nil
}

func (s *EmployeeService) GetAllEmployees() ([]models.Employee, error) {
	cursor, err := s.employeesCollection.Find(context.Background(), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve employees: %v", err)
	}
	defer cursor.Close(context.Background())

	var employees []models.Employee
	for cursor.Next(context.Background()) {
		var employee models.Employee
		if err := cursor.Decode(&employee); err != nil {
			return nil, fmt.Errorf("failed to decode employee: %v", err)
		}
		employees = append(employees, employee)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return employees, nil
}

func (s *EmployeeService) GetEmployeeByID(employeeID primitive.ObjectID) (*models.Employee, error) {
	var employee models.Employee
	err := s.employeesCollection.FindOne(context.Background(), bson.M{"_id": employeeID}).Decode(&employee)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("employee not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve employee: %v", err)
	}
	return &employee, nil
}

func (s *EmployeeService) UpdateEmployee(employeeID primitive.ObjectID, name, email string, dailyWorkHours float64) (*models.Employee, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("employee name and email are required")
	}
	if dailyWorkHours <= 0 {
		return nil, fmt.Errorf("daily work hours must be positive")
	}

	update := bson.M{"$set": bson.M{
		"name":             name,
		"email":            email,
		"daily_work_hours": dailyWorkHours,
	}}
	result, err := s.employeesCollection.UpdateOne(context.Background(), bson.M{"_id": employeeID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update employee: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("employee not found")
	}

	var employee models.Employee
	if err := s.employeesCollection.FindOne(context.Background(), bson.M{"_id": employeeID}).Decode(&employee); err != nil {
		return nil, fmt.Errorf("failed to retrieve updated employee: %v", err)
	}
	return &employee, nil
}

// DeleteEmployee removes the employee together with all memberships and
// unassigns the tasks held by them. Every touched project loses a schedule
// input, so they are all marked for recalculation.
func (s *EmployeeService) DeleteEmployee(employeeID primitive.ObjectID) error {
	affected := map[primitive.ObjectID]bool{}

	cursor, err := s.membersCollection.Find(context.Background(), bson.M{"employee_id": employeeID})
	if err != nil {
		return fmt.Errorf("failed to load memberships: %v", err)
	}
	for cursor.Next(context.Background()) {
		var member models.ProjectMember
		if err := cursor.Decode(&member); err != nil {
			cursor.Close(context.Background())
			return fmt.Errorf("failed to decode membership: %v", err)
		}
		affected[member.ProjectID] = true
	}
	cursor.Close(context.Background())

	taskCursor, err := s.tasksCollection.Find(context.Background(), bson.M{"assignee_id": employeeID})
	if err != nil {
		return fmt.Errorf("failed to load assigned tasks: %v", err)
	}
	for taskCursor.Next(context.Background()) {
		var task models.Task
		if err := taskCursor.Decode(&task); err != nil {
			taskCursor.Close(context.Background())
			return fmt.Errorf("failed to decode task: %v", err)
		}
		affected[task.ProjectID] = true
	}
	taskCursor.Close(context.Background())

	_, err = s.tasksCollection.UpdateMany(context.Background(),
		bson.M{"assignee_id": employeeID},
		bson.M{"$unset": bson.M{"assignee_id": ""}})
	if err != nil {
		return fmt.Errorf("failed to unassign tasks: %v", err)
	}

	if _, err := s.membersCollection.DeleteMany(context.Background(), bson.M{"employee_id": employeeID}); err != nil {
		return fmt.Errorf("failed to remove memberships: %v", err)
	}

	result, err := s.employeesCollection.DeleteOne(context.Background(), bson.M{"_id": employeeID})
	if err != nil {
		return fmt.Errorf("failed to delete employee: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("employee not found")
	}

	if len(affected) > 0 {
		ids := make([]primitive.ObjectID, 0, len(affected))
		for id := range affected {
			ids = append(ids, id)
		}
		_, err = s.projectsCollection.UpdateMany(context.Background(),
			bson.M{"_id": bson.M{"$in": ids}},
			bson.M{"$set": bson.M{"schedule_dirty": true}})
		if err != nil {
			return fmt.Errorf("failed to flag projects for recalculation: %v", err)
		}
	}

	return nil
}
