package services

import (
	"context"
	"fmt"

	"gantt-project/microservices/planning-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MemberService struct {
	membersCollection   *mongo.Collection
	employeesCollection *mongo.Collection
	projectsCollection  *mongo.Collection
	tasksCollection     *mongo.Collection
}

func NewMemberService(client *mongo.Client) *MemberService {
	db := client.Database("planning_db")
	return &MemberService{
		membersCollection:   db.Collection("members"),
		employeesCollection: db.Collection("employees"),
		projectsCollection:  db.Collection("projects"),
		tasksCollection:     db.Collection("tasks"),
	}
}

// AddMember creates a membership record. The allocation ratio must lie in
// (0, 1]; it is the only source the scheduler accepts for stretching effort
// into elapsed days.
func (s *MemberService) AddMember(member *models.ProjectMember) (*models.ProjectMember, error) {
	if member.AllocationRatio <= 0 || member.AllocationRatio > 1 {
		return nil, fmt.Errorf("allocation ratio must be in (0, 1], got %v", member.AllocationRatio)
	}

	var project models.Project
	if err := s.projectsCollection.FindOne(context.Background(), bson.M{"_id": member.ProjectID}).Decode(&project); err != nil {
		return nil, fmt.Errorf("project not found: %v", err)
	}
	var employee models.Employee
	if err := s.employeesCollection.FindOne(context.Background(), bson.M{"_id": member.EmployeeID}).Decode(&employee); err != nil {
		return nil, fmt.Errorf("employee not found: %v", err)
	}

	filter := bson.M{"project_id": member.ProjectID, "employee_id": member.EmployeeID}
	count, err := s.membersCollection.CountDocuments(context.Background(), filter)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing membership: %v", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("employee is already a member of this project")
	}

	if _, err := s.membersCollection.InsertOne(context.Background(), member); err != nil {
		return nil, fmt.Errorf("failed to add member: %v", err)
	}

	if err := s.markProjectDirty(member.ProjectID); err != nil {
		return nil, err
	}

	member.Employee = &employee
	return member, nil
}

// GetProjectMembers lists the memberships of one project with the employee
// documents resolved.
func (s *MemberService) GetProjectMembers(projectID primitive.ObjectID) ([]models.ProjectMember, error) {
	cursor, err := s.membersCollection.Find(context.Background(), bson.M{"project_id": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve members: %v", err)
	}
	defer cursor.Close(context.Background())

	var members []models.ProjectMember
	for cursor.Next(context.Background()) {
		var member models.ProjectMember
		if err := cursor.Decode(&member); err != nil {
			return nil, fmt.Errorf("failed to decode member: %v", err)
		}

		var employee models.Employee
		if err := s.employeesCollection.FindOne(context.Background(), bson.M{"_id": member.EmployeeID}).Decode(&employee); err == nil {
			member.Employee = &employee
		}
		members = append(members, member)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return members, nil
}

// UpdateMember changes role, allocation ratio or leave date of one
// membership. A ratio change alters computed durations, so the project is
// flagged for recalculation.
func (s *MemberService) UpdateMember(projectID, employeeID primitive.ObjectID, input *models.ProjectMember) (*models.ProjectMember, error) {
	if input.AllocationRatio <= 0 || input.AllocationRatio > 1 {
		return nil, fmt.Errorf("allocation ratio must be in (0, 1], got %v", input.AllocationRatio)
	}

	filter := bson.M{"project_id": projectID, "employee_id": employeeID}

	var existing models.ProjectMember
	if err := s.membersCollection.FindOne(context.Background(), filter).Decode(&existing); err != nil {
		return nil, fmt.Errorf("membership not found: %v", err)
	}

	update := bson.M{"$set": bson.M{
		"role_in_project":  input.RoleInProject,
		"allocation_ratio": input.AllocationRatio,
		"join_date":        input.JoinDate,
		"leave_date":       input.LeaveDate,
	}}
	if _, err := s.membersCollection.UpdateOne(context.Background(), filter, update); err != nil {
		return nil, fmt.Errorf("failed to update membership: %v", err)
	}

	if existing.AllocationRatio != input.AllocationRatio {
		if err := s.markProjectDirty(projectID); err != nil {
			return nil, err
		}
	}

	var updated models.ProjectMember
	if err := s.membersCollection.FindOne(context.Background(), filter).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to retrieve updated membership: %v", err)
	}
	return &updated, nil
}

// RemoveMember deletes the membership. Removal is refused while the employee
// still holds tasks in the project; reassign or unassign those first so no
// task is left pointing at an assignee without a membership record.
func (s *MemberService) RemoveMember(projectID, employeeID primitive.ObjectID) error {
	assigned, err := s.tasksCollection.CountDocuments(context.Background(),
		bson.M{"project_id": projectID, "assignee_id": employeeID})
	if err != nil {
		return fmt.Errorf("failed to check assigned tasks: %v", err)
	}
	if assigned > 0 {
		return fmt.Errorf("cannot remove member with %d assigned tasks", assigned)
	}

	filter := bson.M{"project_id": projectID, "employee_id": employeeID}
	result, err := s.membersCollection.DeleteOne(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to remove member: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("membership not found")
	}

	return s.markProjectDirty(projectID)
}

func (s *MemberService) markProjectDirty(projectID primitive.ObjectID) error {
	_, err := s.projectsCollection.UpdateOne(context.Background(),
		bson.M{"_id": projectID},
		bson.M{"$set": bson.M{"schedule_dirty": true}})
	if err != nil {
		return fmt.Errorf("failed to flag project for recalculation: %v", err)
	}
	return nil
}
