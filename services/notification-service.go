package services

import (
	"time"

	"gantt-project/microservices/planning-service/logging"
	"gantt-project/microservices/planning-service/models"
	"gantt-project/microservices/planning-service/repositories"

	"github.com/sony/gobreaker"
)

// NotificationService delivers advisory messages (over-deadline slips,
// unassigned critical tasks) to employees. Writes run through a circuit
// breaker: a Cassandra outage must never fail the operation that produced
// the advisory.
type NotificationService struct {
	repo    *repositories.NotificationRepo
	breaker *gobreaker.CircuitBreaker
}

func NewNotificationService(repo *repositories.NotificationRepo, breaker *gobreaker.CircuitBreaker) *NotificationService {
	return &NotificationService{repo: repo, breaker: breaker}
}

// Notify stores one notification, best effort.
func (s *NotificationService) Notify(employeeID, projectID, message string) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		notification := &models.Notification{
			EmployeeID: employeeID,
			ProjectID:  projectID,
			Message:    message,
			CreatedAt:  time.Now(),
			IsRead:     false,
		}
		return nil, s.repo.CreateNotification(notification)
	})
	if err != nil {
		logging.Logger.Warnf("Notification delivery failed for employee %s: %v", employeeID, err)
	}
	return err
}

func (s *NotificationService) GetNotificationsByEmployee(employeeID string) ([]models.Notification, error) {
	return s.repo.GetNotificationsByEmployee(employeeID)
}

func (s *NotificationService) MarkNotificationAsRead(employeeID, notificationID, createdAt string) error {
	return s.repo.MarkNotificationAsRead(employeeID, notificationID, createdAt)
}

func (s *NotificationService) DeleteNotification(employeeID, notificationID, createdAt string) error {
	return s.repo.DeleteNotification(employeeID, notificationID, createdAt)
}
