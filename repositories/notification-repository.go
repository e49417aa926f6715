package repositories

import (
	"log"
	"os"
	"time"

	"gantt-project/microservices/planning-service/models"

	"github.com/gocql/gocql"
)

type NotificationRepo struct {
	session *gocql.Session
	logger  *log.Logger
}

// NewNotificationRepo connects to Cassandra, bootstrapping the planning
// keyspace on first contact.
func NewNotificationRepo(logger *log.Logger) (*NotificationRepo, error) {
	db := os.Getenv("CASS_DB")
	if db == "" {
		db = "127.0.0.1"
	}

	cluster := gocql.NewCluster(db)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logger.Println(err)
		return nil, err
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS planning
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		logger.Println("Failed to create keyspace:", err)
		return nil, err
	}
	session.Close()

	cluster.Keyspace = "planning"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logger.Println("Failed to connect to planning keyspace:", err)
		return nil, err
	}

	logger.Println("Connected to Cassandra planning keyspace.")
	return &NotificationRepo{
		session: session,
		logger:  logger,
	}, nil
}

func (nr *NotificationRepo) CloseSession() {
	nr.session.Close()
	nr.logger.Println("Cassandra session closed.")
}

// CreateTable creates the notifications table, newest first per employee.
func (nr *NotificationRepo) CreateTable() {
	err := nr.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			employee_id TEXT,
			project_id TEXT,
			message TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((employee_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		nr.logger.Println("Failed to create notifications table:", err)
	} else {
		nr.logger.Println("Notifications table created successfully!")
	}
}

func (nr *NotificationRepo) CreateNotification(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	err := nr.session.Query(
		`INSERT INTO notifications (id, employee_id, project_id, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.EmployeeID, notification.ProjectID, notification.Message, notification.CreatedAt, notification.IsRead,
	).Exec()
	if err != nil {
		nr.logger.Println("Failed to insert notification:", err)
		return err
	}

	return nil
}

func (nr *NotificationRepo) GetNotificationsByEmployee(employeeID string) ([]models.Notification, error) {
	query := `SELECT id, employee_id, project_id, message, created_at, is_read
			  FROM notifications WHERE employee_id = ?`

	iter := nr.session.Query(query, employeeID).Iter()
	var notifications []models.Notification
	var notification models.Notification

	for iter.Scan(&notification.ID, &notification.EmployeeID, &notification.ProjectID,
		&notification.Message, &notification.CreatedAt, &notification.IsRead) {
		notifications = append(notifications, notification)
	}

	if err := iter.Close(); err != nil {
		nr.logger.Println("Failed to fetch notifications by employee:", err)
		return nil, err
	}

	return notifications, nil
}

func (nr *NotificationRepo) MarkNotificationAsRead(employeeID, notificationID, createdAt string) error {
	uuid, err := gocql.ParseUUID(notificationID)
	if err != nil {
		nr.logger.Println("Invalid UUID format:", err)
		return err
	}

	parsedCreatedAt, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		nr.logger.Println("Invalid created_at format:", err)
		return err
	}

	query := `UPDATE notifications SET is_read = true WHERE employee_id = ? AND created_at = ? AND id = ?`
	err = nr.session.Query(query, employeeID, parsedCreatedAt, uuid).Exec()
	if err != nil {
		nr.logger.Println("Failed to mark notification as read:", err)
		return err
	}

	return nil
}

func (nr *NotificationRepo) DeleteNotification(employeeID, notificationID, createdAt string) error {
	uuid, err := gocql.ParseUUID(notificationID)
	if err != nil {
		nr.logger.Println("Invalid UUID format:", err)
		return err
	}

	parsedCreatedAt, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		nr.logger.Println("Invalid created_at format:", err)
		return err
	}

	query := `DELETE FROM notifications WHERE employee_id = ? AND created_at = ? AND id = ?`
	err = nr.session.Query(query, employeeID, parsedCreatedAt, uuid).Exec()
	if err != nil {
		nr.logger.Println("Failed to delete notification:", err)
		return err
	}

	return nil
}
