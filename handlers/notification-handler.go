package handlers

import (
	"encoding/json"
	"net/http"

	"gantt-project/microservices/planning-service/logging"
	"gantt-project/microservices/planning-service/services"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) GetNotificationsByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]
	if employeeID == "" {
		http.Error(w, "Missing employee ID", http.StatusBadRequest)
		return
	}

	notifications, err := h.service.GetNotificationsByEmployee(employeeID)
	if err != nil {
		logging.Logger.Errorf("Failed to retrieve notifications for employee %s: %v", employeeID, err)
		http.Error(w, "Failed to retrieve notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

func (h *NotificationHandler) MarkNotificationAsRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		EmployeeID     string `json:"employeeId"`
		NotificationID string `json:"notificationId"`
		CreatedAt      string `json:"createdAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if request.EmployeeID == "" || request.NotificationID == "" || request.CreatedAt == "" {
		http.Error(w, "employeeId, notificationId and createdAt are required", http.StatusBadRequest)
		return
	}

	if err := h.service.MarkNotificationAsRead(request.EmployeeID, request.NotificationID, request.CreatedAt); err != nil {
		logging.Logger.Errorf("Failed to mark notification %s as read: %v", request.NotificationID, err)
		http.Error(w, "Failed to mark notification as read", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Notification marked as read"}`))
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	var request struct {
		EmployeeID     string `json:"employeeId"`
		NotificationID string `json:"notificationId"`
		CreatedAt      string `json:"createdAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if request.EmployeeID == "" || request.NotificationID == "" || request.CreatedAt == "" {
		http.Error(w, "employeeId, notificationId and createdAt are required", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteNotification(request.EmployeeID, request.NotificationID, request.CreatedAt); err != nil {
		logging.Logger.Errorf("Failed to delete notification %s: %v", request.NotificationID, err)
		http.Error(w, "Failed to delete notification", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Notification deleted successfully"}`))
}
