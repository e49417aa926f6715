package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gantt-project/microservices/planning-service/logging"
	"gantt-project/microservices/planning-service/models"
	"gantt-project/microservices/planning-service/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func taskErrorStatus(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "cannot start task"):
		return http.StatusConflict
	case strings.Contains(msg, "required"),
		strings.Contains(msg, "must be positive"),
		strings.Contains(msg, "different project"),
		strings.Contains(msg, "not a member"),
		strings.Contains(msg, "unknown task status"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		logging.Logger.Errorf("Failed to decode task payload: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateTask(r.Context(), &task)
	if err != nil {
		logging.Logger.Errorf("Failed to create task: %v", err)
		http.Error(w, err.Error(), taskErrorStatus(err))
		return
	}

	logging.Logger.Infof("Task created: %s (%s)", created.Name, created.ID.Hex())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	task, err := h.service.GetTaskByID(taskID)
	if err != nil {
		logging.Logger.Warnf("Failed to retrieve task %s: %v", taskID.Hex(), err)
		http.Error(w, err.Error(), taskErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// GetTasksByProject returns the project's WBS: tasks with resolved assignee,
// phase, checklist progress and incoming dependency edges.
func (h *TaskHandler) GetTasksByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID format", http.StatusBadRequest)
		return
	}

	tasks, err := h.service.GetTasksByProject(r.Context(), projectID)
	if err != nil {
		logging.Logger.Errorf("Failed to retrieve tasks for project %s: %v", projectID.Hex(), err)
		http.Error(w, "Failed to retrieve tasks", http.StatusInternalServerError)
		return
	}

	logging.Logger.Infof("WBS fetched for project %s: %d tasks", projectID.Hex(), len(tasks))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateTask(r.Context(), taskID, &task)
	if err != nil {
		logging.Logger.Errorf("Failed to update task %s: %v", taskID.Hex(), err)
		http.Error(w, err.Error(), taskErrorStatus(err))
		return
	}

	logging.Logger.Infof("Task updated: %s", taskID.Hex())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// UpdateTaskPosition moves a node in the dependency-graph editor. Position is
// presentation state, so this never flags the project for recalculation.
func (h *TaskHandler) UpdateTaskPosition(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var position struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&position); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateTaskPosition(r.Context(), taskID, position.X, position.Y)
	if err != nil {
		logging.Logger.Errorf("Failed to update position of task %s: %v", taskID.Hex(), err)
		http.Error(w, err.Error(), taskErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *TaskHandler) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var request struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.ChangeTaskStatus(r.Context(), taskID, request.Status)
	if err != nil {
		logging.Logger.Errorf("Failed to change status of task %s: %v", taskID.Hex(), err)
		http.Error(w, err.Error(), taskErrorStatus(err))
		return
	}

	logging.Logger.Infof("Task %s status changed to %s", taskID.Hex(), updated.Status)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID); err != nil {
		logging.Logger.Errorf("Failed to delete task %s: %v", taskID.Hex(), err)
		http.Error(w, err.Error(), taskErrorStatus(err))
		return
	}

	logging.Logger.Infof("Task deleted: %s", taskID.Hex())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Task deleted successfully"}`))
}
