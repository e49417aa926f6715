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

type ChecklistHandler struct {
	service *services.ChecklistService
}

func NewChecklistHandler(service *services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{service: service}
}

func (h *ChecklistHandler) AddChecklistItem(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var item models.TaskChecklist
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	item.TaskID = taskID

	created, err := h.service.AddChecklistItem(&item)
	if err != nil {
		logging.Logger.Errorf("Failed to add checklist item to task %s: %v", taskID.Hex(), err)
		switch {
		case strings.Contains(err.Error(), "required"):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case strings.Contains(err.Error(), "not found"):
			http.Error(w, "Task not found", http.StatusNotFound)
		default:
			http.Error(w, "Failed to add checklist item", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *ChecklistHandler) GetChecklistByTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	items, err := h.service.GetChecklistByTask(taskID)
	if err != nil {
		logging.Logger.Errorf("Failed to retrieve checklist for task %s: %v", taskID.Hex(), err)
		http.Error(w, "Failed to retrieve checklist", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (h *ChecklistHandler) UpdateChecklistItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid checklist item ID format", http.StatusBadRequest)
		return
	}

	var item models.TaskChecklist
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateChecklistItem(itemID, &item)
	if err != nil {
		logging.Logger.Errorf("Failed to update checklist item %s: %v", itemID.Hex(), err)
		switch {
		case strings.Contains(err.Error(), "not found"):
			http.Error(w, "Checklist item not found", http.StatusNotFound)
		case strings.Contains(err.Error(), "required"):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to update checklist item", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *ChecklistHandler) DeleteChecklistItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid checklist item ID format", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteChecklistItem(itemID); err != nil {
		logging.Logger.Errorf("Failed to delete checklist item %s: %v", itemID.Hex(), err)
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "Checklist item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete checklist item", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Checklist item deleted successfully"}`))
}
