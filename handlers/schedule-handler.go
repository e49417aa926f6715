package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"gantt-project/microservices/planning-service/logging"
	"gantt-project/microservices/planning-service/models"
	"gantt-project/microservices/planning-service/scheduler"
	"gantt-project/microservices/planning-service/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ScheduleHandler struct {
	service *services.ScheduleService
}

func NewScheduleHandler(service *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// CalculateSchedule runs a full recalculation for the project and returns the
// computed plan. A cycle in the dependency graph is reported as 422 with the
// offending task chain; bad task data is 400.
func (h *ScheduleHandler) CalculateSchedule(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID format", http.StatusBadRequest)
		return
	}

	logging.Logger.Infof("Received CalculateSchedule request for project: %s", projectID.Hex())

	// The body is optional; an empty body means "use the project's own epoch".
	var request models.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && err != io.EOF {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.Recalculate(r.Context(), projectID, request.Epoch)
	if err != nil {
		logging.Logger.Errorf("Recalculation failed for project %s: %v", projectID.Hex(), err)
		switch {
		case errors.Is(err, scheduler.ErrCyclicDependency):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, scheduler.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case strings.Contains(err.Error(), "not found"):
			http.Error(w, "Project not found", http.StatusNotFound)
		default:
			http.Error(w, "Failed to calculate schedule", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
