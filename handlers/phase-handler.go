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

type PhaseHandler struct {
	service *services.PhaseService
}

func NewPhaseHandler(service *services.PhaseService) *PhaseHandler {
	return &PhaseHandler{service: service}
}

func (h *PhaseHandler) CreatePhase(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID format", http.StatusBadRequest)
		return
	}

	var phase models.ProjectPhase
	if err := json.NewDecoder(r.Body).Decode(&phase); err != nil {
		logging.Logger.Errorf("Failed to decode phase payload: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	phase.ProjectID = projectID

	created, err := h.service.CreatePhase(&phase)
	if err != nil {
		logging.Logger.Errorf("Failed to create phase for project %s: %v", projectID.Hex(), err)
		switch {
		case strings.Contains(err.Error(), "required"):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case strings.Contains(err.Error(), "not found"):
			http.Error(w, "Project not found", http.StatusNotFound)
		default:
			http.Error(w, "Failed to create phase", http.StatusInternalServerError)
		}
		return
	}

	logging.Logger.Infof("Phase created: %s (%s)", created.Name, created.ID.Hex())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *PhaseHandler) GetPhasesByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID format", http.StatusBadRequest)
		return
	}

	phases, err := h.service.GetPhasesByProject(projectID)
	if err != nil {
		logging.Logger.Errorf("Failed to retrieve phases for project %s: %v", projectID.Hex(), err)
		http.Error(w, "Failed to retrieve phases", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(phases)
}

func (h *PhaseHandler) UpdatePhase(w http.ResponseWriter, r *http.Request) {
	phaseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid phase ID format", http.StatusBadRequest)
		return
	}

	var phase models.ProjectPhase
	if err := json.NewDecoder(r.Body).Decode(&phase); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdatePhase(phaseID, &phase)
	if err != nil {
		logging.Logger.Errorf("Failed to update phase %s: %v", phaseID.Hex(), err)
		switch {
		case strings.Contains(err.Error(), "not found"):
			http.Error(w, "Phase not found", http.StatusNotFound)
		case strings.Contains(err.Error(), "required"):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to update phase", http.StatusInternalServerError)
		}
		return
	}

	logging.Logger.Infof("Phase updated: %s", phaseID.Hex())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *PhaseHandler) DeletePhase(w http.ResponseWriter, r *http.Request) {
	phaseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid phase ID format", http.StatusBadRequest)
		return
	}

	if err := h.service.DeletePhase(phaseID); err != nil {
		logging.Logger.Errorf("Failed to delete phase %s: %v", phaseID.Hex(), err)
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "Phase not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete phase", http.StatusInternalServerError)
		return
	}

	logging.Logger.Infof("Phase deleted: %s", phaseID.Hex())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Phase deleted successfully"}`))
}
