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

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		logging.Logger.Errorf("Failed to decode project payload: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateProject(&project)
	if err != nil {
		logging.Logger.Errorf("Failed to create project: %v", err)
		switch {
		case strings.Contains(err.Error(), "required"), strings.Contains(err.Error(), "must not precede"):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case strings.Contains(err.Error(), "duplicate key"):
			http.Error(w, "A project with that name already exists", http.StatusConflict)
		default:
			http.Error(w, "Failed to create project", http.StatusInternalServerError)
		}
		return
	}

	logging.Logger.Infof("Project created: %s (%s)", created.Name, created.ID.Hex())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *ProjectHandler) GetAllProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.GetAllProjects()
	if err != nil {
		logging.Logger.Errorf("Failed to retrieve projects: %v", err)
		http.Error(w, "Failed to retrieve projects", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(projects)
}

func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID format", http.StatusBadRequest)
		return
	}

	project, err := h.service.GetProjectByID(projectID)
	if err != nil {
		logging.Logger.Warnf("Failed to retrieve project %s: %v", projectID.Hex(), err)
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "Project not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve project", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID format", http.StatusBadRequest)
		return
	}

	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateProject(projectID, &project)
	if err != nil {
		logging.Logger.Errorf("Failed to update project %s: %v", projectID.Hex(), err)
		switch {
		case strings.Contains(err.Error(), "not found"):
			http.Error(w, "Project not found", http.StatusNotFound)
		case strings.Contains(err.Error(), "required"), strings.Contains(err.Error(), "must not precede"):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case strings.Contains(err.Error(), "duplicate key"):
			http.Error(w, "A project with that name already exists", http.StatusConflict)
		default:
			http.Error(w, "Failed to update project", http.StatusInternalServerError)
		}
		return
	}

	logging.Logger.Infof("Project updated: %s", projectID.Hex())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID format", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteProject(r.Context(), projectID); err != nil {
		logging.Logger.Errorf("Failed to delete project %s: %v", projectID.Hex(), err)
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "Project not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete project", http.StatusInternalServerError)
		return
	}

	logging.Logger.Infof("Project deleted: %s", projectID.Hex())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Project deleted successfully"}`))
}
