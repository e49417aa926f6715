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

type WorkflowHandler struct {
	WorkflowService *services.WorkflowService
	TaskService     *services.TaskService
}

func NewWorkflowHandler(workflowService *services.WorkflowService, taskService *services.TaskService) *WorkflowHandler {
	return &WorkflowHandler{
		WorkflowService: workflowService,
		TaskService:     taskService,
	}
}

func (h *WorkflowHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	var relation models.TaskDependency

	logging.Logger.Infof("Received AddDependency request")

	if err := json.NewDecoder(r.Body).Decode(&relation); err != nil {
		logging.Logger.Errorf("Failed to decode request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if relation.TaskID == "" || relation.DependsOnID == "" {
		logging.Logger.Warn("Missing task IDs in dependency relation")
		http.Error(w, "Missing task IDs", http.StatusBadRequest)
		return
	}

	if err := h.WorkflowService.AddDependency(r.Context(), relation); err != nil {
		logging.Logger.Errorf("Failed to add dependency: %v", err)
		msg := err.Error()
		switch {
		case strings.Contains(msg, "dependency already exists"):
			http.Error(w, "Dependency already exists", http.StatusConflict)
		case strings.Contains(msg, "cycle detected"):
			http.Error(w, "Cannot add dependency due to cycle", http.StatusConflict)
		case strings.Contains(msg, "do not exist"):
			http.Error(w, "One or both tasks do not exist", http.StatusNotFound)
		case strings.Contains(msg, "unknown relation kind"):
			http.Error(w, msg, http.StatusBadRequest)
		default:
			http.Error(w, msg, http.StatusInternalServerError)
		}
		return
	}

	if err := h.flagTaskProject(relation.TaskID); err != nil {
		logging.Logger.Errorf("Failed to flag project after dependency add: %v", err)
		http.Error(w, "Failed to flag project for recalculation", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(`{"message": "Dependency successfully added"}`))
}

func (h *WorkflowHandler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	relation := models.TaskDependency{
		TaskID:      vars["taskId"],
		DependsOnID: vars["dependsOnId"],
	}

	if relation.TaskID == "" || relation.DependsOnID == "" {
		http.Error(w, "Missing task IDs", http.StatusBadRequest)
		return
	}

	if err := h.WorkflowService.RemoveDependency(r.Context(), relation); err != nil {
		logging.Logger.Errorf("Failed to remove dependency: %v", err)
		http.Error(w, "Failed to remove dependency: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.flagTaskProject(relation.TaskID); err != nil {
		logging.Logger.Errorf("Failed to flag project after dependency removal: %v", err)
		http.Error(w, "Failed to flag project for recalculation", http.StatusInternalServerError)
		return
	}

	logging.Logger.Infof("Dependency removed: %s <- %s", relation.TaskID, relation.DependsOnID)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Dependency removed successfully"}`))
}

// flagTaskProject marks the project owning the task for recalculation after
// an edge mutation.
func (h *WorkflowHandler) flagTaskProject(taskID string) error {
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return err
	}
	return h.TaskService.FlagScheduleDirty(id)
}

func (h *WorkflowHandler) GetDependencies(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]

	if taskID == "" {
		logging.Logger.Warn("Missing task ID parameter")
		http.Error(w, "Missing task ID parameter", http.StatusBadRequest)
		return
	}

	deps, err := h.WorkflowService.GetDependencies(r.Context(), taskID)
	if err != nil {
		logging.Logger.Errorf("Failed to get dependencies: %v", err)
		http.Error(w, "Failed to get dependencies: "+err.Error(), http.StatusInternalServerError)
		return
	}

	logging.Logger.Infof("Dependencies fetched for task %s: count = %d", taskID, len(deps))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deps)
}

func (h *WorkflowHandler) GetWorkflowGraph(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]

	logging.Logger.Infof("Received GetWorkflowGraph request for project: %s", projectID)

	graph, err := h.WorkflowService.GetWorkflowGraph(r.Context(), projectID)
	if err != nil {
		logging.Logger.Errorf("Failed to get workflow graph for project %s: %v", projectID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logging.Logger.Infof("Workflow graph loaded for project %s: nodes=%d, edges=%d", projectID, len(graph.Nodes), len(graph.Edges))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(graph)
}
