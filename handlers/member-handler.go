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

type MemberHandler struct {
	service *services.MemberService
}

func NewMemberHandler(service *services.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

func (h *MemberHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID format", http.StatusBadRequest)
		return
	}

	var member models.ProjectMember
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		logging.Logger.Errorf("Failed to decode member payload: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	member.ProjectID = projectID

	added, err := h.service.AddMember(&member)
	if err != nil {
		logging.Logger.Errorf("Failed to add member to project %s: %v", projectID.Hex(), err)
		switch {
		case strings.Contains(err.Error(), "already a member"):
			http.Error(w, err.Error(), http.StatusConflict)
		case strings.Contains(err.Error(), "not found"):
			http.Error(w, err.Error(), http.StatusNotFound)
		case strings.Contains(err.Error(), "allocation ratio"):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to add member", http.StatusInternalServerError)
		}
		return
	}

	logging.Logger.Infof("Member %s added to project %s", added.EmployeeID.Hex(), projectID.Hex())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(added)
}

func (h *MemberHandler) GetProjectMembers(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID format", http.StatusBadRequest)
		return
	}

	members, err := h.service.GetProjectMembers(projectID)
	if err != nil {
		logging.Logger.Errorf("Failed to retrieve members for project %s: %v", projectID.Hex(), err)
		http.Error(w, "Failed to retrieve members", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(members)
}

func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid project ID format", http.StatusBadRequest)
		return
	}
	employeeID, err := primitive.ObjectIDFromHex(vars["employeeId"])
	if err != nil {
		http.Error(w, "Invalid employee ID format", http.StatusBadRequest)
		return
	}

	var member models.ProjectMember
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateMember(projectID, employeeID, &member)
	if err != nil {
		logging.Logger.Errorf("Failed to update membership %s/%s: %v", projectID.Hex(), employeeID.Hex(), err)
		switch {
		case strings.Contains(err.Error(), "not found"):
			http.Error(w, "Membership not found", http.StatusNotFound)
		case strings.Contains(err.Error(), "allocation ratio"):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to update membership", http.StatusInternalServerError)
		}
		return
	}

	logging.Logger.Infof("Membership updated: project %s, employee %s", projectID.Hex(), employeeID.Hex())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *MemberHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid project ID format", http.StatusBadRequest)
		return
	}
	employeeID, err := primitive.ObjectIDFromHex(vars["employeeId"])
	if err != nil {
		http.Error(w, "Invalid employee ID format", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveMember(projectID, employeeID); err != nil {
		logging.Logger.Errorf("Failed to remove member %s from project %s: %v", employeeID.Hex(), projectID.Hex(), err)
		switch {
		case strings.Contains(err.Error(), "assigned tasks"):
			http.Error(w, err.Error(), http.StatusConflict)
		case strings.Contains(err.Error(), "not found"):
			http.Error(w, "Membership not found", http.StatusNotFound)
		default:
			http.Error(w, "Failed to remove member", http.StatusInternalServerError)
		}
		return
	}

	logging.Logger.Infof("Member %s removed from project %s", employeeID.Hex(), projectID.Hex())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Member removed from project successfully"}`))
}
