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

type EmployeeHandler struct {
	service *services.EmployeeService
}

func NewEmployeeHandler(service *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

func (h *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var employee models.Employee
	if err := json.NewDecoder(r.Body).Decode(&employee); err != nil {
		logging.Logger.Errorf("Failed to decode employee payload: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateEmployee(employee.Name, employee.Email, employee.DailyWorkHours)
	if err != nil {
		logging.Logger.Errorf("Failed to create employee: %v", err)
		if strings.Contains(err.Error(), "required") {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create employee", http.StatusInternalServerError)
		return
	}

	logging.Logger.Infof("Employee created: %s", created.ID.Hex())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *EmployeeHandler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.GetAllEmployees()
	if err != nil {
		logging.Logger.Errorf("Failed to retrieve employees: %v", err)
		http.Error(w, "Failed to retrieve employees", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(employees)
}

func (h *EmployeeHandler) GetEmployeeByID(w http.ResponseWriter, r *http.Request) {
	employeeID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid employee ID format", http.StatusBadRequest)
		return
	}

	employee, err := h.service.GetEmployeeByID(employeeID)
	if err != nil {
		logging.Logger.Warnf("Failed to retrieve employee %s: %v", employeeID.Hex(), err)
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "Employee not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve employee", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(employee)
}

func (h *EmployeeHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid employee ID format", http.StatusBadRequest)
		return
	}

	var employee models.Employee
	if err := json.NewDecoder(r.Body).Decode(&employee); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateEmployee(employeeID, employee.Name, employee.Email, employee.DailyWorkHours)
	if err != nil {
		logging.Logger.Errorf("Failed to update employee %s: %v", employeeID.Hex(), err)
		switch {
		case strings.Contains(err.Error(), "not found"):
			http.Error(w, "Employee not found", http.StatusNotFound)
		case strings.Contains(err.Error(), "required"), strings.Contains(err.Error(), "must be"):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to update employee", http.StatusInternalServerError)
		}
		return
	}

	logging.Logger.Infof("Employee updated: %s", employeeID.Hex())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *EmployeeHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid employee ID format", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteEmployee(employeeID); err != nil {
		logging.Logger.Errorf("Failed to delete employee %s: %v", employeeID.Hex(), err)
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "Employee not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete employee", http.StatusInternalServerError)
		return
	}

	logging.Logger.Infof("Employee deleted: %s", employeeID.Hex())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Employee deleted successfully"}`))
}
