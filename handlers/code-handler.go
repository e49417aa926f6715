package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gantt-project/microservices/planning-service/models"

	"github.com/gorilla/mux"
)

// CodeHandler serves the compiled-in status/priority/dependency-kind registry
// the frontend renders its select boxes from.
type CodeHandler struct{}

func NewCodeHandler() *CodeHandler {
	return &CodeHandler{}
}

func (h *CodeHandler) GetCodesByType(w http.ResponseWriter, r *http.Request) {
	codeType := strings.ToUpper(mux.Vars(r)["type"])

	codes := models.CodesByType(codeType)
	if codes == nil {
		http.Error(w, "Unknown code type", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(codes)
}
