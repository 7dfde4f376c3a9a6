package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Ak1ra777/LeadFlow-demo/models"
	"github.com/Ak1ra777/LeadFlow-demo/services"

	"github.com/gorilla/mux"
)

// LeadHandler exposes saved leads for sales follow-up.
type LeadHandler struct {
	service *services.LeadService
}

func NewLeadHandler(service *services.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

func (h *LeadHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/leads", h.GetLeads).Methods("GET")
}

func (h *LeadHandler) GetLeads(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var (
		leads []models.Lead
		err   error
	)
	if query != "" {
		leads, err = h.service.SearchLeads(r.Context(), query)
	} else {
		leads, err = h.service.ListLeads(r.Context())
	}
	if err != nil {
		log.Printf("[ERROR] Failed to fetch leads: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to fetch leads")
		return
	}

	if leads == nil {
		leads = []models.Lead{}
	}
	writeJSONResponse(w, http.StatusOK, leads)
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
