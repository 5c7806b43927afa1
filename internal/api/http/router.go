package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"equiprent-backend/internal/security"
	"equiprent-backend/internal/service"
)

var startedAt = time.Now()

// NewRouter wires every REST endpoint under the /api prefix.
func NewRouter(
	equipmentSvc service.EquipmentService,
	rentalSvc service.RentalService,
	verifier security.TokenVerifier,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(LogRequests)

	equipment := NewEquipmentHandler(equipmentSvc)
	rentals := NewRentalHandler(rentalSvc)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", handleHealth).Methods(http.MethodGet)

	api.HandleFunc("/equipment", equipment.List).Methods(http.MethodGet)
	api.HandleFunc("/equipment", RequireAuth(verifier, equipment.Create)).Methods(http.MethodPost)
	api.HandleFunc("/equipment/{id}", RequireAuth(verifier, equipment.Update)).Methods(http.MethodPut)
	api.HandleFunc("/equipment/{id}", RequireAuth(verifier, equipment.Delete)).Methods(http.MethodDelete)

	api.HandleFunc("/rentals", RequireAuth(verifier, rentals.List)).Methods(http.MethodGet)
	api.HandleFunc("/rentals", RequireAuth(verifier, rentals.Create)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/status", RequireAuth(verifier, rentals.UpdateStatus)).Methods(http.MethodPut)
	api.HandleFunc("/rentals/{id}", RequireAuth(verifier, rentals.Cancel)).Methods(http.MethodDelete)

	return router
}

// handleHealth serves the liveness probe.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).Seconds(),
		"version":   "1.0.0",
	})
}
