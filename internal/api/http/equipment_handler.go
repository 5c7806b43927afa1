package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/service"
)

// EquipmentHandler serves the equipment catalogue endpoints
type EquipmentHandler struct {
	equipmentSvc service.EquipmentService
}

func NewEquipmentHandler(equipmentSvc service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentSvc: equipmentSvc}
}

type equipmentRequest struct {
	Name     string                   `json:"name"`
	Price    float64                  `json:"price"`
	Stock    int64                    `json:"stock"`
	Category domain.EquipmentCategory `json:"category"`
	Detail   string                   `json:"detail"`
	Image    string                   `json:"image"`
}

// List handles GET /api/equipment (public)
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.equipmentSvc.ListEquipment(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if equipment == nil {
		equipment = []domain.Equipment{}
	}
	writeJSON(w, http.StatusOK, equipment)
}

// Create handles POST /api/equipment
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	eq := &domain.Equipment{
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		Category: req.Category,
		Detail:   req.Detail,
		Image:    req.Image,
	}
	if err := h.equipmentSvc.AddEquipment(r.Context(), UserID(r.Context()), eq); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, eq)
}

// Update handles PUT /api/equipment/{id} (owner only)
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	eq := &domain.Equipment{
		ID:       mux.Vars(r)["id"],
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		Category: req.Category,
		Detail:   req.Detail,
		Image:    req.Image,
	}
	updated, err := h.equipmentSvc.UpdateEquipment(r.Context(), UserID(r.Context()), eq)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/equipment/{id} (owner only)
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.equipmentSvc.DeleteEquipment(r.Context(), UserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "equipment deleted"})
}
