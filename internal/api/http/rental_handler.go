package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
	"equiprent-backend/internal/service"
)

// RentalHandler serves the rental lifecycle endpoints
type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

type createRentalRequest struct {
	EquipmentID  string `json:"equipmentId"`
	Quantity     int64  `json:"quantity"`
	DurationDays int64  `json:"durationDays"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
}

type statusUpdateRequest struct {
	Status               string `json:"status"`
	TrackingNumber       string `json:"trackingNumber,omitempty"`
	ReturnTrackingNumber string `json:"returnTrackingNumber,omitempty"`
}

// List handles GET /api/rentals with optional minPrice/maxPrice filters
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repository.RentalFilter
	if raw := r.URL.Query().Get("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "minPrice must be a number")
			return
		}
		filter.MinPrice = &v
	}
	if raw := r.URL.Query().Get("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "maxPrice must be a number")
			return
		}
		filter.MaxPrice = &v
	}

	rentals, err := h.rentalSvc.ListRentals(r.Context(), UserID(r.Context()), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if rentals == nil {
		rentals = []domain.Rental{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rentals})
}

// Create handles POST /api/rentals
func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := service.CreateRentalInput{
		EquipmentID:  req.EquipmentID,
		Quantity:     req.Quantity,
		DurationDays: req.DurationDays,
	}
	if req.StartDate != "" {
		t, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "startDate must be an RFC 3339 timestamp")
			return
		}
		in.StartDate = &t
	}
	if req.EndDate != "" {
		t, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "endDate must be an RFC 3339 timestamp")
			return
		}
		in.EndDate = &t
	}

	rental, err := h.rentalSvc.CreateRental(r.Context(), UserID(r.Context()), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

// UpdateStatus handles PUT /api/rentals/{id}/status
func (h *RentalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	rental, err := h.rentalSvc.UpdateStatus(
		r.Context(),
		UserID(r.Context()),
		mux.Vars(r)["id"],
		domain.RentalStatus(req.Status),
		service.StatusPayload{
			TrackingNumber:       req.TrackingNumber,
			ReturnTrackingNumber: req.ReturnTrackingNumber,
		},
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// Cancel handles DELETE /api/rentals/{id} (renter only, early states)
func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.rentalSvc.CancelRental(r.Context(), UserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "rental cancelled"})
}
