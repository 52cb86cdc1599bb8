package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"gamelounge/internal/service"
)

// RentalsHandler serves the three occupancy commands and the active rental
// query surface.
type RentalsHandler struct {
	rentals *service.RentalService
	logger  *zap.Logger
}

// NewRentalsHandler builds handler set.
func NewRentalsHandler(rentals *service.RentalService, logger *zap.Logger) *RentalsHandler {
	return &RentalsHandler{rentals: rentals, logger: logger}
}

type startRentalRequest struct {
	PlayerID     string `json:"player_id"`
	GameID       string `json:"game_id"`
	PrepaidUnits *int   `json:"prepaid_units"`
}

// Start handles POST /stations/{id}/start.
func (h *RentalsHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	// An omitted prepaid count means a single unit; an explicit
	// non-positive one is rejected by the service.
	prepaidUnits := 1
	if req.PrepaidUnits != nil {
		prepaidUnits = *req.PrepaidUnits
	}

	station, err := h.rentals.Start(r.Context(), service.StartRentalInput{
		StationID:    r.PathValue("id"),
		PlayerID:     req.PlayerID,
		GameID:       req.GameID,
		PrepaidUnits: prepaidUnits,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Stop handles POST /stations/{id}/stop and returns the created session.
func (h *RentalsHandler) Stop(w http.ResponseWriter, r *http.Request) {
	session, err := h.rentals.Stop(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// Cancel handles POST /stations/{id}/cancel. No session, no charge, no
// loyalty update.
func (h *RentalsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	station, err := h.rentals.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Active handles GET /rentals/active.
func (h *RentalsHandler) Active(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentals.ActiveRentals(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rentals": rentals})
}
