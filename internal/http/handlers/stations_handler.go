package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"gamelounge/internal/models"
	"gamelounge/internal/repository"
	"gamelounge/internal/service"
)

// StationsHandler serves the station CRUD surface. Occupancy commands live
// in RentalsHandler.
type StationsHandler struct {
	stations *repository.StationRepository
	rentals  *service.RentalService
	logger   *zap.Logger
}

// NewStationsHandler builds handler set.
func NewStationsHandler(stations *repository.StationRepository, rentals *service.RentalService, logger *zap.Logger) *StationsHandler {
	return &StationsHandler{
		stations: stations,
		rentals:  rentals,
		logger:   logger,
	}
}

type stationRequest struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// List handles GET /stations.
func (h *StationsHandler) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.stations.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stations": stations})
}

// Create handles POST /stations.
func (h *StationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	station := &models.Station{Name: req.Name, Model: req.Model}
	if err := station.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.stations.Create(r.Context(), station); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// Get handles GET /stations/{id}, resolving the current rental references.
func (h *StationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	station, err := h.rentals.Station(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Update handles PUT /stations/{id}. Only display fields change here; the
// state machine owns the occupancy fields.
func (h *StationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	station := &models.Station{ID: r.PathValue("id"), Name: req.Name, Model: req.Model}
	if err := station.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.stations.Update(r.Context(), station)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /stations/{id}. Occupied stations cannot be removed.
func (h *StationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.stations.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
