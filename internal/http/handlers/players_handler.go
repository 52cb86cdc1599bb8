package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"gamelounge/internal/models"
	"gamelounge/internal/repository"
	"gamelounge/internal/service"
)

// PlayersHandler serves the player CRUD surface and the reward claim.
type PlayersHandler struct {
	players *repository.PlayerRepository
	loyalty *service.LoyaltyService
	logger  *zap.Logger
}

// NewPlayersHandler builds handler set.
func NewPlayersHandler(players *repository.PlayerRepository, loyalty *service.LoyaltyService, logger *zap.Logger) *PlayersHandler {
	return &PlayersHandler{
		players: players,
		loyalty: loyalty,
		logger:  logger,
	}
}

type playerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// List handles GET /players.
func (h *PlayersHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.players.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

// Create handles POST /players.
func (h *PlayersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	player := &models.Player{Name: req.Name, Phone: req.Phone, Notes: req.Notes}
	if err := player.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.players.Create(r.Context(), player); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

// Get handles GET /players/{id}.
func (h *PlayersHandler) Get(w http.ResponseWriter, r *http.Request) {
	player, err := h.players.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

// Update handles PUT /players/{id}. Loyalty counters are not settable here.
func (h *PlayersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	player := &models.Player{ID: r.PathValue("id"), Name: req.Name, Phone: req.Phone, Notes: req.Notes}
	if err := player.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.players.Update(r.Context(), player)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /players/{id}.
func (h *PlayersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.players.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ClaimReward handles POST /players/{id}/claim-reward.
func (h *PlayersHandler) ClaimReward(w http.ResponseWriter, r *http.Request) {
	player, err := h.loyalty.ClaimReward(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}
