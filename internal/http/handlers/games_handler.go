package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gamelounge/internal/models"
	"gamelounge/internal/repository"
)

// GamesHandler serves the game catalog CRUD surface.
type GamesHandler struct {
	games  *repository.GameRepository
	logger *zap.Logger
}

// NewGamesHandler builds handler set.
func NewGamesHandler(games *repository.GameRepository, logger *zap.Logger) *GamesHandler {
	return &GamesHandler{games: games, logger: logger}
}

type gameRequest struct {
	Title     string          `json:"title"`
	Mode      string          `json:"pricing_mode"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// List handles GET /games.
func (h *GamesHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

// Create handles POST /games.
func (h *GamesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	game := &models.Game{
		Title:     req.Title,
		Mode:      models.PricingMode(req.Mode),
		UnitPrice: req.UnitPrice,
	}
	if err := game.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.games.Create(r.Context(), game); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

// Get handles GET /games/{id}.
func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// Update handles PUT /games/{id}.
func (h *GamesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	game := &models.Game{
		ID:        r.PathValue("id"),
		Title:     req.Title,
		Mode:      models.PricingMode(req.Mode),
		UnitPrice: req.UnitPrice,
	}
	if err := game.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.games.Update(r.Context(), game)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /games/{id}.
func (h *GamesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.games.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
