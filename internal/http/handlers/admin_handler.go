package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"gamelounge/internal/service"
)

// AdminHandler serves one-off maintenance operations that live outside the
// state machine's contract.
type AdminHandler struct {
	loyalty *service.LoyaltyService
	logger  *zap.Logger
}

// NewAdminHandler builds handler set.
func NewAdminHandler(loyalty *service.LoyaltyService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{loyalty: loyalty, logger: logger}
}

// InitLoyalty handles POST /admin/loyalty/init: an idempotent backfill of
// loyalty counters on player rows imported without them.
func (h *AdminHandler) InitLoyalty(w http.ResponseWriter, r *http.Request) {
	updated, err := h.loyalty.InitCounters(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players_updated": updated})
}
