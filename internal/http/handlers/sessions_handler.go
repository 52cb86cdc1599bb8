package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"gamelounge/internal/repository"
)

// SessionsHandler serves the read-only session ledger.
type SessionsHandler struct {
	sessions *repository.SessionRepository
	logger   *zap.Logger
}

// NewSessionsHandler builds handler set.
func NewSessionsHandler(sessions *repository.SessionRepository, logger *zap.Logger) *SessionsHandler {
	return &SessionsHandler{sessions: sessions, logger: logger}
}

// List handles GET /sessions?limit=N.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	sessions, err := h.sessions.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// Get handles GET /sessions/{id}.
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
