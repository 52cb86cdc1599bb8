package httpserver

import (
	"net/http"

	"gamelounge/internal/http/handlers"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Stations *handlers.StationsHandler
	Rentals  *handlers.RentalsHandler
	Games    *handlers.GamesHandler
	Players  *handlers.PlayersHandler
	Sessions *handlers.SessionsHandler
	Admin    *handlers.AdminHandler
	Health   http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", deps.Health)

	mux.HandleFunc("GET /stations", deps.Stations.List)
	mux.HandleFunc("POST /stations", deps.Stations.Create)
	mux.HandleFunc("GET /stations/{id}", deps.Stations.Get)
	mux.HandleFunc("PUT /stations/{id}", deps.Stations.Update)
	mux.HandleFunc("DELETE /stations/{id}", deps.Stations.Delete)

	mux.HandleFunc("POST /stations/{id}/start", deps.Rentals.Start)
	mux.HandleFunc("POST /stations/{id}/stop", deps.Rentals.Stop)
	mux.HandleFunc("POST /stations/{id}/cancel", deps.Rentals.Cancel)
	mux.HandleFunc("GET /rentals/active", deps.Rentals.Active)

	mux.HandleFunc("GET /games", deps.Games.List)
	mux.HandleFunc("POST /games", deps.Games.Create)
	mux.HandleFunc("GET /games/{id}", deps.Games.Get)
	mux.HandleFunc("PUT /games/{id}", deps.Games.Update)
	mux.HandleFunc("DELETE /games/{id}", deps.Games.Delete)

	mux.HandleFunc("GET /players", deps.Players.List)
	mux.HandleFunc("POST /players", deps.Players.Create)
	mux.HandleFunc("GET /players/{id}", deps.Players.Get)
	mux.HandleFunc("PUT /players/{id}", deps.Players.Update)
	mux.HandleFunc("DELETE /players/{id}", deps.Players.Delete)
	mux.HandleFunc("POST /players/{id}/claim-reward", deps.Players.ClaimReward)

	mux.HandleFunc("GET /sessions", deps.Sessions.List)
	mux.HandleFunc("GET /sessions/{id}", deps.Sessions.Get)

	mux.HandleFunc("POST /admin/loyalty/init", deps.Admin.InitLoyalty)

	return mux
}
