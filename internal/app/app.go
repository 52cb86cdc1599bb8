package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "gamelounge/libs/db"
	libredis "gamelounge/libs/redis"

	"gamelounge/internal/config"
	httpserver "gamelounge/internal/http"
	"gamelounge/internal/http/handlers"
	redisstore "gamelounge/internal/redis"
	"gamelounge/internal/repository"
	"gamelounge/internal/service"
)

// App wires the lounge service dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	stationRepo := repository.NewStationRepository(sqlDB)
	gameRepo := repository.NewGameRepository(sqlDB)
	playerRepo := repository.NewPlayerRepository(sqlDB)
	sessionRepo := repository.NewSessionRepository(sqlDB)
	rentalRepo := repository.NewRentalRepository(sqlDB, stationRepo, gameRepo, playerRepo)

	occupancyStore := redisstore.NewStore(redisClient, cfg.OccupancyTTL())
	rentalService := service.NewRentalService(rentalRepo, occupancyStore, logger)
	loyaltyService := service.NewLoyaltyService(playerRepo, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Stations: handlers.NewStationsHandler(stationRepo, rentalService, logger),
		Rentals:  handlers.NewRentalsHandler(rentalService, logger),
		Games:    handlers.NewGamesHandler(gameRepo, logger),
		Players:  handlers.NewPlayersHandler(playerRepo, loyaltyService, logger),
		Sessions: handlers.NewSessionsHandler(sessionRepo, logger),
		Admin:    handlers.NewAdminHandler(loyaltyService, logger),
		Health:   handlers.NewHealthHandler(),
	})
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
