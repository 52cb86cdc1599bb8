package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"gamelounge/internal/models"
	redisstore "gamelounge/internal/redis"
)

// Command errors surfaced unchanged to the transport layer.
var (
	// ErrInvalidTransition is returned for a command issued against a
	// station in the wrong state.
	ErrInvalidTransition = errors.New("rental: invalid station transition")
	// ErrInvalidInput is returned for malformed identifiers or a
	// non-positive prepaid unit count.
	ErrInvalidInput = errors.New("rental: invalid input")
)

// RentalStore is the persistence contract the station state machine drives.
type RentalStore interface {
	GetStation(ctx context.Context, id string) (*models.Station, error)
	GetGame(ctx context.Context, id string) (*models.Game, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	// OccupyStation transitions available -> occupied. It must fail with
	// ErrStationConflict when the station is no longer available.
	OccupyStation(ctx context.Context, stationID, playerID, gameID string, start time.Time, prepaidUnits int) (*models.Station, error)
	// ReleaseStation transitions occupied -> available without billing.
	ReleaseStation(ctx context.Context, stationID string) (*models.Station, error)
	// CompleteRental atomically persists the session, applies the loyalty
	// counters and releases the station. Nothing is committed on failure.
	CompleteRental(ctx context.Context, session *models.Session) (*models.Session, *models.Player, error)
	ActiveStations(ctx context.Context) ([]models.Station, error)
}

// RentalService owns the per-station occupancy state machine: it validates
// transitions, computes charges at close and triggers the loyalty update.
type RentalService struct {
	store       RentalStore
	activeStore *redisstore.Store
	logger      *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRentalService builds the service. activeStore may be nil to disable the
// occupancy cache.
func NewRentalService(store RentalStore, activeStore *redisstore.Store, logger *zap.Logger) *RentalService {
	return &RentalService{
		store:       store,
		activeStore: activeStore,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

// stationLock returns the mutex serializing commands for one station.
// Commands on different stations proceed in parallel.
func (s *RentalService) stationLock(stationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[stationID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[stationID] = lock
	}
	return lock
}

// StartRentalInput carries the start command parameters. PrepaidUnits must
// be positive; callers default an omitted count to 1.
type StartRentalInput struct {
	StationID    string
	PlayerID     string
	GameID       string
	PrepaidUnits int
}

// Start transitions an available station to occupied for the given player
// and game.
func (s *RentalService) Start(ctx context.Context, input StartRentalInput) (*models.Station, error) {
	if strings.TrimSpace(input.StationID) == "" ||
		strings.TrimSpace(input.PlayerID) == "" ||
		strings.TrimSpace(input.GameID) == "" {
		return nil, ErrInvalidInput
	}
	if input.PrepaidUnits <= 0 {
		return nil, ErrInvalidInput
	}

	lock := s.stationLock(input.StationID)
	lock.Lock()
	defer lock.Unlock()

	station, err := s.store.GetStation(ctx, input.StationID)
	if err != nil {
		return nil, err
	}
	if station.Status != models.StationAvailable {
		return nil, ErrInvalidTransition
	}

	player, err := s.store.GetPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	game, err := s.store.GetGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	start := time.Now().UTC()
	station, err = s.store.OccupyStation(ctx, input.StationID, player.ID, game.ID, start, input.PrepaidUnits)
	if err != nil {
		return nil, mapConflict(err)
	}
	station.CurrentPlayer = player
	station.CurrentGame = game

	s.cacheRental(ctx, station)

	s.logger.Info("rental started",
		zap.String("station_id", station.ID),
		zap.String("player_id", player.ID),
		zap.String("game_id", game.ID),
		zap.Int("prepaid_units", input.PrepaidUnits),
	)
	return station, nil
}

// Stop closes the rental on an occupied station: it computes the charge,
// persists the session, applies the loyalty counters and frees the station.
// The created session is returned.
func (s *RentalService) Stop(ctx context.Context, stationID string) (*models.Session, error) {
	if strings.TrimSpace(stationID) == "" {
		return nil, ErrInvalidInput
	}

	lock := s.stationLock(stationID)
	lock.Lock()
	defer lock.Unlock()

	station, err := s.store.GetStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	// An occupied station missing any occupancy field is corrupted state;
	// reported as an invalid transition, never billed.
	if !station.Occupied() {
		return nil, ErrInvalidTransition
	}

	game, err := s.store.GetGame(ctx, *station.CurrentGameID)
	if err != nil {
		return nil, err
	}

	end := time.Now().UTC()
	minutes := ElapsedMinutes(*station.StartTime, end)
	charge := CalculateCharge(game.Mode, game.UnitPrice, minutes, station.PrepaidUnits)

	session := &models.Session{
		StationID: station.ID,
		PlayerID:  *station.CurrentPlayerID,
		GameID:    game.ID,
		StartTime: *station.StartTime,
		EndTime:   end,
		Charge:    charge,
	}

	session, player, err := s.store.CompleteRental(ctx, session)
	if err != nil {
		return nil, mapConflict(err)
	}

	s.uncacheRental(ctx, station.ID)

	fields := []zap.Field{
		zap.String("station_id", station.ID),
		zap.String("session_id", session.ID),
		zap.String("player_id", player.ID),
		zap.Int("elapsed_minutes", minutes),
		zap.String("charge", charge.String()),
	}
	if player.GamesCompleted%models.RewardThreshold == 0 {
		fields = append(fields, zap.Int("rewards_earned", player.RewardsEarned))
	}
	s.logger.Info("rental stopped", fields...)

	return session, nil
}

// Cancel frees an occupied station without creating a session, charging or
// touching loyalty counters.
func (s *RentalService) Cancel(ctx context.Context, stationID string) (*models.Station, error) {
	if strings.TrimSpace(stationID) == "" {
		return nil, ErrInvalidInput
	}

	lock := s.stationLock(stationID)
	lock.Lock()
	defer lock.Unlock()

	station, err := s.store.GetStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if station.Status != models.StationOccupied {
		return nil, ErrInvalidTransition
	}

	station, err = s.store.ReleaseStation(ctx, stationID)
	if err != nil {
		return nil, mapConflict(err)
	}

	s.uncacheRental(ctx, station.ID)

	s.logger.Info("rental cancelled", zap.String("station_id", station.ID))
	return station, nil
}

// Station returns one station with its current rental references resolved.
func (s *RentalService) Station(ctx context.Context, stationID string) (*models.Station, error) {
	if strings.TrimSpace(stationID) == "" {
		return nil, ErrInvalidInput
	}
	return s.store.GetStation(ctx, stationID)
}

// ActiveRentals returns the current occupancy snapshot, preferring the cache
// and falling back to the database.
func (s *RentalService) ActiveRentals(ctx context.Context) ([]redisstore.ActiveRental, error) {
	if s.activeStore != nil {
		rentals, err := s.activeStore.List(ctx)
		if err == nil {
			return rentals, nil
		}
		s.logger.Warn("active rental cache unavailable", zap.Error(err))
	}

	stations, err := s.store.ActiveStations(ctx)
	if err != nil {
		return nil, err
	}
	rentals := make([]redisstore.ActiveRental, 0, len(stations))
	for _, st := range stations {
		if !st.Occupied() {
			continue
		}
		rentals = append(rentals, redisstore.ActiveRental{
			StationID:    st.ID,
			StationName:  st.Name,
			PlayerID:     *st.CurrentPlayerID,
			GameID:       *st.CurrentGameID,
			StartTime:    *st.StartTime,
			PrepaidUnits: st.PrepaidUnits,
		})
	}
	return rentals, nil
}

// cacheRental stores the occupancy snapshot; cache failures are logged and
// never fail the command.
func (s *RentalService) cacheRental(ctx context.Context, station *models.Station) {
	if s.activeStore == nil || !station.Occupied() {
		return
	}
	err := s.activeStore.Save(ctx, redisstore.ActiveRental{
		StationID:    station.ID,
		StationName:  station.Name,
		PlayerID:     *station.CurrentPlayerID,
		GameID:       *station.CurrentGameID,
		StartTime:    *station.StartTime,
		PrepaidUnits: station.PrepaidUnits,
	})
	if err != nil {
		s.logger.Warn("failed to cache active rental", zap.Error(err))
	}
}

func (s *RentalService) uncacheRental(ctx context.Context, stationID string) {
	if s.activeStore == nil {
		return
	}
	if err := s.activeStore.Delete(ctx, stationID); err != nil {
		s.logger.Warn("failed to drop active rental cache", zap.Error(err))
	}
}
