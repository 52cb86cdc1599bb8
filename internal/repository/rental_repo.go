package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamelounge/internal/models"
)

// RentalRepository implements the persistence side of the station state
// machine: compare-and-set occupancy transitions and the transactional
// session close.
type RentalRepository struct {
	db       *sql.DB
	stations *StationRepository
	games    *GameRepository
	players  *PlayerRepository
}

// NewRentalRepository returns repository instance.
func NewRentalRepository(db *sql.DB, stations *StationRepository, games *GameRepository, players *PlayerRepository) *RentalRepository {
	return &RentalRepository{
		db:       db,
		stations: stations,
		games:    games,
		players:  players,
	}
}

// GetStation fetches a station and resolves its current player and game
// references when occupied.
func (r *RentalRepository) GetStation(ctx context.Context, id string) (*models.Station, error) {
	station, err := r.stations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if station.CurrentPlayerID != nil {
		if player, err := r.players.GetByID(ctx, *station.CurrentPlayerID); err == nil {
			station.CurrentPlayer = player
		}
	}
	if station.CurrentGameID != nil {
		if game, err := r.games.GetByID(ctx, *station.CurrentGameID); err == nil {
			station.CurrentGame = game
		}
	}
	return station, nil
}

// GetGame resolves a game reference.
func (r *RentalRepository) GetGame(ctx context.Context, id string) (*models.Game, error) {
	return r.games.GetByID(ctx, id)
}

// GetPlayer resolves a player reference.
func (r *RentalRepository) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return r.players.GetByID(ctx, id)
}

// OccupyStation transitions available -> occupied. The status guard in the
// WHERE clause makes a racing start lose cleanly.
func (r *RentalRepository) OccupyStation(ctx context.Context, stationID, playerID, gameID string, start time.Time, prepaidUnits int) (*models.Station, error) {
	const query = `
		UPDATE stations
		SET status = $2,
		    current_player_id = $3,
		    current_game_id = $4,
		    start_time = $5,
		    prepaid_units = $6,
		    updated_at = NOW()
		WHERE id = $1 AND status = $7
		RETURNING ` + stationColumns
	station, err := scanStation(r.db.QueryRowContext(ctx, query,
		stationID,
		models.StationOccupied,
		playerID,
		gameID,
		start,
		prepaidUnits,
		models.StationAvailable,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationConflict
		}
		return nil, err
	}
	return station, nil
}

// ReleaseStation transitions occupied -> available, clearing every occupancy
// field and resetting the prepaid count. Used by cancel; stop clears inside
// its transaction.
func (r *RentalRepository) ReleaseStation(ctx context.Context, stationID string) (*models.Station, error) {
	const query = `
		UPDATE stations
		SET status = $2,
		    current_player_id = NULL,
		    current_game_id = NULL,
		    start_time = NULL,
		    prepaid_units = 1,
		    updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING ` + stationColumns
	station, err := scanStation(r.db.QueryRowContext(ctx, query,
		stationID,
		models.StationAvailable,
		models.StationOccupied,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationConflict
		}
		return nil, err
	}
	return station, nil
}

// CompleteRental writes the whole stop effect in one transaction: the ledger
// insert, the loyalty counter update under a player row lock, and the
// station release guarded by its status. On any failure nothing commits and
// the station stays occupied, so the caller can retry the stop.
func (r *RentalRepository) CompleteRental(ctx context.Context, session *models.Session) (*models.Session, *models.Player, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	session.ID = uuid.NewString()
	const insertQuery = `
		INSERT INTO sessions (id, station_id, player_id, game_id, start_time, end_time, charge)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	if err := tx.QueryRowContext(ctx, insertQuery,
		session.ID,
		session.StationID,
		session.PlayerID,
		session.GameID,
		session.StartTime,
		session.EndTime,
		session.Charge,
	).Scan(&session.CreatedAt); err != nil {
		return nil, nil, fmt.Errorf("complete rental: insert session: %w", err)
	}

	const lockQuery = `SELECT ` + playerColumns + ` FROM players WHERE id = $1 FOR UPDATE`
	player, err := scanPlayer(tx.QueryRowContext(ctx, lockQuery, session.PlayerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrPlayerNotFound
		}
		return nil, nil, err
	}

	player.ApplyCompletion()

	const playerQuery = `
		UPDATE players
		SET loyalty_points = $2,
		    games_completed = $3,
		    rewards_earned = $4,
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, playerQuery,
		player.ID,
		player.LoyaltyPoints,
		player.GamesCompleted,
		player.RewardsEarned,
	); err != nil {
		return nil, nil, fmt.Errorf("complete rental: update player: %w", err)
	}

	const releaseQuery = `
		UPDATE stations
		SET status = $2,
		    current_player_id = NULL,
		    current_game_id = NULL,
		    start_time = NULL,
		    prepaid_units = 1,
		    updated_at = NOW()
		WHERE id = $1 AND status = $3
	`
	result, err := tx.ExecContext(ctx, releaseQuery,
		session.StationID,
		models.StationAvailable,
		models.StationOccupied,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("complete rental: release station: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, nil, err
	}
	if affected == 0 {
		return nil, nil, ErrStationConflict
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("complete rental: commit: %w", err)
	}
	return session, player, nil
}

// ActiveStations returns every occupied station, oldest rental first.
func (r *RentalRepository) ActiveStations(ctx context.Context) ([]models.Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM stations WHERE status = $1 ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, query, models.StationOccupied)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *station)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}
