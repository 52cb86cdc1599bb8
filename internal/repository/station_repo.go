package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"gamelounge/internal/models"
)

var (
	// ErrStationNotFound represents missing station rows.
	ErrStationNotFound = errors.New("station not found")
	// ErrStationConflict indicates a station changed state between read
	// and write, losing a compare-and-set transition.
	ErrStationConflict = errors.New("station state conflict")
)

const stationColumns = `id, name, COALESCE(model, ''), status, current_player_id, current_game_id, start_time, prepaid_units, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(row rowScanner) (*models.Station, error) {
	var st models.Station
	if err := row.Scan(
		&st.ID,
		&st.Name,
		&st.Model,
		&st.Status,
		&st.CurrentPlayerID,
		&st.CurrentGameID,
		&st.StartTime,
		&st.PrepaidUnits,
		&st.CreatedAt,
		&st.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &st, nil
}

// StationRepository handles CRUD for the stations table. Occupancy
// transitions live in RentalRepository.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository instance.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Create inserts a new station, available by default.
func (r *StationRepository) Create(ctx context.Context, station *models.Station) error {
	station.ID = uuid.NewString()
	station.Status = models.StationAvailable
	station.PrepaidUnits = 1
	const query = `
		INSERT INTO stations (id, name, model, status, prepaid_units)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		station.ID,
		station.Name,
		station.Model,
		station.Status,
		station.PrepaidUnits,
	).Scan(&station.CreatedAt, &station.UpdatedAt)
}

// GetByID fetches one station row.
func (r *StationRepository) GetByID(ctx context.Context, id string) (*models.Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM stations WHERE id = $1`
	station, err := scanStation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return station, nil
}

// List returns all stations, newest first.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM stations ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
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

// Update changes the display fields only; occupancy fields are owned by the
// state machine.
func (r *StationRepository) Update(ctx context.Context, station *models.Station) (*models.Station, error) {
	const query = `
		UPDATE stations
		SET name = $2,
		    model = NULLIF($3, ''),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + stationColumns
	updated, err := scanStation(r.db.QueryRowContext(ctx, query, station.ID, station.Name, station.Model))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a station unless it is currently occupied.
func (r *StationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM stations WHERE id = $1 AND status <> $2`
	result, err := r.db.ExecContext(ctx, query, id, models.StationOccupied)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrStationConflict
	}
	return nil
}
