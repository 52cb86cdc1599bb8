package repository

import (
	"context"
	"database/sql"
	"errors"

	"gamelounge/internal/models"
)

// ErrSessionNotFound represents missing session rows.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository reads the append-only session ledger. Writes happen only
// inside RentalRepository.CompleteRental; closed sessions are never revised.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns repository instance.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionSelect = `
	SELECT s.id, s.station_id, s.player_id, s.game_id, s.start_time, s.end_time, s.charge, s.created_at,
	       p.name, g.title, g.pricing_mode, g.unit_price
	FROM sessions s
	JOIN players p ON p.id = s.player_id
	JOIN games g ON g.id = s.game_id
`

func scanSessionRow(row rowScanner) (*models.Session, error) {
	var (
		s          models.Session
		playerName string
		game       models.Game
	)
	if err := row.Scan(
		&s.ID,
		&s.StationID,
		&s.PlayerID,
		&s.GameID,
		&s.StartTime,
		&s.EndTime,
		&s.Charge,
		&s.CreatedAt,
		&playerName,
		&game.Title,
		&game.Mode,
		&game.UnitPrice,
	); err != nil {
		return nil, err
	}
	s.Player = &models.Player{ID: s.PlayerID, Name: playerName}
	game.ID = s.GameID
	s.Game = &game
	return &s, nil
}

// GetByID fetches one ledger entry with its references resolved.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	const query = sessionSelect + ` WHERE s.id = $1`
	session, err := scanSessionRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// List returns the most recent ledger entries with their references
// resolved.
func (r *SessionRepository) List(ctx context.Context, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = sessionSelect + `
		ORDER BY s.end_time DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSessionRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
