package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gamelounge/internal/models"
)

// ErrPlayerNotFound represents missing player rows.
var ErrPlayerNotFound = errors.New("player not found")

// Loyalty counters are nullable because player rows imported from the old
// system may predate loyalty tracking; reads coalesce, the backfill
// migration repairs.
const playerColumns = `id, name, COALESCE(phone, ''), COALESCE(notes, ''), COALESCE(loyalty_points, 0), COALESCE(games_completed, 0), COALESCE(rewards_earned, 0), created_at, updated_at`

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Phone,
		&p.Notes,
		&p.LoyaltyPoints,
		&p.GamesCompleted,
		&p.RewardsEarned,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// PlayerRepository handles CRUD and counter operations for players.
type PlayerRepository struct {
	db *sql.DB
}

// NewPlayerRepository returns repository instance.
func NewPlayerRepository(db *sql.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Create inserts a new player with zeroed counters.
func (r *PlayerRepository) Create(ctx context.Context, player *models.Player) error {
	player.ID = uuid.NewString()
	const query = `
		INSERT INTO players (id, name, phone, notes, loyalty_points, games_completed, rewards_earned)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), 0, 0, 0)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		player.ID,
		player.Name,
		player.Phone,
		player.Notes,
	).Scan(&player.CreatedAt, &player.UpdatedAt)
}

// GetByID fetches one player.
func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	const query = `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

// List returns all players, newest first.
func (r *PlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	const query = `SELECT ` + playerColumns + ` FROM players ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *player)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

// Update changes the profile fields only; counters are owned by the loyalty
// tracker.
func (r *PlayerRepository) Update(ctx context.Context, player *models.Player) (*models.Player, error) {
	const query = `
		UPDATE players
		SET name = $2,
		    phone = NULLIF($3, ''),
		    notes = NULLIF($4, ''),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + playerColumns
	updated, err := scanPlayer(r.db.QueryRowContext(ctx, query, player.ID, player.Name, player.Phone, player.Notes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a player. Players referenced by the session ledger are kept
// by a RESTRICT constraint.
func (r *PlayerRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM players WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// ClaimReward resets points and completed games while preserving earned
// rewards, holding the player row lock for the read-modify-write.
func (r *PlayerRepository) ClaimReward(ctx context.Context, playerID string) (*models.Player, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const lockQuery = `SELECT ` + playerColumns + ` FROM players WHERE id = $1 FOR UPDATE`
	player, err := scanPlayer(tx.QueryRowContext(ctx, lockQuery, playerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	player.ApplyClaim()

	const updateQuery = `
		UPDATE players
		SET loyalty_points = $2,
		    games_completed = $3,
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, updateQuery, player.ID, player.LoyaltyPoints, player.GamesCompleted); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("claim reward: commit: %w", err)
	}
	return player, nil
}

// BackfillCounters zeroes missing counters on legacy rows. Safe to run
// repeatedly.
func (r *PlayerRepository) BackfillCounters(ctx context.Context) (int64, error) {
	const query = `
		UPDATE players
		SET loyalty_points = COALESCE(loyalty_points, 0),
		    games_completed = COALESCE(games_completed, 0),
		    rewards_earned = COALESCE(rewards_earned, 0),
		    updated_at = NOW()
		WHERE loyalty_points IS NULL
		   OR games_completed IS NULL
		   OR rewards_earned IS NULL
	`
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
