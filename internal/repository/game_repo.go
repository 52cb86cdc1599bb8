package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"gamelounge/internal/models"
)

// ErrGameNotFound represents missing game rows.
var ErrGameNotFound = errors.New("game not found")

const gameColumns = `id, title, pricing_mode, unit_price, created_at, updated_at`

func scanGame(row rowScanner) (*models.Game, error) {
	var g models.Game
	if err := row.Scan(
		&g.ID,
		&g.Title,
		&g.Mode,
		&g.UnitPrice,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &g, nil
}

// GameRepository handles CRUD for the games catalog.
type GameRepository struct {
	db *sql.DB
}

// NewGameRepository returns repository instance.
func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

// Create inserts a new game.
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	game.ID = uuid.NewString()
	const query = `
		INSERT INTO games (id, title, pricing_mode, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		game.ID,
		game.Title,
		game.Mode,
		game.UnitPrice,
	).Scan(&game.CreatedAt, &game.UpdatedAt)
}

// GetByID fetches one game.
func (r *GameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	const query = `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	game, err := scanGame(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

// List returns all games, newest first.
func (r *GameRepository) List(ctx context.Context) ([]models.Game, error) {
	const query = `SELECT ` + gameColumns + ` FROM games ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// Update changes the catalog fields. Past sessions keep the charge computed
// at close, so price edits never rewrite billing history.
func (r *GameRepository) Update(ctx context.Context, game *models.Game) (*models.Game, error) {
	const query = `
		UPDATE games
		SET title = $2,
		    pricing_mode = $3,
		    unit_price = $4,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + gameColumns
	updated, err := scanGame(r.db.QueryRowContext(ctx, query, game.ID, game.Title, game.Mode, game.UnitPrice))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a game. Games referenced by the session ledger are kept by
// a RESTRICT constraint.
func (r *GameRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM games WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrGameNotFound
	}
	return nil
}
