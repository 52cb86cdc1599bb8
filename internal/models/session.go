package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is the append-only billing record of one completed rental. It is
// written exactly once when a station is stopped (never on cancel) and is
// not mutated afterwards.
type Session struct {
	ID        string          `db:"id" json:"id"`
	StationID string          `db:"station_id" json:"station_id"`
	PlayerID  string          `db:"player_id" json:"player_id"`
	GameID    string          `db:"game_id" json:"game_id"`
	StartTime time.Time       `db:"start_time" json:"start_time"`
	EndTime   time.Time       `db:"end_time" json:"end_time"`
	Charge    decimal.Decimal `db:"charge" json:"charge"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`

	// Resolved references, populated on list.
	Player *Player `db:"-" json:"player,omitempty"`
	Game   *Game   `db:"-" json:"game,omitempty"`
}
