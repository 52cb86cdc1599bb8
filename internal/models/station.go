package models

import (
	"errors"
	"strings"
	"time"
)

// StationStatus enumerates the occupancy states of a console.
type StationStatus string

// Station occupancy states. A station leaves "occupied" only through a stop
// or a cancel, both of which clear every occupancy field.
const (
	StationAvailable StationStatus = "available"
	StationOccupied  StationStatus = "occupied"
)

// Station represents one physical rentable console unit. The current player,
// current game and start time are transient occupancy fields: all three are
// set while the station is occupied and all three are cleared when it
// becomes available again.
type Station struct {
	ID              string        `db:"id" json:"id"`
	Name            string        `db:"name" json:"name"`
	Model           string        `db:"model" json:"model,omitempty"`
	Status          StationStatus `db:"status" json:"status"`
	CurrentPlayerID *string       `db:"current_player_id" json:"current_player_id,omitempty"`
	CurrentGameID   *string       `db:"current_game_id" json:"current_game_id,omitempty"`
	StartTime       *time.Time    `db:"start_time" json:"start_time,omitempty"`
	PrepaidUnits    int           `db:"prepaid_units" json:"prepaid_units"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`

	// Resolved references, populated on fetch when the station is occupied.
	CurrentPlayer *Player `db:"-" json:"current_player,omitempty"`
	CurrentGame   *Game   `db:"-" json:"current_game,omitempty"`
}

// Occupied reports whether the station holds a rental with a consistent set
// of occupancy fields.
func (s *Station) Occupied() bool {
	return s.Status == StationOccupied &&
		s.CurrentPlayerID != nil &&
		s.CurrentGameID != nil &&
		s.StartTime != nil
}

// Validate checks the fields settable through the CRUD surface.
func (s *Station) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("station: name required")
	}
	return nil
}
