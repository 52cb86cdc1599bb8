package models

import (
	"errors"
	"strings"
	"time"
)

// RewardThreshold is the number of completed games that unlocks one reward.
const RewardThreshold = 10

// Player is a lounge customer with loyalty counters. The counters only ever
// grow, except for an explicit reward claim which resets points and games
// while preserving earned rewards.
type Player struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Phone          string    `db:"phone" json:"phone,omitempty"`
	Notes          string    `db:"notes" json:"notes,omitempty"`
	LoyaltyPoints  int       `db:"loyalty_points" json:"loyalty_points"`
	GamesCompleted int       `db:"games_completed" json:"games_completed"`
	RewardsEarned  int       `db:"rewards_earned" json:"rewards_earned"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ApplyCompletion increments the loyalty counters for one finished rental
// and reports whether a reward threshold was crossed.
func (p *Player) ApplyCompletion() bool {
	p.GamesCompleted++
	p.LoyaltyPoints++
	if p.GamesCompleted%RewardThreshold == 0 {
		p.RewardsEarned++
		return true
	}
	return false
}

// ApplyClaim resets the claimable counters while keeping earned rewards.
func (p *Player) ApplyClaim() {
	p.LoyaltyPoints = 0
	p.GamesCompleted = 0
}

// Validate checks the fields settable through the CRUD surface.
func (p *Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("player: name required")
	}
	return nil
}
