package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PricingMode selects how a game is charged at session close.
type PricingMode string

const (
	// PricingFlatPerSession charges the unit price once, regardless of
	// elapsed time.
	PricingFlatPerSession PricingMode = "flat_per_session"
	// PricingPerInterval charges the unit price per 15-minute block with a
	// 2-minute grace period before the next block is billed.
	PricingPerInterval PricingMode = "per_interval"
)

// Valid reports whether the mode is one of the known pricing modes.
func (m PricingMode) Valid() bool {
	return m == PricingFlatPerSession || m == PricingPerInterval
}

// Game is a catalog entry describing a title and its pricing policy. Closed
// sessions capture the computed charge, so later edits to a game never
// rewrite past billing history.
type Game struct {
	ID        string          `db:"id" json:"id"`
	Title     string          `db:"title" json:"title"`
	Mode      PricingMode     `db:"pricing_mode" json:"pricing_mode"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Validate checks the fields settable through the CRUD surface.
func (g *Game) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return errors.New("game: title required")
	}
	if !g.Mode.Valid() {
		return errors.New("game: unknown pricing mode")
	}
	if g.UnitPrice.IsNegative() {
		return errors.New("game: unit price must not be negative")
	}
	return nil
}
