package service

import (
	"time"

	"github.com/shopspring/decimal"

	"gamelounge/internal/models"
)

const (
	// intervalMinutes is the billing block size for per-interval games.
	intervalMinutes = 15
	// graceMinutes is subtracted from the elapsed time before blocks are
	// counted, so a session ending just past a block boundary is not
	// charged for the next block.
	graceMinutes = 2
)

// ElapsedMinutes converts a rental window into billable clock minutes.
// Partial minutes round up and every rental counts for at least one minute.
func ElapsedMinutes(start, end time.Time) int {
	elapsed := end.Sub(start)
	minutes := int((elapsed + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		return 1
	}
	return minutes
}

// CalculateCharge computes the amount owed for a closed rental. It is a pure
// function of the game's pricing policy, the elapsed minutes and the prepaid
// unit count.
//
// Prepaid units act as a floor, not a separate schedule: when more than one
// unit was prepaid the result is the greater of unitPrice*prepaidUnits and
// the time-based charge, for both pricing modes.
func CalculateCharge(mode models.PricingMode, unitPrice decimal.Decimal, elapsedMinutes, prepaidUnits int) decimal.Decimal {
	base := baseCharge(mode, unitPrice, elapsedMinutes)
	if prepaidUnits > 1 {
		floor := unitPrice.Mul(decimal.NewFromInt(int64(prepaidUnits)))
		if floor.GreaterThan(base) {
			return floor
		}
	}
	return base
}

func baseCharge(mode models.PricingMode, unitPrice decimal.Decimal, elapsedMinutes int) decimal.Decimal {
	if mode == models.PricingFlatPerSession {
		return unitPrice
	}

	billable := elapsedMinutes - graceMinutes
	if billable < 0 {
		billable = 0
	}
	intervals := (billable + intervalMinutes - 1) / intervalMinutes
	if intervals < 1 {
		intervals = 1
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(intervals)))
}
