package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"gamelounge/internal/models"
	"gamelounge/internal/repository"
)

// LoyaltyStore is the persistence contract for player counter operations
// that live outside the stop path.
type LoyaltyStore interface {
	// ClaimReward atomically resets a player's points and completed games
	// while preserving earned rewards.
	ClaimReward(ctx context.Context, playerID string) (*models.Player, error)
	// BackfillCounters initializes missing loyalty counters on legacy
	// player rows and returns how many rows were touched.
	BackfillCounters(ctx context.Context) (int64, error)
}

// LoyaltyService exposes the explicit, externally triggered loyalty
// operations: claiming a reward and the one-off counter backfill migration.
// The per-completion increment itself happens inside the stop transaction.
type LoyaltyService struct {
	store  LoyaltyStore
	logger *zap.Logger
}

// NewLoyaltyService builds the service.
func NewLoyaltyService(store LoyaltyStore, logger *zap.Logger) *LoyaltyService {
	return &LoyaltyService{store: store, logger: logger}
}

// ClaimReward resets the player's claimable counters.
func (s *LoyaltyService) ClaimReward(ctx context.Context, playerID string) (*models.Player, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, ErrInvalidInput
	}

	player, err := s.store.ClaimReward(ctx, playerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("reward claimed",
		zap.String("player_id", player.ID),
		zap.Int("rewards_earned", player.RewardsEarned),
	)
	return player, nil
}

// InitCounters runs the idempotent counter backfill for players imported
// without loyalty fields.
func (s *LoyaltyService) InitCounters(ctx context.Context) (int64, error) {
	updated, err := s.store.BackfillCounters(ctx)
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		s.logger.Info("loyalty counters backfilled", zap.Int64("players", updated))
	}
	return updated, nil
}

// mapConflict translates a storage-level compare-and-set miss into the
// transition error surfaced to callers.
func mapConflict(err error) error {
	if errors.Is(err, repository.ErrStationConflict) {
		return ErrInvalidTransition
	}
	return err
}
