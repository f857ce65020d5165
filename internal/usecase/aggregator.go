package usecase

import (
	"context"
	"fmt"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"
	"toda-flag-service/pkg/logger"
)

// ScoreAggregator recomputes an account's cached flag projection. It is the
// only writer of flagScore/flagStatus and always re-derives both from the
// full active-flag set, never by incrementing the cache, so it is safe to
// re-run at any time.
type ScoreAggregator struct {
	flagRepo      repository.FlagRepository
	driverRepo    repository.DriverRepository
	passengerRepo repository.PassengerRepository
	logger        logger.Logger
}

// NewScoreAggregator creates a new score aggregator
func NewScoreAggregator(
	flagRepo repository.FlagRepository,
	driverRepo repository.DriverRepository,
	passengerRepo repository.PassengerRepository,
	logger logger.Logger,
) *ScoreAggregator {
	return &ScoreAggregator{
		flagRepo:      flagRepo,
		driverRepo:    driverRepo,
		passengerRepo: passengerRepo,
		logger:        logger,
	}
}

// Recompute sums the points of the account's active flags, maps the sum
// through the tier thresholds and writes both values back onto the account.
func (a *ScoreAggregator) Recompute(ctx context.Context, ref entity.AccountRef) (int, string, error) {
	flags, err := a.flagRepo.FindByAccount(ctx, ref)
	if err != nil {
		return 0, "", fmt.Errorf("failed to load flags for %s: %w", ref.ID, err)
	}

	score := 0
	for _, f := range flags {
		if f.IsActive() {
			score += f.Points
		}
	}
	tier := entity.TierForScore(score)

	if ref.Category == entity.CategoryDriver {
		err = a.driverRepo.UpdateFlagProjection(ctx, ref.ID, score, tier)
	} else {
		err = a.passengerRepo.UpdateFlagProjection(ctx, ref.ID, score, tier)
	}
	if err != nil {
		return 0, "", fmt.Errorf("failed to update flag projection for %s: %w", ref.ID, err)
	}

	a.logger.Debug("Recomputed flag score",
		"accountId", ref.ID, "category", ref.Category, "score", score, "tier", tier)

	return score, tier, nil
}
