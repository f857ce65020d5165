package repository

import (
	"context"

	"toda-flag-service/internal/domain/entity"
)

// BookingRepository defines read access to trip records. Detectors always
// take a full snapshot and re-derive their rates from raw records.
type BookingRepository interface {
	FindAll(ctx context.Context) ([]*entity.Booking, error)
}

// ContributionRepository defines read access to contribution payments.
type ContributionRepository interface {
	FindAll(ctx context.Context) ([]*entity.Contribution, error)
}
