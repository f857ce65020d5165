package repository

import (
	"context"

	"toda-flag-service/internal/domain/entity"
)

// DriverRepository defines read access to driver profiles plus the single
// write this subsystem performs on them: the cached flag projection.
type DriverRepository interface {
	FindAll(ctx context.Context) ([]*entity.Driver, error)
	FindByID(ctx context.Context, id string) (*entity.Driver, error)
	UpdateFlagProjection(ctx context.Context, id string, score int, status string) error
}

// PassengerRepository defines the same surface for passenger profiles.
// Implementations must filter the users collection down to passenger
// records; admins and dispatchers are never flagged.
type PassengerRepository interface {
	FindAll(ctx context.Context) ([]*entity.Passenger, error)
	FindByID(ctx context.Context, id string) (*entity.Passenger, error)
	UpdateFlagProjection(ctx context.Context, id string, score int, status string) error
}
