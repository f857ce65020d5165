package repository

import (
	"context"
	"time"

	"toda-flag-service/internal/domain/entity"
)

// FlagRepository defines the interface for flag storage operations. Flags
// are scoped to one account; writes are full-record creates or partial-field
// updates, never deletes. Flag history is permanent.
type FlagRepository interface {
	Create(ctx context.Context, ref entity.AccountRef, flag *entity.Flag) error
	FindByID(ctx context.Context, ref entity.AccountRef, flagID string) (*entity.Flag, error)
	FindByAccount(ctx context.Context, ref entity.AccountRef) ([]*entity.Flag, error)
	// FindByCategory returns every flag of one category grouped by account id.
	FindByCategory(ctx context.Context, category string) (map[string][]*entity.Flag, error)
	// Close sets a terminal status (resolved or dismissed) with its matching
	// timestamp/actor pair and appends the action entry.
	Close(ctx context.Context, ref entity.AccountRef, flagID, status string, closedAt time.Time, closedBy string) error
	// Escalate raises severity/points in place and appends the action entry.
	// The flag stays active.
	Escalate(ctx context.Context, ref entity.AccountRef, flagID, severity string, points int, action entity.FlagAction) error
}
