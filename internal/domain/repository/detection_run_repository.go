package repository

import (
	"context"
	"time"

	"toda-flag-service/internal/domain/entity"
)

// DetectionRunRepository persists the audit history of orchestrator runs.
type DetectionRunRepository interface {
	Create(ctx context.Context, run *entity.DetectionRun) error
	Finish(ctx context.Context, id uint, status string, flagsCreated int, errorDetail string, finishedAt time.Time) error
	FindRecent(ctx context.Context, limit int) ([]entity.DetectionRun, error)
}
