package repository

import (
	"context"
	"time"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormDetectionRunRepository implements the DetectionRunRepository interface
// on the relational reporting database.
type GormDetectionRunRepository struct {
	db *gorm.DB
}

// NewGormDetectionRunRepository creates a new detection run repository
func NewGormDetectionRunRepository(db *gorm.DB) (repository.DetectionRunRepository, error) {
	if err := db.AutoMigrate(&entity.DetectionRun{}); err != nil {
		return nil, err
	}
	return &GormDetectionRunRepository{db: db}, nil
}

// Create inserts a new run row in RUNNING state
func (r *GormDetectionRunRepository) Create(ctx context.Context, run *entity.DetectionRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Finish closes a run row with its outcome
func (r *GormDetectionRunRepository) Finish(ctx context.Context, id uint, status string, flagsCreated int, errorDetail string, finishedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.DetectionRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"flags_created": flagsCreated,
			"error_detail":  errorDetail,
			"finished_at":   finishedAt,
		}).Error
}

// FindRecent returns the newest runs first
func (r *GormDetectionRunRepository) FindRecent(ctx context.Context, limit int) ([]entity.DetectionRun, error) {
	var runs []entity.DetectionRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
