package entity

import (
	"time"
)

// Detection Run Status
const (
	RunStatusRunning   = "RUNNING"
	RunStatusCompleted = "COMPLETED"
	RunStatusFailed    = "FAILED"
)

// DetectionRun is one row of the detection audit history kept in Postgres.
type DetectionRun struct {
	ID           uint       `gorm:"primaryKey"`
	StartedAt    time.Time  `gorm:"autoCreateTime;index"`
	FinishedAt   *time.Time
	FlagsCreated int        `gorm:"not null;default:0"`
	Status       string     `gorm:"type:varchar(20);not null"`
	ErrorDetail  string     `gorm:"type:text"`
}

// TableName returns the table name for GORM.
func (DetectionRun) TableName() string {
	return "detection_runs"
}

// FlagResult is the per-flag summary item produced by a detection run.
type FlagResult struct {
	AccountName string `json:"accountName"`
	FlagType    string `json:"flagType"`
	Severity    string `json:"severity"`
}

// DetectionSummary is the aggregate result of one orchestrator run.
type DetectionSummary struct {
	CreatedCount int          `json:"createdCount"`
	Results      []FlagResult `json:"results"`
}
