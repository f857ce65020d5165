package entity

import (
	"time"
)

// Flag Status
const (
	FlagStatusActive    = "active"
	FlagStatusResolved  = "resolved"
	FlagStatusDismissed = "dismissed"
)

// Flag Severity
const (
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Lifecycle action names recorded in a flag's action log.
const (
	ActionFlagCreated   = "FLAG_CREATED"
	ActionFlagResolved  = "FLAG_RESOLVED"
	ActionFlagEscalated = "FLAG_ESCALATED"
	ActionFlagDismissed = "FLAG_DISMISSED"
)

// EscalationPoints is added to a flag's points on every escalation.
const EscalationPoints = 25

// Flag represents one recorded behavioral issue on an account. The set of
// active flags is the source of truth for an account's score; the account's
// flagScore/flagStatus fields are only a cached projection.
type Flag struct {
	ID          string                 `bson:"flagId"`
	Type        string                 `bson:"type"`
	Severity    string                 `bson:"severity"`
	Points      int                    `bson:"points"`
	Status      string                 `bson:"status"`
	Timestamp   time.Time              `bson:"timestamp"`
	Details     map[string]interface{} `bson:"details,omitempty"`
	Notes       string                 `bson:"notes,omitempty"`
	ResolvedAt  *time.Time             `bson:"resolvedAt,omitempty"`
	ResolvedBy  string                 `bson:"resolvedBy,omitempty"`
	DismissedAt *time.Time             `bson:"dismissedAt,omitempty"`
	DismissedBy string                 `bson:"dismissedBy,omitempty"`
	Actions     []FlagAction           `bson:"actions"`
}

// FlagAction is one entry in a flag's append-only lifecycle log.
type FlagAction struct {
	Action    string    `bson:"action"`
	Timestamp time.Time `bson:"timestamp"`
	ActorID   string    `bson:"actorId"`
}

// IsActive reports whether the flag still counts toward the account score.
func (f *Flag) IsActive() bool {
	return f.Status == FlagStatusActive
}

// IsClosed reports whether the flag reached a terminal status.
func (f *Flag) IsClosed() bool {
	return f.Status == FlagStatusResolved || f.Status == FlagStatusDismissed
}

// NextSeverity returns the severity one step above s. Critical saturates.
func NextSeverity(s string) string {
	switch s {
	case SeverityMedium:
		return SeverityHigh
	case SeverityHigh:
		return SeverityCritical
	default:
		return SeverityCritical
	}
}

// SeverityRank orders severities for display sorting (higher is worse).
func SeverityRank(s string) int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}
