package usecase

import (
	"context"
	"errors"
	"time"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"
	"toda-flag-service/pkg/logger"
	"toda-flag-service/pkg/metrics"
)

// ErrFlagClosed is returned when a lifecycle operation targets a flag that
// already reached a terminal status. There is no reopen path; a recurring
// issue is expressed as a new flag instance created by a later detection
// run.
var ErrFlagClosed = errors.New("flag already resolved or dismissed")

// FlagLifecycle exposes the resolve, escalate and dismiss operations on an
// individual flag. Every mutation re-invokes the score aggregator so the
// cached projection never drifts from the active-flag set.
type FlagLifecycle struct {
	flagRepo   repository.FlagRepository
	aggregator *ScoreAggregator
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewFlagLifecycle creates a new flag lifecycle controller
func NewFlagLifecycle(
	flagRepo repository.FlagRepository,
	aggregator *ScoreAggregator,
	m *metrics.Metrics,
	logger logger.Logger,
) *FlagLifecycle {
	return &FlagLifecycle{
		flagRepo:   flagRepo,
		aggregator: aggregator,
		metrics:    m,
		logger:     logger,
	}
}

// Resolve closes a flag as legitimately addressed.
func (l *FlagLifecycle) Resolve(ctx context.Context, ref entity.AccountRef, flagID, actorID string) error {
	return l.close(ctx, ref, flagID, entity.FlagStatusResolved, actorID)
}

// Dismiss closes a flag as a false positive. Same cache effect as Resolve
// (the flag leaves the active set) but a different audit meaning.
func (l *FlagLifecycle) Dismiss(ctx context.Context, ref entity.AccountRef, flagID, actorID string) error {
	return l.close(ctx, ref, flagID, entity.FlagStatusDismissed, actorID)
}

func (l *FlagLifecycle) close(ctx context.Context, ref entity.AccountRef, flagID, status, actorID string) error {
	flag, err := l.flagRepo.FindByID(ctx, ref, flagID)
	if err != nil {
		return err
	}
	if flag.IsClosed() {
		return ErrFlagClosed
	}

	if err := l.flagRepo.Close(ctx, ref, flagID, status, time.Now(), actorID); err != nil {
		return err
	}

	if _, _, err := l.aggregator.Recompute(ctx, ref); err != nil {
		return err
	}

	if l.metrics != nil {
		l.metrics.LifecycleOps.WithLabelValues(status).Inc()
	}
	l.logger.Info("Flag closed",
		"accountId", ref.ID, "flagId", flagID, "status", status, "actor", actorID)
	return nil
}

// Escalate steps the flag's severity up one level (critical saturates) and
// adds the escalation point increment. The flag stays active.
func (l *FlagLifecycle) Escalate(ctx context.Context, ref entity.AccountRef, flagID, actorID string) error {
	flag, err := l.flagRepo.FindByID(ctx, ref, flagID)
	if err != nil {
		return err
	}
	if flag.IsClosed() {
		return ErrFlagClosed
	}

	newSeverity := entity.NextSeverity(flag.Severity)
	newPoints := flag.Points + entity.EscalationPoints

	action := entity.FlagAction{
		Action:    entity.ActionFlagEscalated,
		Timestamp: time.Now(),
		ActorID:   actorID,
	}
	if err := l.flagRepo.Escalate(ctx, ref, flagID, newSeverity, newPoints, action); err != nil {
		return err
	}

	if _, _, err := l.aggregator.Recompute(ctx, ref); err != nil {
		return err
	}

	if l.metrics != nil {
		l.metrics.LifecycleOps.WithLabelValues("escalated").Inc()
	}
	l.logger.Info("Flag escalated",
		"accountId", ref.ID, "flagId", flagID,
		"severity", newSeverity, "points", newPoints, "actor", actorID)
	return nil
}
