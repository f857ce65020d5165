package usecase

import (
	"context"
	"testing"
	"time"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"
	"toda-flag-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLifecycleFixture(t *testing.T) (*FlagLifecycle, *fakeFlagRepo, *fakeDriverRepo, *fakePassengerRepo) {
	t.Helper()
	flagRepo := newFakeFlagRepo()
	driverRepo := &fakeDriverRepo{}
	passengerRepo := &fakePassengerRepo{}
	agg := NewScoreAggregator(flagRepo, driverRepo, passengerRepo, logger.NewNop())
	lc := NewFlagLifecycle(flagRepo, agg, nil, logger.NewNop())
	return lc, flagRepo, driverRepo, passengerRepo
}

func seedFlag(repo *fakeFlagRepo, ref entity.AccountRef, flag *entity.Flag) {
	repo.flags[ref.Category][ref.ID] = append(repo.flags[ref.Category][ref.ID], flag)
}

func TestEscalateStepsSeverityAndPoints(t *testing.T) {
	lc, flagRepo, _, passengerRepo := newLifecycleFixture(t)
	passengerRepo.passengers = []*entity.Passenger{{ID: "p1", UserType: entity.UserTypePassenger}}
	ref := entity.AccountRef{ID: "p1", Category: entity.CategoryCustomer}
	seedFlag(flagRepo, ref, &entity.Flag{
		ID: "f1", Type: entity.FlagExcessiveCancellations,
		Severity: entity.SeverityHigh, Points: 75,
		Status: entity.FlagStatusActive, Timestamp: time.Now(),
	})

	require.NoError(t, lc.Escalate(context.Background(), ref, "f1", "admin-1"))

	f, err := flagRepo.FindByID(context.Background(), ref, "f1")
	require.NoError(t, err)
	assert.Equal(t, entity.SeverityCritical, f.Severity)
	assert.Equal(t, 100, f.Points)
	assert.Equal(t, entity.FlagStatusActive, f.Status, "escalation keeps the flag active")
	require.NotEmpty(t, f.Actions)
	last := f.Actions[len(f.Actions)-1]
	assert.Equal(t, entity.ActionFlagEscalated, last.Action)
	assert.Equal(t, "admin-1", last.ActorID)

	// Projection follows the new score: 100 points is monitored.
	assert.Equal(t, 100, passengerRepo.passengers[0].FlagScore)
	assert.Equal(t, entity.TierMonitored, passengerRepo.passengers[0].FlagStatus)
}

func TestEscalateSaturatesAtCritical(t *testing.T) {
	lc, flagRepo, _, passengerRepo := newLifecycleFixture(t)
	passengerRepo.passengers = []*entity.Passenger{{ID: "p1", UserType: entity.UserTypePassenger}}
	ref := entity.AccountRef{ID: "p1", Category: entity.CategoryCustomer}
	seedFlag(flagRepo, ref, &entity.Flag{
		ID: "f1", Type: entity.FlagNoShow,
		Severity: entity.SeverityCritical, Points: 100,
		Status: entity.FlagStatusActive, Timestamp: time.Now(),
	})

	require.NoError(t, lc.Escalate(context.Background(), ref, "f1", "admin-1"))
	require.NoError(t, lc.Escalate(context.Background(), ref, "f1", "admin-1"))

	f, err := flagRepo.FindByID(context.Background(), ref, "f1")
	require.NoError(t, err)
	// Severity cannot go past critical but points keep accumulating.
	assert.Equal(t, entity.SeverityCritical, f.Severity)
	assert.Equal(t, 150, f.Points)
}

func TestResolveDropsScore(t *testing.T) {
	lc, flagRepo, driverRepo, _ := newLifecycleFixture(t)
	driverRepo.drivers = []*entity.Driver{{ID: "d1", IsActive: true}}
	ref := entity.AccountRef{ID: "d1", Category: entity.CategoryDriver}
	seedFlag(flagRepo, ref, &entity.Flag{
		ID: "f1", Type: entity.FlagLowContributions,
		Severity: entity.SeverityHigh, Points: 75,
		Status: entity.FlagStatusActive, Timestamp: time.Now(),
	})
	seedFlag(flagRepo, ref, &entity.Flag{
		ID: "f2", Type: entity.FlagHighCancellationRate,
		Severity: entity.SeverityCritical, Points: 275,
		Status: entity.FlagStatusActive, Timestamp: time.Now(),
	})

	agg := NewScoreAggregator(flagRepo, driverRepo, &fakePassengerRepo{}, logger.NewNop())
	_, tier, err := agg.Recompute(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, entity.TierSuspended, tier, "75+275=350 crosses the suspension threshold")

	require.NoError(t, lc.Resolve(context.Background(), ref, "f2", "admin-2"))

	f, err := flagRepo.FindByID(context.Background(), ref, "f2")
	require.NoError(t, err)
	assert.Equal(t, entity.FlagStatusResolved, f.Status)
	require.NotNil(t, f.ResolvedAt)
	assert.Equal(t, "admin-2", f.ResolvedBy)

	assert.Equal(t, 75, driverRepo.drivers[0].FlagScore)
	assert.Equal(t, entity.TierMonitored, driverRepo.drivers[0].FlagStatus)
}

func TestDismissRecordsAudit(t *testing.T) {
	lc, flagRepo, _, passengerRepo := newLifecycleFixture(t)
	passengerRepo.passengers = []*entity.Passenger{{ID: "p1", UserType: entity.UserTypePassenger}}
	ref := entity.AccountRef{ID: "p1", Category: entity.CategoryCustomer}
	seedFlag(flagRepo, ref, &entity.Flag{
		ID: "f1", Type: entity.FlagWrongPin,
		Severity: entity.SeverityMedium, Points: 50,
		Status: entity.FlagStatusActive, Timestamp: time.Now(),
	})

	require.NoError(t, lc.Dismiss(context.Background(), ref, "f1", "admin-3"))

	f, err := flagRepo.FindByID(context.Background(), ref, "f1")
	require.NoError(t, err)
	assert.Equal(t, entity.FlagStatusDismissed, f.Status)
	require.NotNil(t, f.DismissedAt)
	assert.Equal(t, "admin-3", f.DismissedBy)
	last := f.Actions[len(f.Actions)-1]
	assert.Equal(t, entity.ActionFlagDismissed, last.Action)

	assert.Equal(t, 0, passengerRepo.passengers[0].FlagScore)
	assert.Equal(t, entity.TierGood, passengerRepo.passengers[0].FlagStatus)
}

func TestLifecycleRejectsClosedFlags(t *testing.T) {
	lc, flagRepo, _, passengerRepo := newLifecycleFixture(t)
	passengerRepo.passengers = []*entity.Passenger{{ID: "p1", UserType: entity.UserTypePassenger}}
	ref := entity.AccountRef{ID: "p1", Category: entity.CategoryCustomer}
	seedFlag(flagRepo, ref, &entity.Flag{
		ID: "f1", Type: entity.FlagNonPayment,
		Severity: entity.SeverityCritical, Points: 100,
		Status: entity.FlagStatusActive, Timestamp: time.Now(),
	})

	require.NoError(t, lc.Resolve(context.Background(), ref, "f1", "admin-1"))

	// No reopen path: every further operation on the closed flag fails.
	assert.ErrorIs(t, lc.Resolve(context.Background(), ref, "f1", "admin-1"), ErrFlagClosed)
	assert.ErrorIs(t, lc.Dismiss(context.Background(), ref, "f1", "admin-1"), ErrFlagClosed)
	assert.ErrorIs(t, lc.Escalate(context.Background(), ref, "f1", "admin-1"), ErrFlagClosed)
}

func TestLifecycleUnknownFlag(t *testing.T) {
	lc, _, _, _ := newLifecycleFixture(t)
	ref := entity.AccountRef{ID: "p1", Category: entity.CategoryCustomer}

	assert.ErrorIs(t, lc.Resolve(context.Background(), ref, "missing", "admin-1"), repository.ErrFlagNotFound)
	assert.ErrorIs(t, lc.Escalate(context.Background(), ref, "missing", "admin-1"), repository.ErrFlagNotFound)
}
