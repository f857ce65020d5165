package usecase

import (
	"fmt"
	"testing"
	"time"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptySnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		DriverFlags: map[string][]*entity.Flag{},
		UserFlags:   map[string][]*entity.Flag{},
		Now:         now,
	}
}

func unixStr(t time.Time) string {
	return fmt.Sprintf("%d", t.Unix())
}

func TestLowContributionsDetector(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	inWindow := now.Add(-24 * time.Hour)

	s := emptySnapshot(now)
	s.Drivers = []*entity.Driver{
		{ID: "d1", DriverName: "Juan", IsActive: true},
		{ID: "d2", DriverName: "Pedro", IsActive: true},
	}
	// Population mean is (10 + 190) / 2 = 100, threshold 50.
	s.Contributions = []*entity.Contribution{
		{DriverID: "d1", Amount: "10", Timestamp: unixStr(inWindow)},
		{DriverID: "d2", Amount: "190", Timestamp: unixStr(inWindow)},
	}

	d := NewLowContributionsDetector(config.DefaultDetectionConfig())
	candidates := d.Detect(s)

	require.Len(t, candidates, 1)
	assert.Equal(t, "d1", candidates[0].Account.ID)
	assert.Equal(t, entity.CategoryDriver, candidates[0].Account.Category)
	assert.Equal(t, entity.FlagLowContributions, candidates[0].Type)
	assert.Equal(t, "100.00", candidates[0].Details["averageContribution"])
	assert.Equal(t, "10.00", candidates[0].Details["driverContribution"])
}

func TestLowContributionsSkipsWhenNoPopulationMean(t *testing.T) {
	now := time.Now()
	s := emptySnapshot(now)
	s.Drivers = []*entity.Driver{{ID: "d1", IsActive: true}}

	d := NewLowContributionsDetector(config.DefaultDetectionConfig())
	assert.Empty(t, d.Detect(s), "no contributions in window")

	// Garbled amounts parse to zero, so the mean stays zero.
	s.Contributions = []*entity.Contribution{
		{DriverID: "d1", Amount: "not-a-number", Timestamp: unixStr(now)},
	}
	assert.Empty(t, d.Detect(s))
}

func TestLowContributionsIgnoresOutOfWindowAndInactive(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	s := emptySnapshot(now)
	s.Drivers = []*entity.Driver{
		{ID: "d1", IsActive: false}, // inactive drivers are not in scope
		{ID: "d2", IsActive: true},
	}
	s.Contributions = []*entity.Contribution{
		{DriverID: "d2", Amount: "100", Timestamp: unixStr(now.Add(-8 * 24 * time.Hour))}, // outside window
		{DriverID: "d2", Amount: "100", Timestamp: unixStr(now.Add(-time.Hour))},
	}

	d := NewLowContributionsDetector(config.DefaultDetectionConfig())
	// d2 is the only contributor: mean 100, d2's own 100 >= 50.
	// d1 is below threshold but inactive.
	assert.Empty(t, d.Detect(s))
}

func TestInactiveAccountDetector(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	s := emptySnapshot(now)
	s.Drivers = []*entity.Driver{
		{ID: "stale", IsActive: true, LastLoginTimestamp: now.Add(-8 * 24 * time.Hour)},
		{ID: "fresh", IsActive: true, LastLoginTimestamp: now.Add(-2 * 24 * time.Hour)},
		{ID: "retired", IsActive: false, LastLoginTimestamp: now.Add(-30 * 24 * time.Hour)},
	}

	d := NewInactiveAccountDetector(config.DefaultDetectionConfig())
	candidates := d.Detect(s)

	require.Len(t, candidates, 1)
	assert.Equal(t, "stale", candidates[0].Account.ID)
	assert.Equal(t, 8, candidates[0].Details["daysSinceActive"])
}

func TestHighCancellationsDetector(t *testing.T) {
	now := time.Now()
	s := emptySnapshot(now)
	s.Drivers = []*entity.Driver{
		{ID: "d1", IsActive: true},
		{ID: "d2", IsActive: true},
	}
	// d1: 10 bookings, 2 driver-cancelled (20% > 15%).
	for i := 0; i < 8; i++ {
		s.Bookings = append(s.Bookings, &entity.Booking{DriverID: "d1", Status: "completed"})
	}
	s.Bookings = append(s.Bookings,
		&entity.Booking{DriverID: "d1", Status: entity.BookingStatusCancelled, CancelledBy: entity.CancelledByDriver},
		&entity.Booking{DriverID: "d1", Status: entity.BookingStatusCancelled, CancelledBy: entity.CancelledByDriver},
	)
	// d2: high rate but only 5 bookings, below the population gate.
	for i := 0; i < 5; i++ {
		s.Bookings = append(s.Bookings, &entity.Booking{DriverID: "d2", Status: entity.BookingStatusCancelled, CancelledBy: entity.CancelledByDriver})
	}

	d := NewHighCancellationsDetector(config.DefaultDetectionConfig())
	candidates := d.Detect(s)

	require.Len(t, candidates, 1)
	assert.Equal(t, "d1", candidates[0].Account.ID)
	assert.Equal(t, "20.0%", candidates[0].Details["cancellationRate"])
}

func TestNoShowDetectorPopulationGate(t *testing.T) {
	now := time.Now()
	s := emptySnapshot(now)
	s.Passengers = []*entity.Passenger{
		{ID: "p1", Name: "Maria", UserType: entity.UserTypePassenger},
		{ID: "p2", Name: "Jose", UserType: entity.UserTypePassenger},
	}
	// p1: 6 bookings, 2 no-shows (33% > 20%) -> flagged.
	for i := 0; i < 4; i++ {
		s.Bookings = append(s.Bookings, &entity.Booking{CustomerID: "p1", Status: "completed"})
	}
	s.Bookings = append(s.Bookings,
		&entity.Booking{CustomerID: "p1", Status: entity.BookingStatusNoShow},
		&entity.Booking{CustomerID: "p1", CustomerNoShow: true, Status: "completed"},
	)
	// p2: 4 bookings, 2 no-shows (50%) but below the >=5 gate -> none.
	for i := 0; i < 2; i++ {
		s.Bookings = append(s.Bookings, &entity.Booking{CustomerID: "p2", Status: "completed"})
	}
	s.Bookings = append(s.Bookings,
		&entity.Booking{CustomerID: "p2", Status: entity.BookingStatusNoShow},
		&entity.Booking{CustomerID: "p2", Status: entity.BookingStatusNoShow},
	)

	d := NewNoShowDetector(config.DefaultDetectionConfig())
	candidates := d.Detect(s)

	require.Len(t, candidates, 1)
	assert.Equal(t, "p1", candidates[0].Account.ID)
	assert.Equal(t, entity.FlagNoShow, candidates[0].Type)
	assert.Equal(t, 6, candidates[0].Details["totalBookings"])
	assert.Equal(t, 2, candidates[0].Details["noShowCount"])
}

func TestNonPaymentDetectorSingleIncident(t *testing.T) {
	now := time.Now()
	s := emptySnapshot(now)
	s.Passengers = []*entity.Passenger{
		{ID: "p1", UserType: entity.UserTypePassenger},
		{ID: "p2", UserType: entity.UserTypePassenger},
	}
	s.Bookings = []*entity.Booking{
		{CustomerID: "p1", NonPayment: true},
		{CustomerID: "p2", Status: "completed", PaymentStatus: "paid"},
	}

	candidates := NewNonPaymentDetector().Detect(s)
	require.Len(t, candidates, 1)
	assert.Equal(t, "p1", candidates[0].Account.ID)
	assert.Equal(t, 1, candidates[0].Details["nonPaymentCount"])
}

func TestWrongPinDetector(t *testing.T) {
	now := time.Now()
	s := emptySnapshot(now)
	s.Passengers = []*entity.Passenger{{ID: "p1", UserType: entity.UserTypePassenger}}
	// 5 bookings, 2 wrong pins (40% > 30%).
	s.Bookings = []*entity.Booking{
		{CustomerID: "p1", WrongPin: true},
		{CustomerID: "p1", IncorrectLocation: true},
		{CustomerID: "p1"}, {CustomerID: "p1"}, {CustomerID: "p1"},
	}

	candidates := NewWrongPinDetector(config.DefaultDetectionConfig()).Detect(s)
	require.Len(t, candidates, 1)
	assert.Equal(t, "40.0%", candidates[0].Details["wrongPinRate"])
}

func TestAbusiveBehaviorDetector(t *testing.T) {
	now := time.Now()
	s := emptySnapshot(now)
	s.Passengers = []*entity.Passenger{{ID: "p1", UserType: entity.UserTypePassenger}}
	s.Bookings = []*entity.Booking{
		{CustomerID: "p1", DriverReportedAbuse: true},
	}

	candidates := NewAbusiveBehaviorDetector().Detect(s)
	require.Len(t, candidates, 1)
	assert.Equal(t, entity.FlagAbusiveBehavior, candidates[0].Type)
}

func TestDetectorsSuppressOnActiveFlagOnly(t *testing.T) {
	now := time.Now()
	s := emptySnapshot(now)
	s.Passengers = []*entity.Passenger{{ID: "p1", UserType: entity.UserTypePassenger}}
	s.Bookings = []*entity.Booking{{CustomerID: "p1", NonPayment: true}}

	// An active NON_PAYMENT flag suppresses the candidate.
	s.UserFlags["p1"] = []*entity.Flag{{
		ID: "f1", Type: entity.FlagNonPayment, Status: entity.FlagStatusActive,
	}}
	assert.Empty(t, NewNonPaymentDetector().Detect(s))

	// A dismissed flag of the same type does not: recurrence is re-detected
	// as a new flag instance.
	s.UserFlags["p1"][0].Status = entity.FlagStatusDismissed
	assert.Len(t, NewNonPaymentDetector().Detect(s), 1)

	// Same for resolved.
	s.UserFlags["p1"][0].Status = entity.FlagStatusResolved
	assert.Len(t, NewNonPaymentDetector().Detect(s), 1)
}
