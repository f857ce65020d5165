package usecase

import (
	"time"

	"toda-flag-service/internal/domain/entity"
)

// Snapshot holds point-in-time copies of the collections a detection run
// reads. Detectors are pure functions over a snapshot; they never touch the
// store, which keeps them dry-run testable and leaves all mutation to the
// orchestrator.
type Snapshot struct {
	Drivers       []*entity.Driver
	Passengers    []*entity.Passenger
	Bookings      []*entity.Booking
	Contributions []*entity.Contribution
	DriverFlags   map[string][]*entity.Flag
	UserFlags     map[string][]*entity.Flag
	Now           time.Time
}

// HasActiveFlag reports whether the account already carries an active flag
// of the given type. Resolved and dismissed flags do not suppress
// re-detection; recurrence produces a new flag instance.
func (s *Snapshot) HasActiveFlag(category, accountID, flagType string) bool {
	flags := s.UserFlags
	if category == entity.CategoryDriver {
		flags = s.DriverFlags
	}
	for _, f := range flags[accountID] {
		if f.Type == flagType && f.IsActive() {
			return true
		}
	}
	return false
}

// Candidate is a flag request produced by a detector. The orchestrator turns
// candidates into persisted flags.
type Candidate struct {
	Account     entity.AccountRef
	AccountName string
	Type        string
	Details     map[string]interface{}
}

// Detector is one scan rule over a snapshot.
type Detector interface {
	// Stage is the human-readable progress label for this detector.
	Stage() string
	Detect(s *Snapshot) []Candidate
}
