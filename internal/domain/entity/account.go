package entity

import (
	"time"
)

// Flag status tiers derived from the summed points of active flags.
const (
	TierGood       = "good"
	TierMonitored  = "monitored"
	TierRestricted = "restricted"
	TierSuspended  = "suspended"
)

// Tier score thresholds. Boundaries are inclusive on the lower tier:
// a score of exactly 50 is still good, 150 still monitored, 300 still
// restricted.
const (
	GoodMaxScore       = 50
	MonitoredMaxScore  = 150
	RestrictedMaxScore = 300
)

// UserTypePassenger marks users records that belong to passengers. Other
// user records (admins, dispatchers) are never flagged.
const UserTypePassenger = "PASSENGER"

// AccountRef identifies a flaggable account with its category. The flag
// engine operates on this normalized shape rather than probing the driver
// and passenger records for optional fields.
type AccountRef struct {
	ID       string
	Category string
}

// Driver represents a driver profile in the drivers collection. FlagScore
// and FlagStatus are cached projections recomputed from the active flag set;
// they are never the source of truth.
type Driver struct {
	ID                 string    `bson:"_id,omitempty"`
	DriverName         string    `bson:"driverName"`
	PhoneNumber        string    `bson:"phoneNumber"`
	Email              string    `bson:"email"`
	IsActive           bool      `bson:"isActive"`
	LastLoginTimestamp time.Time `bson:"lastLoginTimestamp,omitempty"`
	CreatedAt          time.Time `bson:"createdAt,omitempty"`
	FlagScore          int       `bson:"flagScore"`
	FlagStatus         string    `bson:"flagStatus"`
}

// LastActive returns the login time, falling back to the creation time when
// the driver never logged in.
func (d *Driver) LastActive() time.Time {
	if !d.LastLoginTimestamp.IsZero() {
		return d.LastLoginTimestamp
	}
	return d.CreatedAt
}

// Passenger represents a passenger profile in the users collection
// (userType == PASSENGER).
type Passenger struct {
	ID          string    `bson:"_id,omitempty"`
	Name        string    `bson:"name"`
	PhoneNumber string    `bson:"phoneNumber"`
	Email       string    `bson:"email"`
	UserType    string    `bson:"userType"`
	CreatedAt   time.Time `bson:"createdAt,omitempty"`
	FlagScore   int       `bson:"flagScore"`
	FlagStatus  string    `bson:"flagStatus"`
}

// TierForScore maps a summed active-flag score onto a standing tier.
func TierForScore(score int) string {
	switch {
	case score > RestrictedMaxScore:
		return TierSuspended
	case score > MonitoredMaxScore:
		return TierRestricted
	case score > GoodMaxScore:
		return TierMonitored
	default:
		return TierGood
	}
}
