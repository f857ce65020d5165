package entity

import (
	"time"
)

// Booking status and cancellation markers used by the detectors.
const (
	BookingStatusCancelled = "cancelled"
	BookingStatusNoShow    = "no-show"

	CancelledByDriver   = "driver"
	CancelledByCustomer = "customer"

	PaymentStatusUnpaid = "unpaid"
)

// Booking represents one trip record in the bookings collection. Detectors
// re-derive all of their rates from these raw records on every run.
type Booking struct {
	ID                  string    `bson:"_id,omitempty"`
	DriverID            string    `bson:"driverId,omitempty"`
	CustomerID          string    `bson:"customerId,omitempty"`
	Status              string    `bson:"status"`
	CancelledBy         string    `bson:"cancelledBy,omitempty"`
	CustomerNoShow      bool      `bson:"customerNoShow,omitempty"`
	NonPayment          bool      `bson:"nonPayment,omitempty"`
	PaymentStatus       string    `bson:"paymentStatus,omitempty"`
	WrongPin            bool      `bson:"wrongPin,omitempty"`
	IncorrectLocation   bool      `bson:"incorrectLocation,omitempty"`
	AbusiveCustomer     bool      `bson:"abusiveCustomer,omitempty"`
	CustomerAbuse       bool      `bson:"customerAbuse,omitempty"`
	DriverReportedAbuse bool      `bson:"driverReportedAbuse,omitempty"`
	CreatedAt           time.Time `bson:"createdAt,omitempty"`
}

// IsNoShow reports whether the booking counts as a customer no-show.
func (b *Booking) IsNoShow() bool {
	return b.Status == BookingStatusNoShow || b.CustomerNoShow
}

// IsNonPayment reports whether the booking was left unpaid.
func (b *Booking) IsNonPayment() bool {
	return b.NonPayment || b.PaymentStatus == PaymentStatusUnpaid
}

// IsWrongPin reports whether the pickup location PIN was wrong.
func (b *Booking) IsWrongPin() bool {
	return b.WrongPin || b.IncorrectLocation
}

// IsAbuseReport reports whether any abuse marker was set on the booking.
func (b *Booking) IsAbuseReport() bool {
	return b.AbusiveCustomer || b.CustomerAbuse || b.DriverReportedAbuse
}
