package usecase

import (
	"fmt"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/infrastructure/config"
)

func passengerRef(id string) entity.AccountRef {
	return entity.AccountRef{ID: id, Category: entity.CategoryCustomer}
}

func passengerName(p *entity.Passenger) string {
	if p.Name != "" {
		return p.Name
	}
	return "Unknown Customer"
}

// NoShowDetector flags passengers who fail to show up for too large a share
// of their bookings.
type NoShowDetector struct {
	cfg config.DetectionConfig
}

func NewNoShowDetector(cfg config.DetectionConfig) *NoShowDetector {
	return &NoShowDetector{cfg: cfg}
}

func (d *NoShowDetector) Stage() string { return "Analyzing customer no-show patterns" }

func (d *NoShowDetector) Detect(s *Snapshot) []Candidate {
	type counts struct{ total, noShows int }
	perCustomer := make(map[string]*counts)
	for _, b := range s.Bookings {
		if b.CustomerID == "" {
			continue
		}
		c, ok := perCustomer[b.CustomerID]
		if !ok {
			c = &counts{}
			perCustomer[b.CustomerID] = c
		}
		c.total++
		if b.IsNoShow() {
			c.noShows++
		}
	}

	var candidates []Candidate
	for _, p := range s.Passengers {
		c := perCustomer[p.ID]
		if c == nil || c.total < d.cfg.NoShowMinBookings {
			continue
		}
		rate := float64(c.noShows) / float64(c.total) * 100
		if rate <= d.cfg.NoShowRate {
			continue
		}
		if s.HasActiveFlag(entity.CategoryCustomer, p.ID, entity.FlagNoShow) {
			continue
		}
		candidates = append(candidates, Candidate{
			Account:     passengerRef(p.ID),
			AccountName: passengerName(p),
			Type:        entity.FlagNoShow,
			Details: map[string]interface{}{
				"totalBookings": c.total,
				"noShowCount":   c.noShows,
				"noShowRate":    fmt.Sprintf("%.1f%%", rate),
			},
		})
	}
	return candidates
}

// ExcessiveCancellationsDetector flags passengers who cancel too large a
// share of their bookings.
type ExcessiveCancellationsDetector struct {
	cfg config.DetectionConfig
}

func NewExcessiveCancellationsDetector(cfg config.DetectionConfig) *ExcessiveCancellationsDetector {
	return &ExcessiveCancellationsDetector{cfg: cfg}
}

func (d *ExcessiveCancellationsDetector) Stage() string {
	return "Checking customer cancellation rates"
}

func (d *ExcessiveCancellationsDetector) Detect(s *Snapshot) []Candidate {
	type counts struct{ total, cancelled int }
	perCustomer := make(map[string]*counts)
	for _, b := range s.Bookings {
		if b.CustomerID == "" {
			continue
		}
		c, ok := perCustomer[b.CustomerID]
		if !ok {
			c = &counts{}
			perCustomer[b.CustomerID] = c
		}
		c.total++
		if b.Status == entity.BookingStatusCancelled && b.CancelledBy == entity.CancelledByCustomer {
			c.cancelled++
		}
	}

	var candidates []Candidate
	for _, p := range s.Passengers {
		c := perCustomer[p.ID]
		if c == nil || c.total < d.cfg.CustomerCancelMinBookings {
			continue
		}
		rate := float64(c.cancelled) / float64(c.total) * 100
		if rate <= d.cfg.CustomerCancelRate {
			continue
		}
		if s.HasActiveFlag(entity.CategoryCustomer, p.ID, entity.FlagExcessiveCancellations) {
			continue
		}
		candidates = append(candidates, Candidate{
			Account:     passengerRef(p.ID),
			AccountName: passengerName(p),
			Type:        entity.FlagExcessiveCancellations,
			Details: map[string]interface{}{
				"totalBookings":    c.total,
				"cancelledCount":   c.cancelled,
				"cancellationRate": fmt.Sprintf("%.1f%%", rate),
			},
		})
	}
	return candidates
}

// NonPaymentDetector flags passengers with at least one unpaid booking.
type NonPaymentDetector struct{}

func NewNonPaymentDetector() *NonPaymentDetector { return &NonPaymentDetector{} }

func (d *NonPaymentDetector) Stage() string { return "Checking for non-payment issues" }

func (d *NonPaymentDetector) Detect(s *Snapshot) []Candidate {
	perCustomer := make(map[string]int)
	for _, b := range s.Bookings {
		if b.CustomerID != "" && b.IsNonPayment() {
			perCustomer[b.CustomerID]++
		}
	}

	var candidates []Candidate
	for _, p := range s.Passengers {
		count := perCustomer[p.ID]
		if count < 1 {
			continue
		}
		if s.HasActiveFlag(entity.CategoryCustomer, p.ID, entity.FlagNonPayment) {
			continue
		}
		candidates = append(candidates, Candidate{
			Account:     passengerRef(p.ID),
			AccountName: passengerName(p),
			Type:        entity.FlagNonPayment,
			Details: map[string]interface{}{
				"nonPaymentCount":  count,
				"affectedBookings": count,
			},
		})
	}
	return candidates
}

// WrongPinDetector flags passengers who drop an incorrect pickup location
// PIN on too large a share of their bookings.
type WrongPinDetector struct {
	cfg config.DetectionConfig
}

func NewWrongPinDetector(cfg config.DetectionConfig) *WrongPinDetector {
	return &WrongPinDetector{cfg: cfg}
}

func (d *WrongPinDetector) Stage() string { return "Analyzing location PIN accuracy" }

func (d *WrongPinDetector) Detect(s *Snapshot) []Candidate {
	type counts struct{ total, wrongPins int }
	perCustomer := make(map[string]*counts)
	for _, b := range s.Bookings {
		if b.CustomerID == "" {
			continue
		}
		c, ok := perCustomer[b.CustomerID]
		if !ok {
			c = &counts{}
			perCustomer[b.CustomerID] = c
		}
		c.total++
		if b.IsWrongPin() {
			c.wrongPins++
		}
	}

	var candidates []Candidate
	for _, p := range s.Passengers {
		c := perCustomer[p.ID]
		if c == nil || c.total < d.cfg.WrongPinMinBookings {
			continue
		}
		rate := float64(c.wrongPins) / float64(c.total) * 100
		if rate <= d.cfg.WrongPinRate {
			continue
		}
		if s.HasActiveFlag(entity.CategoryCustomer, p.ID, entity.FlagWrongPin) {
			continue
		}
		candidates = append(candidates, Candidate{
			Account:     passengerRef(p.ID),
			AccountName: passengerName(p),
			Type:        entity.FlagWrongPin,
			Details: map[string]interface{}{
				"totalBookings": c.total,
				"wrongPinCount": c.wrongPins,
				"wrongPinRate":  fmt.Sprintf("%.1f%%", rate),
			},
		})
	}
	return candidates
}

// AbusiveBehaviorDetector flags passengers with at least one abuse report on
// a booking.
type AbusiveBehaviorDetector struct{}

func NewAbusiveBehaviorDetector() *AbusiveBehaviorDetector { return &AbusiveBehaviorDetector{} }

func (d *AbusiveBehaviorDetector) Stage() string { return "Checking for abusive behavior reports" }

func (d *AbusiveBehaviorDetector) Detect(s *Snapshot) []Candidate {
	perCustomer := make(map[string]int)
	for _, b := range s.Bookings {
		if b.CustomerID != "" && b.IsAbuseReport() {
			perCustomer[b.CustomerID]++
		}
	}

	var candidates []Candidate
	for _, p := range s.Passengers {
		count := perCustomer[p.ID]
		if count < 1 {
			continue
		}
		if s.HasActiveFlag(entity.CategoryCustomer, p.ID, entity.FlagAbusiveBehavior) {
			continue
		}
		candidates = append(candidates, Candidate{
			Account:     passengerRef(p.ID),
			AccountName: passengerName(p),
			Type:        entity.FlagAbusiveBehavior,
			Details: map[string]interface{}{
				"abuseReportCount": count,
				"affectedBookings": count,
			},
		})
	}
	return candidates
}
