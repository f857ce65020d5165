package usecase

import (
	"fmt"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/infrastructure/config"
	"toda-flag-service/pkg/utils"
)

func driverRef(id string) entity.AccountRef {
	return entity.AccountRef{ID: id, Category: entity.CategoryDriver}
}

func driverName(d *entity.Driver) string {
	if d.DriverName != "" {
		return d.DriverName
	}
	return "Unknown Driver"
}

// LowContributionsDetector flags active drivers whose weekly contribution
// falls below a fraction of the population's mean weekly contribution. The
// mean is taken over drivers with at least one contribution inside the
// window; when it is zero the whole check is skipped.
type LowContributionsDetector struct {
	cfg config.DetectionConfig
}

func NewLowContributionsDetector(cfg config.DetectionConfig) *LowContributionsDetector {
	return &LowContributionsDetector{cfg: cfg}
}

func (d *LowContributionsDetector) Stage() string { return "Analyzing driver contributions" }

func (d *LowContributionsDetector) Detect(s *Snapshot) []Candidate {
	windowStart := s.Now.Add(-d.cfg.ContributionWindow)

	weekly := make(map[string]float64)
	total := 0.0
	for _, c := range s.Contributions {
		ts := utils.ParseUnixSeconds(c.Timestamp)
		if ts.After(windowStart) {
			amount := utils.ParseAmount(c.Amount)
			weekly[c.DriverID] += amount
			total += amount
		}
	}

	if len(weekly) == 0 {
		return nil
	}
	mean := total / float64(len(weekly))
	if mean <= 0 {
		return nil
	}
	threshold := mean * d.cfg.LowContributionRatio

	var candidates []Candidate
	for _, drv := range s.Drivers {
		contribution := weekly[drv.ID]
		if !drv.IsActive || contribution >= threshold {
			continue
		}
		if s.HasActiveFlag(entity.CategoryDriver, drv.ID, entity.FlagLowContributions) {
			continue
		}
		candidates = append(candidates, Candidate{
			Account:     driverRef(drv.ID),
			AccountName: driverName(drv),
			Type:        entity.FlagLowContributions,
			Details: map[string]interface{}{
				"averageContribution": fmt.Sprintf("%.2f", mean),
				"driverContribution":  fmt.Sprintf("%.2f", contribution),
				"percentage":          fmt.Sprintf("%.0f", contribution/mean*100),
				"period":              "weekly",
			},
		})
	}
	return candidates
}

// InactiveAccountDetector flags active drivers whose last activity (login
// time, else creation time) is older than the cutoff.
type InactiveAccountDetector struct {
	cfg config.DetectionConfig
}

func NewInactiveAccountDetector(cfg config.DetectionConfig) *InactiveAccountDetector {
	return &InactiveAccountDetector{cfg: cfg}
}

func (d *InactiveAccountDetector) Stage() string { return "Checking for inactive accounts" }

func (d *InactiveAccountDetector) Detect(s *Snapshot) []Candidate {
	cutoff := s.Now.Add(-d.cfg.InactivityCutoff)

	var candidates []Candidate
	for _, drv := range s.Drivers {
		lastActive := drv.LastActive()
		if !drv.IsActive || !lastActive.Before(cutoff) {
			continue
		}
		if s.HasActiveFlag(entity.CategoryDriver, drv.ID, entity.FlagInactiveAccount) {
			continue
		}
		days := int(s.Now.Sub(lastActive).Hours() / 24)
		candidates = append(candidates, Candidate{
			Account:     driverRef(drv.ID),
			AccountName: driverName(drv),
			Type:        entity.FlagInactiveAccount,
			Details: map[string]interface{}{
				"lastActiveDate":  lastActive.Format("2006-01-02"),
				"daysSinceActive": days,
			},
		})
	}
	return candidates
}

// HighCancellationsDetector flags drivers who cancel too large a share of
// their bookings. Drivers below the minimum booking count are never flagged
// regardless of rate.
type HighCancellationsDetector struct {
	cfg config.DetectionConfig
}

func NewHighCancellationsDetector(cfg config.DetectionConfig) *HighCancellationsDetector {
	return &HighCancellationsDetector{cfg: cfg}
}

func (d *HighCancellationsDetector) Stage() string { return "Checking driver cancellation rates" }

func (d *HighCancellationsDetector) Detect(s *Snapshot) []Candidate {
	type counts struct{ total, cancelled int }
	perDriver := make(map[string]*counts)
	for _, b := range s.Bookings {
		if b.DriverID == "" {
			continue
		}
		c, ok := perDriver[b.DriverID]
		if !ok {
			c = &counts{}
			perDriver[b.DriverID] = c
		}
		c.total++
		if b.Status == entity.BookingStatusCancelled && b.CancelledBy == entity.CancelledByDriver {
			c.cancelled++
		}
	}

	var candidates []Candidate
	for _, drv := range s.Drivers {
		c := perDriver[drv.ID]
		if c == nil || c.total < d.cfg.DriverCancelMinBookings {
			continue
		}
		rate := float64(c.cancelled) / float64(c.total) * 100
		if rate <= d.cfg.DriverCancelRate {
			continue
		}
		if s.HasActiveFlag(entity.CategoryDriver, drv.ID, entity.FlagHighCancellationRate) {
			continue
		}
		candidates = append(candidates, Candidate{
			Account:     driverRef(drv.ID),
			AccountName: driverName(drv),
			Type:        entity.FlagHighCancellationRate,
			Details: map[string]interface{}{
				"totalBookings":    c.total,
				"cancelledCount":   c.cancelled,
				"cancellationRate": fmt.Sprintf("%.1f%%", rate),
			},
		})
	}
	return candidates
}
