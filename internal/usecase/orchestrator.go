package usecase

import (
	"context"
	"fmt"
	"time"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"
	"toda-flag-service/internal/infrastructure/config"
	"toda-flag-service/pkg/logger"
	"toda-flag-service/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActorAutoDetection is the actor id recorded on automatically created flags.
const ActorAutoDetection = "AUTO_DETECTION"

// ProgressFunc receives incremental run progress for UI feedback. May be nil.
type ProgressFunc func(percent int, stage string)

// DetectionOrchestrator runs all signal detectors in a fixed order against a
// one-shot snapshot of the store, persists new flags and recomputes the
// affected account scores. Reads and writes are not wrapped in a
// cross-collection transaction: a crash mid-run can leave a flag created
// before its account's cached score is updated, which the idempotent
// aggregator repairs on the next recompute.
type DetectionOrchestrator struct {
	driverRepo       repository.DriverRepository
	passengerRepo    repository.PassengerRepository
	bookingRepo      repository.BookingRepository
	contributionRepo repository.ContributionRepository
	flagRepo         repository.FlagRepository
	runRepo          repository.DetectionRunRepository
	aggregator       *ScoreAggregator
	detectors        []Detector
	metrics          *metrics.Metrics
	logger           logger.Logger
}

// NewDetectionOrchestrator creates an orchestrator with the standard
// detector set in its fixed execution order.
func NewDetectionOrchestrator(
	driverRepo repository.DriverRepository,
	passengerRepo repository.PassengerRepository,
	bookingRepo repository.BookingRepository,
	contributionRepo repository.ContributionRepository,
	flagRepo repository.FlagRepository,
	runRepo repository.DetectionRunRepository,
	aggregator *ScoreAggregator,
	cfg config.DetectionConfig,
	m *metrics.Metrics,
	logger logger.Logger,
) *DetectionOrchestrator {
	return &DetectionOrchestrator{
		driverRepo:       driverRepo,
		passengerRepo:    passengerRepo,
		bookingRepo:      bookingRepo,
		contributionRepo: contributionRepo,
		flagRepo:         flagRepo,
		runRepo:          runRepo,
		aggregator:       aggregator,
		detectors: []Detector{
			NewLowContributionsDetector(cfg),
			NewInactiveAccountDetector(cfg),
			NewHighCancellationsDetector(cfg),
			NewNoShowDetector(cfg),
			NewExcessiveCancellationsDetector(cfg),
			NewNonPaymentDetector(),
			NewWrongPinDetector(cfg),
			NewAbusiveBehaviorDetector(),
		},
		metrics: m,
		logger:  logger,
	}
}

// Run executes one detection pass. When a detector or a write fails, the
// flags already created are kept and the partial summary is returned
// alongside the error.
func (o *DetectionOrchestrator) Run(ctx context.Context, progress ProgressFunc) (*entity.DetectionSummary, error) {
	start := time.Now()
	if o.metrics != nil {
		o.metrics.DetectionRuns.Inc()
		defer func() {
			o.metrics.DetectionTime.Observe(time.Since(start).Seconds())
		}()
	}

	run := &entity.DetectionRun{StartedAt: start, Status: entity.RunStatusRunning}
	if o.runRepo != nil {
		if err := o.runRepo.Create(ctx, run); err != nil {
			// Audit history is best effort; the run itself proceeds.
			o.logger.Warn("Failed to record detection run", "error", err)
			run = nil
		}
	} else {
		run = nil
	}

	summary := &entity.DetectionSummary{Results: []entity.FlagResult{}}

	report := func(percent int, stage string) {
		if progress != nil {
			progress(percent, stage)
		}
	}

	report(0, "Starting detection")
	snapshot, err := o.loadSnapshot(ctx)
	if err != nil {
		o.countError("load_snapshot")
		o.finishRun(ctx, run, entity.RunStatusFailed, 0, err.Error())
		return summary, fmt.Errorf("failed to load snapshot: %w", err)
	}

	for i, detector := range o.detectors {
		report((i+1)*100/(len(o.detectors)+1), detector.Stage())
		o.logger.Info("Running detector", "stage", detector.Stage())

		for _, candidate := range detector.Detect(snapshot) {
			if err := o.persist(ctx, snapshot, candidate, summary); err != nil {
				o.countError("persist_flag")
				o.logger.Error("Detection run aborted",
					"stage", detector.Stage(), "accountId", candidate.Account.ID, "error", err)
				o.finishRun(ctx, run, entity.RunStatusFailed, summary.CreatedCount, err.Error())
				return summary, err
			}
		}
	}

	report(100, "Detection complete")
	o.finishRun(ctx, run, entity.RunStatusCompleted, summary.CreatedCount, "")
	o.logger.Info("Detection run complete", "created", summary.CreatedCount)
	return summary, nil
}

func (o *DetectionOrchestrator) loadSnapshot(ctx context.Context) (*Snapshot, error) {
	drivers, err := o.driverRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("drivers: %w", err)
	}
	passengers, err := o.passengerRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("passengers: %w", err)
	}
	bookings, err := o.bookingRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("bookings: %w", err)
	}
	contributions, err := o.contributionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("contributions: %w", err)
	}
	driverFlags, err := o.flagRepo.FindByCategory(ctx, entity.CategoryDriver)
	if err != nil {
		return nil, fmt.Errorf("driver flags: %w", err)
	}
	userFlags, err := o.flagRepo.FindByCategory(ctx, entity.CategoryCustomer)
	if err != nil {
		return nil, fmt.Errorf("user flags: %w", err)
	}

	return &Snapshot{
		Drivers:       drivers,
		Passengers:    passengers,
		Bookings:      bookings,
		Contributions: contributions,
		DriverFlags:   driverFlags,
		UserFlags:     userFlags,
		Now:           time.Now(),
	}, nil
}

// persist turns one candidate into a stored flag and refreshes the account's
// cached score.
func (o *DetectionOrchestrator) persist(ctx context.Context, snapshot *Snapshot, candidate Candidate, summary *entity.DetectionSummary) error {
	def, err := entity.LookupFlagType(candidate.Type)
	if err != nil {
		return err
	}

	now := time.Now()
	flag := &entity.Flag{
		ID:        primitive.NewObjectID().Hex(),
		Type:      def.Code,
		Severity:  def.Severity,
		Points:    def.Points,
		Status:    entity.FlagStatusActive,
		Timestamp: now,
		Details:   candidate.Details,
		Notes:     fmt.Sprintf("Automatically detected by system on %s", now.Format("2006-01-02")),
		Actions: []entity.FlagAction{
			{
				Action:    entity.ActionFlagCreated,
				Timestamp: now,
				ActorID:   ActorAutoDetection,
			},
		},
	}

	if err := o.flagRepo.Create(ctx, candidate.Account, flag); err != nil {
		return err
	}

	// Later detectors and a rerun within the same snapshot must see the new
	// active flag.
	if candidate.Account.Category == entity.CategoryDriver {
		snapshot.DriverFlags[candidate.Account.ID] = append(snapshot.DriverFlags[candidate.Account.ID], flag)
	} else {
		snapshot.UserFlags[candidate.Account.ID] = append(snapshot.UserFlags[candidate.Account.ID], flag)
	}

	if _, _, err := o.aggregator.Recompute(ctx, candidate.Account); err != nil {
		return err
	}

	if o.metrics != nil {
		o.metrics.FlagsCreated.WithLabelValues(def.Code).Inc()
	}

	summary.CreatedCount++
	summary.Results = append(summary.Results, entity.FlagResult{
		AccountName: candidate.AccountName,
		FlagType:    def.DisplayName,
		Severity:    def.Severity,
	})

	o.logger.Info("Flag created",
		"accountId", candidate.Account.ID, "type", def.Code, "severity", def.Severity)
	return nil
}

func (o *DetectionOrchestrator) countError(operation string) {
	if o.metrics != nil {
		o.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
}

func (o *DetectionOrchestrator) finishRun(ctx context.Context, run *entity.DetectionRun, status string, created int, errDetail string) {
	if run == nil || o.runRepo == nil {
		return
	}
	if err := o.runRepo.Finish(ctx, run.ID, status, created, errDetail, time.Now()); err != nil {
		o.logger.Warn("Failed to finish detection run record", "error", err)
	}
}
