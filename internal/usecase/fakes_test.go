package usecase

import (
	"context"
	"errors"
	"time"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"
)

// In-memory repository fakes backing the flag engine tests.

type fakeFlagRepo struct {
	flags map[string]map[string][]*entity.Flag // category -> accountID -> flags

	createErr error
	creates   int
}

func newFakeFlagRepo() *fakeFlagRepo {
	return &fakeFlagRepo{flags: map[string]map[string][]*entity.Flag{
		entity.CategoryDriver:   {},
		entity.CategoryCustomer: {},
	}}
}

func (r *fakeFlagRepo) Create(_ context.Context, ref entity.AccountRef, flag *entity.Flag) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.creates++
	copied := *flag
	r.flags[ref.Category][ref.ID] = append(r.flags[ref.Category][ref.ID], &copied)
	return nil
}

func (r *fakeFlagRepo) find(ref entity.AccountRef, flagID string) *entity.Flag {
	for _, f := range r.flags[ref.Category][ref.ID] {
		if f.ID == flagID {
			return f
		}
	}
	return nil
}

func (r *fakeFlagRepo) FindByID(_ context.Context, ref entity.AccountRef, flagID string) (*entity.Flag, error) {
	if f := r.find(ref, flagID); f != nil {
		copied := *f
		return &copied, nil
	}
	return nil, repository.ErrFlagNotFound
}

func (r *fakeFlagRepo) FindByAccount(_ context.Context, ref entity.AccountRef) ([]*entity.Flag, error) {
	return append([]*entity.Flag(nil), r.flags[ref.Category][ref.ID]...), nil
}

func (r *fakeFlagRepo) FindByCategory(_ context.Context, category string) (map[string][]*entity.Flag, error) {
	out := make(map[string][]*entity.Flag)
	for id, flags := range r.flags[category] {
		out[id] = append([]*entity.Flag(nil), flags...)
	}
	return out, nil
}

func (r *fakeFlagRepo) Close(_ context.Context, ref entity.AccountRef, flagID, status string, closedAt time.Time, closedBy string) error {
	f := r.find(ref, flagID)
	if f == nil {
		return repository.ErrFlagNotFound
	}
	f.Status = status
	switch status {
	case entity.FlagStatusResolved:
		f.ResolvedAt = &closedAt
		f.ResolvedBy = closedBy
		f.Actions = append(f.Actions, entity.FlagAction{Action: entity.ActionFlagResolved, Timestamp: closedAt, ActorID: closedBy})
	case entity.FlagStatusDismissed:
		f.DismissedAt = &closedAt
		f.DismissedBy = closedBy
		f.Actions = append(f.Actions, entity.FlagAction{Action: entity.ActionFlagDismissed, Timestamp: closedAt, ActorID: closedBy})
	}
	return nil
}

func (r *fakeFlagRepo) Escalate(_ context.Context, ref entity.AccountRef, flagID, severity string, points int, action entity.FlagAction) error {
	f := r.find(ref, flagID)
	if f == nil {
		return repository.ErrFlagNotFound
	}
	f.Severity = severity
	f.Points = points
	f.Actions = append(f.Actions, action)
	return nil
}

type fakeDriverRepo struct {
	drivers []*entity.Driver
}

func (r *fakeDriverRepo) FindAll(_ context.Context) ([]*entity.Driver, error) {
	return r.drivers, nil
}

func (r *fakeDriverRepo) FindByID(_ context.Context, id string) (*entity.Driver, error) {
	for _, d := range r.drivers {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (r *fakeDriverRepo) UpdateFlagProjection(_ context.Context, id string, score int, status string) error {
	d, err := r.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	d.FlagScore = score
	d.FlagStatus = status
	return nil
}

type fakePassengerRepo struct {
	passengers []*entity.Passenger
}

func (r *fakePassengerRepo) FindAll(_ context.Context) ([]*entity.Passenger, error) {
	return r.passengers, nil
}

func (r *fakePassengerRepo) FindByID(_ context.Context, id string) (*entity.Passenger, error) {
	for _, p := range r.passengers {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (r *fakePassengerRepo) UpdateFlagProjection(_ context.Context, id string, score int, status string) error {
	p, err := r.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	p.FlagScore = score
	p.FlagStatus = status
	return nil
}

type fakeBookingRepo struct {
	bookings []*entity.Booking
}

func (r *fakeBookingRepo) FindAll(_ context.Context) ([]*entity.Booking, error) {
	return r.bookings, nil
}

type fakeContributionRepo struct {
	contributions []*entity.Contribution
}

func (r *fakeContributionRepo) FindAll(_ context.Context) ([]*entity.Contribution, error) {
	return r.contributions, nil
}

type fakeRunRepo struct {
	runs   []*entity.DetectionRun
	nextID uint
}

func (r *fakeRunRepo) Create(_ context.Context, run *entity.DetectionRun) error {
	r.nextID++
	run.ID = r.nextID
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRunRepo) Finish(_ context.Context, id uint, status string, flagsCreated int, errorDetail string, finishedAt time.Time) error {
	for _, run := range r.runs {
		if run.ID == id {
			run.Status = status
			run.FlagsCreated = flagsCreated
			run.ErrorDetail = errorDetail
			run.FinishedAt = &finishedAt
			return nil
		}
	}
	return errors.New("run not found")
}

func (r *fakeRunRepo) FindRecent(_ context.Context, limit int) ([]entity.DetectionRun, error) {
	var out []entity.DetectionRun
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.runs[i])
	}
	return out, nil
}
