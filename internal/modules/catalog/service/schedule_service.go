package service

import (
	"context"
	"fmt"
	"strings"

	"chalkup/internal/modules/catalog/domain"
	catalogout "chalkup/internal/modules/catalog/port/out"
	"chalkup/internal/platform/clock"
	apperrors "chalkup/internal/platform/errors"
	"chalkup/internal/platform/id"
	"chalkup/internal/platform/tx"
)

type ScheduleService struct {
	clock   clock.Clock
	idGen   id.Generator
	store   catalogout.ScheduleStore
	catalog *CatalogService
	tx      tx.Manager
}

func NewScheduleService(clock clock.Clock, idGen id.Generator, store catalogout.ScheduleStore, catalog *CatalogService, txm tx.Manager) *ScheduleService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &ScheduleService{clock: clock, idGen: idGen, store: store, catalog: catalog, tx: txm}
}

func (s *ScheduleService) Schedule(ctx context.Context, date, workoutID string) (domain.ScheduledWorkout, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return domain.ScheduledWorkout{}, err
	}
	if strings.TrimSpace(workoutID) == "" {
		return domain.ScheduledWorkout{}, fmt.Errorf("%w: workout id is required", apperrors.ErrInvalidInput)
	}
	if _, err := s.catalog.Workout(ctx, workoutID); err != nil {
		return domain.ScheduledWorkout{}, err
	}
	entry := domain.ScheduledWorkout{ID: s.idGen.New(), Date: date, WorkoutID: workoutID, CreatedAt: s.clock.Now()}
	if err := s.store.Save(ctx, entry); err != nil {
		return domain.ScheduledWorkout{}, err
	}
	return entry, nil
}

func (s *ScheduleService) List(ctx context.Context, from, to string) ([]domain.ScheduledWorkout, error) {
	for _, date := range []string{from, to} {
		if date == "" {
			continue
		}
		if _, err := domain.ParseDate(date); err != nil {
			return nil, err
		}
	}
	return s.store.ListRange(ctx, from, to)
}

func (s *ScheduleService) Toggle(ctx context.Context, entryID string, completed bool) (domain.ScheduledWorkout, error) {
	entry, err := s.store.FindByID(ctx, entryID)
	if err != nil {
		return domain.ScheduledWorkout{}, err
	}
	entry.Completed = completed
	if err := s.store.Save(ctx, entry); err != nil {
		return domain.ScheduledWorkout{}, err
	}
	return entry, nil
}

func (s *ScheduleService) Remove(ctx context.Context, entryID string) error {
	return s.store.Delete(ctx, entryID)
}

func (s *ScheduleService) FindIncomplete(ctx context.Context, date, workoutID string) (domain.ScheduledWorkout, bool, error) {
	return s.store.FindIncomplete(ctx, date, workoutID)
}

// CopyWeek duplicates the seven days starting at startDate into the
// following week as incomplete entries.
func (s *ScheduleService) CopyWeek(ctx context.Context, startDate string) ([]domain.ScheduledWorkout, error) {
	endDate, err := domain.ShiftDate(startDate, 6)
	if err != nil {
		return nil, err
	}
	source, err := s.store.ListRange(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	copied := make([]domain.ScheduledWorkout, 0, len(source))
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		for _, entry := range source {
			date, err := domain.ShiftDate(entry.Date, 7)
			if err != nil {
				return err
			}
			next := domain.ScheduledWorkout{ID: s.idGen.New(), Date: date, WorkoutID: entry.WorkoutID, CreatedAt: s.clock.Now()}
			if err := s.store.Save(ctx, next); err != nil {
				return err
			}
			copied = append(copied, next)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}
