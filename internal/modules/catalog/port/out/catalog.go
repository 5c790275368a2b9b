package out

import (
	"context"

	"chalkup/internal/modules/catalog/domain"
)

type CatalogStore interface {
	Load(ctx context.Context) (domain.Catalog, error)
	Save(ctx context.Context, catalog domain.Catalog) error
	Exists() bool
	Path() string
}

type GoalStore interface {
	Save(ctx context.Context, goal domain.Goal) error
	FindByID(ctx context.Context, id string) (domain.Goal, error)
	List(ctx context.Context) ([]domain.Goal, error)
	ListByStatus(ctx context.Context, status domain.GoalStatus) ([]domain.Goal, error)
	Delete(ctx context.Context, id string) error
}

type ScheduleStore interface {
	Save(ctx context.Context, entry domain.ScheduledWorkout) error
	FindByID(ctx context.Context, id string) (domain.ScheduledWorkout, error)
	ListRange(ctx context.Context, from, to string) ([]domain.ScheduledWorkout, error)
	// FindIncomplete returns the oldest incomplete entry for date and workout.
	FindIncomplete(ctx context.Context, date, workoutID string) (domain.ScheduledWorkout, bool, error)
	Delete(ctx context.Context, id string) error
}
