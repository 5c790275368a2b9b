package out

import (
	"context"

	catalogdomain "chalkup/internal/modules/catalog/domain"
	catalogdto "chalkup/internal/modules/catalog/dto"
	catalogin "chalkup/internal/modules/catalog/port/in"
	"chalkup/internal/modules/session/domain"
	sessionout "chalkup/internal/modules/session/port/out"
	timerdomain "chalkup/internal/modules/timer/domain"
)

// CatalogBridge exposes the catalog module through the ports the session
// lifecycle consumes.
type CatalogBridge struct {
	catalog catalogin.Usecase
}

func NewCatalogBridge(catalog catalogin.Usecase) *CatalogBridge {
	return &CatalogBridge{catalog: catalog}
}

var (
	_ sessionout.WorkoutProvider = (*CatalogBridge)(nil)
	_ sessionout.ExerciseCatalog = (*CatalogBridge)(nil)
	_ sessionout.GoalStore       = (*CatalogBridge)(nil)
	_ sessionout.ScheduleStore   = (*CatalogBridge)(nil)
)

func (b *CatalogBridge) Workout(ctx context.Context, id string) (domain.WorkoutPlan, error) {
	workout, err := b.catalog.GetWorkout(ctx, id)
	if err != nil {
		return domain.WorkoutPlan{}, err
	}
	plan := domain.WorkoutPlan{
		ID:                workout.ID,
		Name:              workout.Name,
		ShowsClimbLogging: workout.ShowsClimbLogging,
		Exercises:         make([]domain.PlannedExercise, 0, len(workout.Exercises)),
	}
	if workout.Timer != nil {
		plan.Timer = &timerdomain.IntervalConfig{
			WorkSeconds:            workout.Timer.WorkSeconds,
			RestSeconds:            workout.Timer.RestSeconds,
			RepsPerSet:             workout.Timer.RepsPerSet,
			TotalSets:              workout.Timer.TotalSets,
			RestBetweenSetsSeconds: workout.Timer.RestBetweenSetsSeconds,
		}
	}
	for _, we := range workout.Exercises {
		plan.Exercises = append(plan.Exercises, domain.PlannedExercise{ExerciseID: we.ExerciseID, Sets: we.Sets})
	}
	return plan, nil
}

func (b *CatalogBridge) DefaultSets(ctx context.Context, exerciseID string) (int, error) {
	exercise, err := b.catalog.GetExercise(ctx, exerciseID)
	if err != nil {
		return 0, err
	}
	return exercise.DefaultSets, nil
}

func (b *CatalogBridge) ActiveGradeGoals(ctx context.Context) ([]domain.GradeGoal, error) {
	goals, err := b.catalog.ActiveGradeGoals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.GradeGoal, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGradeGoal(g))
	}
	return out, nil
}

func (b *CatalogBridge) CompleteGoal(ctx context.Context, goalID string) error {
	_, err := b.catalog.CompleteGoal(ctx, goalID)
	return err
}

func (b *CatalogBridge) FindIncomplete(ctx context.Context, date, workoutID string) (string, bool, error) {
	entry, ok, err := b.catalog.FindIncompleteScheduled(ctx, date, workoutID)
	if err != nil || !ok {
		return "", false, err
	}
	return entry.ID, true, nil
}

func (b *CatalogBridge) MarkCompleted(ctx context.Context, entryID string) error {
	_, err := b.catalog.ToggleScheduled(ctx, entryID, true)
	return err
}

func toGradeGoal(g catalogdto.GoalOutput) domain.GradeGoal {
	return domain.GradeGoal{
		ID:          g.ID,
		Title:       g.Title,
		TargetGrade: catalogdomain.Grade(g.TargetGrade),
		Style:       catalogdomain.GradeStyle(g.Style),
	}
}
