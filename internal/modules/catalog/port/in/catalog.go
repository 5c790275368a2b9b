package in

import (
	"context"

	"chalkup/internal/modules/catalog/dto"
)

type Usecase interface {
	InitCatalog(ctx context.Context, input dto.InitCatalogInput) (dto.InitCatalogOutput, error)
	ListWorkouts(ctx context.Context) ([]dto.WorkoutOutput, error)
	GetWorkout(ctx context.Context, id string) (dto.WorkoutOutput, error)
	ListExercises(ctx context.Context) ([]dto.ExerciseOutput, error)
	GetExercise(ctx context.Context, id string) (dto.ExerciseOutput, error)
	ListPresets(ctx context.Context) ([]dto.PresetOutput, error)
	// ListGrades is the V-scale, easiest first.
	ListGrades(ctx context.Context) []string

	AddGoal(ctx context.Context, input dto.AddGoalInput) (dto.GoalOutput, error)
	ListGoals(ctx context.Context) ([]dto.GoalOutput, error)
	ActiveGradeGoals(ctx context.Context) ([]dto.GoalOutput, error)
	CompleteGoal(ctx context.Context, id string) (dto.GoalOutput, error)
	ArchiveGoal(ctx context.Context, id string) (dto.GoalOutput, error)
	DeleteGoal(ctx context.Context, id string) error

	Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error)
	ListSchedule(ctx context.Context, input dto.ListScheduleInput) ([]dto.ScheduleOutput, error)
	ToggleScheduled(ctx context.Context, id string, completed bool) (dto.ScheduleOutput, error)
	RemoveScheduled(ctx context.Context, id string) error
	CopyWeek(ctx context.Context, startDate string) ([]dto.ScheduleOutput, error)
	FindIncompleteScheduled(ctx context.Context, date, workoutID string) (dto.ScheduleOutput, bool, error)
}
