package in

import (
	"context"

	"chalkup/internal/modules/catalog/dto"
	catalogin "chalkup/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Init(ctx context.Context, force bool) (dto.InitCatalogOutput, error) {
	return h.usecase.InitCatalog(ctx, dto.InitCatalogInput{Force: force})
}

func (h CLIHandler) Workouts(ctx context.Context) ([]dto.WorkoutOutput, error) {
	return h.usecase.ListWorkouts(ctx)
}

func (h CLIHandler) Workout(ctx context.Context, id string) (dto.WorkoutOutput, error) {
	return h.usecase.GetWorkout(ctx, id)
}

func (h CLIHandler) Exercises(ctx context.Context) ([]dto.ExerciseOutput, error) {
	return h.usecase.ListExercises(ctx)
}

func (h CLIHandler) Presets(ctx context.Context) ([]dto.PresetOutput, error) {
	return h.usecase.ListPresets(ctx)
}

func (h CLIHandler) Grades(ctx context.Context) []string {
	return h.usecase.ListGrades(ctx)
}

func (h CLIHandler) AddGradeGoal(ctx context.Context, title, grade, style, targetDate string) (dto.GoalOutput, error) {
	return h.usecase.AddGoal(ctx, dto.AddGoalInput{Type: "grade", Title: title, TargetGrade: grade, Style: style, TargetDate: targetDate})
}

func (h CLIHandler) AddStrengthGoal(ctx context.Context, title, exerciseID string, weight float64, targetDate string) (dto.GoalOutput, error) {
	return h.usecase.AddGoal(ctx, dto.AddGoalInput{Type: "strength", Title: title, ExerciseID: exerciseID, TargetWeight: weight, TargetDate: targetDate})
}

func (h CLIHandler) Goals(ctx context.Context) ([]dto.GoalOutput, error) {
	return h.usecase.ListGoals(ctx)
}

func (h CLIHandler) CompleteGoal(ctx context.Context, id string) (dto.GoalOutput, error) {
	return h.usecase.CompleteGoal(ctx, id)
}

func (h CLIHandler) ArchiveGoal(ctx context.Context, id string) (dto.GoalOutput, error) {
	return h.usecase.ArchiveGoal(ctx, id)
}

func (h CLIHandler) DeleteGoal(ctx context.Context, id string) error {
	return h.usecase.DeleteGoal(ctx, id)
}

func (h CLIHandler) Plan(ctx context.Context, date, workoutID string) (dto.ScheduleOutput, error) {
	return h.usecase.Schedule(ctx, dto.ScheduleInput{Date: date, WorkoutID: workoutID})
}

func (h CLIHandler) PlanList(ctx context.Context, from, to string) ([]dto.ScheduleOutput, error) {
	return h.usecase.ListSchedule(ctx, dto.ListScheduleInput{From: from, To: to})
}

func (h CLIHandler) PlanDone(ctx context.Context, id string, completed bool) (dto.ScheduleOutput, error) {
	return h.usecase.ToggleScheduled(ctx, id, completed)
}

func (h CLIHandler) PlanRemove(ctx context.Context, id string) error {
	return h.usecase.RemoveScheduled(ctx, id)
}

func (h CLIHandler) PlanCopyWeek(ctx context.Context, startDate string) ([]dto.ScheduleOutput, error) {
	return h.usecase.CopyWeek(ctx, startDate)
}
