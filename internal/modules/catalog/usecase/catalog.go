package usecase

import (
	"context"
	"strings"

	"chalkup/internal/modules/catalog/domain"
	"chalkup/internal/modules/catalog/dto"
	catalogin "chalkup/internal/modules/catalog/port/in"
	"chalkup/internal/modules/catalog/service"
	timerdomain "chalkup/internal/modules/timer/domain"
)

type Interactor struct {
	catalog  *service.CatalogService
	goals    *service.GoalService
	schedule *service.ScheduleService
}

func NewInteractor(catalog *service.CatalogService, goals *service.GoalService, schedule *service.ScheduleService) catalogin.Usecase {
	return &Interactor{catalog: catalog, goals: goals, schedule: schedule}
}

func (i *Interactor) InitCatalog(ctx context.Context, input dto.InitCatalogInput) (dto.InitCatalogOutput, error) {
	written, err := i.catalog.Init(ctx, input.Force)
	if err != nil {
		return dto.InitCatalogOutput{}, err
	}
	return dto.InitCatalogOutput{Path: i.catalog.Path(), Written: written}, nil
}

func (i *Interactor) ListWorkouts(ctx context.Context) ([]dto.WorkoutOutput, error) {
	catalog, err := i.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkoutOutput, 0, len(catalog.Workouts))
	for _, workout := range catalog.Workouts {
		out = append(out, toWorkoutOutput(workout))
	}
	return out, nil
}

func (i *Interactor) GetWorkout(ctx context.Context, id string) (dto.WorkoutOutput, error) {
	workout, err := i.catalog.Workout(ctx, id)
	if err != nil {
		return dto.WorkoutOutput{}, err
	}
	return toWorkoutOutput(workout), nil
}

func (i *Interactor) ListExercises(ctx context.Context) ([]dto.ExerciseOutput, error) {
	catalog, err := i.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExerciseOutput, 0, len(catalog.Exercises))
	for _, exercise := range catalog.Exercises {
		out = append(out, toExerciseOutput(exercise))
	}
	return out, nil
}

func (i *Interactor) GetExercise(ctx context.Context, id string) (dto.ExerciseOutput, error) {
	exercise, err := i.catalog.Exercise(ctx, id)
	if err != nil {
		return dto.ExerciseOutput{}, err
	}
	return toExerciseOutput(exercise), nil
}

func (i *Interactor) ListPresets(ctx context.Context) ([]dto.PresetOutput, error) {
	catalog, err := i.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PresetOutput, 0, len(catalog.Presets))
	for _, preset := range catalog.Presets {
		out = append(out, dto.PresetOutput{ID: preset.ID, Name: preset.Name, Timer: *toTimerOutput(&preset.Timer)})
	}
	return out, nil
}

func (i *Interactor) ListGrades(context.Context) []string {
	grades := domain.Grades()
	out := make([]string, 0, len(grades))
	for _, g := range grades {
		out = append(out, string(g))
	}
	return out
}

func (i *Interactor) AddGoal(ctx context.Context, input dto.AddGoalInput) (dto.GoalOutput, error) {
	goal := domain.Goal{
		Type:         domain.GoalType(strings.ToLower(strings.TrimSpace(input.Type))),
		Title:        input.Title,
		Description:  input.Description,
		TargetDate:   input.TargetDate,
		Style:        domain.GradeStyle(strings.ToLower(strings.TrimSpace(input.Style))),
		ExerciseID:   input.ExerciseID,
		TargetWeight: input.TargetWeight,
	}
	if input.TargetGrade != "" {
		grade, err := domain.ParseGrade(input.TargetGrade)
		if err != nil {
			return dto.GoalOutput{}, err
		}
		goal.TargetGrade = grade
	}
	created, err := i.goals.Add(ctx, goal)
	if err != nil {
		return dto.GoalOutput{}, err
	}
	return toGoalOutput(created), nil
}

func (i *Interactor) ListGoals(ctx context.Context) ([]dto.GoalOutput, error) {
	goals, err := i.goals.List(ctx)
	if err != nil {
		return nil, err
	}
	return toGoalOutputs(goals), nil
}

func (i *Interactor) ActiveGradeGoals(ctx context.Context) ([]dto.GoalOutput, error) {
	goals, err := i.goals.ActiveGradeGoals(ctx)
	if err != nil {
		return nil, err
	}
	return toGoalOutputs(goals), nil
}

func (i *Interactor) CompleteGoal(ctx context.Context, id string) (dto.GoalOutput, error) {
	goal, err := i.goals.Complete(ctx, id)
	if err != nil {
		return dto.GoalOutput{}, err
	}
	return toGoalOutput(goal), nil
}

func (i *Interactor) ArchiveGoal(ctx context.Context, id string) (dto.GoalOutput, error) {
	goal, err := i.goals.Archive(ctx, id)
	if err != nil {
		return dto.GoalOutput{}, err
	}
	return toGoalOutput(goal), nil
}

func (i *Interactor) DeleteGoal(ctx context.Context, id string) error {
	return i.goals.Delete(ctx, id)
}

func (i *Interactor) Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error) {
	entry, err := i.schedule.Schedule(ctx, input.Date, input.WorkoutID)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	return i.toScheduleOutput(ctx, entry), nil
}

func (i *Interactor) ListSchedule(ctx context.Context, input dto.ListScheduleInput) ([]dto.ScheduleOutput, error) {
	entries, err := i.schedule.List(ctx, input.From, input.To)
	if err != nil {
		return nil, err
	}
	return i.toScheduleOutputs(ctx, entries), nil
}

func (i *Interactor) ToggleScheduled(ctx context.Context, id string, completed bool) (dto.ScheduleOutput, error) {
	entry, err := i.schedule.Toggle(ctx, id, completed)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	return i.toScheduleOutput(ctx, entry), nil
}

func (i *Interactor) RemoveScheduled(ctx context.Context, id string) error {
	return i.schedule.Remove(ctx, id)
}

func (i *Interactor) CopyWeek(ctx context.Context, startDate string) ([]dto.ScheduleOutput, error) {
	entries, err := i.schedule.CopyWeek(ctx, startDate)
	if err != nil {
		return nil, err
	}
	return i.toScheduleOutputs(ctx, entries), nil
}

func (i *Interactor) FindIncompleteScheduled(ctx context.Context, date, workoutID string) (dto.ScheduleOutput, bool, error) {
	entry, ok, err := i.schedule.FindIncomplete(ctx, date, workoutID)
	if err != nil || !ok {
		return dto.ScheduleOutput{}, false, err
	}
	return i.toScheduleOutput(ctx, entry), true, nil
}

func (i *Interactor) toScheduleOutputs(ctx context.Context, entries []domain.ScheduledWorkout) []dto.ScheduleOutput {
	out := make([]dto.ScheduleOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, i.toScheduleOutput(ctx, entry))
	}
	return out
}

func (i *Interactor) toScheduleOutput(ctx context.Context, entry domain.ScheduledWorkout) dto.ScheduleOutput {
	out := dto.ScheduleOutput{ID: entry.ID, Date: entry.Date, WorkoutID: entry.WorkoutID, Completed: entry.Completed}
	if workout, err := i.catalog.Workout(ctx, entry.WorkoutID); err == nil {
		out.WorkoutName = workout.Name
	}
	return out
}

func toTimerOutput(cfg *timerdomain.IntervalConfig) *dto.TimerOutput {
	if cfg == nil {
		return nil
	}
	return &dto.TimerOutput{
		WorkSeconds:            cfg.WorkSeconds,
		RestSeconds:            cfg.RestSeconds,
		RepsPerSet:             cfg.RepsPerSet,
		TotalSets:              cfg.TotalSets,
		RestBetweenSetsSeconds: cfg.RestBetweenSetsSeconds,
	}
}

func toWorkoutOutput(workout domain.Workout) dto.WorkoutOutput {
	exercises := make([]dto.WorkoutExerciseOutput, 0, len(workout.Exercises))
	for _, ex := range workout.Exercises {
		exercises = append(exercises, dto.WorkoutExerciseOutput{ExerciseID: ex.ExerciseID, Sets: ex.Sets, Reps: ex.Reps})
	}
	return dto.WorkoutOutput{
		ID:                workout.ID,
		Name:              workout.Name,
		Type:              string(workout.Type),
		Description:       workout.Description,
		DurationMinutes:   workout.DurationMinutes,
		Steps:             workout.Steps,
		Timer:             toTimerOutput(workout.Timer),
		Exercises:         exercises,
		ShowsClimbLogging: workout.Type.ShowsClimbLogging(),
	}
}

func toExerciseOutput(exercise domain.Exercise) dto.ExerciseOutput {
	return dto.ExerciseOutput{
		ID:                     exercise.ID,
		Name:                   exercise.Name,
		Category:               string(exercise.Category),
		Difficulty:             exercise.Difficulty,
		DefaultSets:            exercise.DefaultSets,
		DefaultReps:            exercise.DefaultReps,
		DefaultDurationSeconds: exercise.DefaultDurationSeconds,
		Timer:                  toTimerOutput(exercise.Timer),
	}
}

func toGoalOutputs(goals []domain.Goal) []dto.GoalOutput {
	out := make([]dto.GoalOutput, 0, len(goals))
	for _, goal := range goals {
		out = append(out, toGoalOutput(goal))
	}
	return out
}

func toGoalOutput(goal domain.Goal) dto.GoalOutput {
	return dto.GoalOutput{
		ID:           goal.ID,
		Type:         string(goal.Type),
		Title:        goal.Title,
		Description:  goal.Description,
		Status:       string(goal.Status),
		TargetDate:   goal.TargetDate,
		TargetGrade:  string(goal.TargetGrade),
		Style:        string(goal.Style),
		ExerciseID:   goal.ExerciseID,
		TargetWeight: goal.TargetWeight,
		CreatedAt:    goal.CreatedAt,
		CompletedAt:  goal.CompletedAt,
	}
}
