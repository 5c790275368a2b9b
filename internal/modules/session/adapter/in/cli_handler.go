package in

import (
	"context"

	sessiondto "chalkup/internal/modules/session/dto"
	sessionin "chalkup/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, workoutID string) (sessiondto.LiveOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{WorkoutID: workoutID})
}

func (h CLIHandler) Resume(ctx context.Context) (sessiondto.LiveOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) GetActive(ctx context.Context) (sessiondto.LiveOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) SetAttempts(ctx context.Context, attempts int) (int, error) {
	return h.usecase.SetAttempts(ctx, attempts)
}

func (h CLIHandler) LogClimb(ctx context.Context, grade string, attempts int, sent bool) (sessiondto.LogClimbOutput, error) {
	return h.usecase.LogClimb(ctx, sessiondto.LogClimbInput{Grade: grade, Attempts: attempts, Sent: sent})
}

func (h CLIHandler) LogSet(ctx context.Context, exerciseID string) (sessiondto.LogSetOutput, error) {
	return h.usecase.LogExerciseSet(ctx, exerciseID)
}

func (h CLIHandler) UpdateExercise(ctx context.Context, input sessiondto.UpdateExerciseInput) (sessiondto.ExerciseProgressOutput, error) {
	return h.usecase.UpdateExercise(ctx, input)
}

func (h CLIHandler) ToggleExpanded(ctx context.Context, exerciseID string, expanded bool) (sessiondto.ExerciseProgressOutput, error) {
	return h.usecase.UpdateExercise(ctx, sessiondto.UpdateExerciseInput{ExerciseID: exerciseID, Expanded: &expanded})
}

func (h CLIHandler) UpdateDetails(ctx context.Context, input sessiondto.DetailsInput) (sessiondto.SessionOutput, error) {
	return h.usecase.UpdateDetails(ctx, input)
}

func (h CLIHandler) Finish(ctx context.Context, details sessiondto.DetailsInput) (sessiondto.FinishOutput, error) {
	return h.usecase.Finish(ctx, sessiondto.FinishInput{Details: details})
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) List(ctx context.Context) ([]sessiondto.SessionSummaryOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (sessiondto.SessionOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Changes(ctx context.Context, id string) ([]sessiondto.ChangeOutput, error) {
	return h.usecase.Changes(ctx, id)
}

func (h CLIHandler) Achievements(ctx context.Context) []sessiondto.AchievementOutput {
	return h.usecase.Achievements(ctx)
}

func (h CLIHandler) DismissAchievement(ctx context.Context) []sessiondto.AchievementOutput {
	return h.usecase.DismissAchievement(ctx)
}
