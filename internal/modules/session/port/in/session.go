package in

import (
	"context"

	"chalkup/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.LiveOutput, error)
	Resume(ctx context.Context) (dto.LiveOutput, error)
	GetActive(ctx context.Context) (dto.LiveOutput, error)
	SetAttempts(ctx context.Context, attempts int) (int, error)
	LogClimb(ctx context.Context, input dto.LogClimbInput) (dto.LogClimbOutput, error)
	LogExerciseSet(ctx context.Context, exerciseID string) (dto.LogSetOutput, error)
	UpdateExercise(ctx context.Context, input dto.UpdateExerciseInput) (dto.ExerciseProgressOutput, error)
	UpdateDetails(ctx context.Context, input dto.DetailsInput) (dto.SessionOutput, error)
	Finish(ctx context.Context, input dto.FinishInput) (dto.FinishOutput, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]dto.SessionSummaryOutput, error)
	Get(ctx context.Context, id string) (dto.SessionOutput, error)
	Changes(ctx context.Context, id string) ([]dto.ChangeOutput, error)
	Achievements(ctx context.Context) []dto.AchievementOutput
	DismissAchievement(ctx context.Context) []dto.AchievementOutput
}
