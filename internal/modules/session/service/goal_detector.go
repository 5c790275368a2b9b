package service

import (
	"context"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"chalkup/internal/modules/session/domain"
	sessionout "chalkup/internal/modules/session/port/out"
	"chalkup/internal/platform/logging"
)

// GoalDetector checks a logged send against the active grade goals.
type GoalDetector struct {
	goals  sessionout.GoalStore
	logger hclog.Logger
}

func NewGoalDetector(goals sessionout.GoalStore, logger hclog.Logger) *GoalDetector {
	return &GoalDetector{goals: goals, logger: logging.OrDiscard(logger).Named("goals")}
}

// Detect completes every goal the climb satisfies and returns one
// achievement per completed goal. Goals for which skip returns true are
// left alone.
func (d *GoalDetector) Detect(ctx context.Context, climb domain.ClimbLog, skip func(goalID string) bool) ([]domain.Achievement, error) {
	if d.goals == nil || !climb.Sent {
		return nil, nil
	}
	goals, err := d.goals.ActiveGradeGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active goals: %w", err)
	}
	achieved := []domain.Achievement{}
	for _, goal := range goals {
		if (skip != nil && skip(goal.ID)) || !goal.Satisfied(climb) {
			continue
		}
		if err := d.goals.CompleteGoal(ctx, goal.ID); err != nil {
			return achieved, fmt.Errorf("complete goal %s: %w", goal.ID, err)
		}
		d.logger.Info("goal completed", "goal", goal.ID, "grade", climb.Grade)
		achieved = append(achieved, domain.Achievement{GoalID: goal.ID, Title: goal.Title, Type: domain.AchievementGoal})
	}
	return achieved, nil
}
