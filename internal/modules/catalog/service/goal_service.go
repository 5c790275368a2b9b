package service

import (
	"context"
	"strings"

	"chalkup/internal/modules/catalog/domain"
	catalogout "chalkup/internal/modules/catalog/port/out"
	"chalkup/internal/platform/clock"
	"chalkup/internal/platform/id"
)

type GoalService struct {
	clock clock.Clock
	idGen id.Generator
	store catalogout.GoalStore
}

func NewGoalService(clock clock.Clock, idGen id.Generator, store catalogout.GoalStore) *GoalService {
	return &GoalService{clock: clock, idGen: idGen, store: store}
}

func (s *GoalService) Add(ctx context.Context, goal domain.Goal) (domain.Goal, error) {
	goal.ID = s.idGen.New()
	goal.Title = strings.TrimSpace(goal.Title)
	goal.Status = domain.GoalActive
	goal.CreatedAt = s.clock.Now()
	goal.CompletedAt = nil
	if goal.Type == "" {
		goal.Type = domain.GoalTypeGrade
	}
	if goal.Type == domain.GoalTypeGrade && goal.Style == "" {
		goal.Style = domain.StyleSend
	}
	if err := goal.Validate(); err != nil {
		return domain.Goal{}, err
	}
	if err := s.store.Save(ctx, goal); err != nil {
		return domain.Goal{}, err
	}
	return goal, nil
}

func (s *GoalService) List(ctx context.Context) ([]domain.Goal, error) {
	return s.store.List(ctx)
}

// ActiveGradeGoals is the scan set for goal detection.
func (s *GoalService) ActiveGradeGoals(ctx context.Context) ([]domain.Goal, error) {
	goals, err := s.store.ListByStatus(ctx, domain.GoalActive)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Goal, 0, len(goals))
	for _, goal := range goals {
		if goal.Type == domain.GoalTypeGrade {
			out = append(out, goal)
		}
	}
	return out, nil
}

func (s *GoalService) Complete(ctx context.Context, goalID string) (domain.Goal, error) {
	goal, err := s.store.FindByID(ctx, goalID)
	if err != nil {
		return domain.Goal{}, err
	}
	if goal.Status == domain.GoalCompleted {
		return goal, nil
	}
	goal = goal.Complete(s.clock.Now())
	if err := s.store.Save(ctx, goal); err != nil {
		return domain.Goal{}, err
	}
	return goal, nil
}

func (s *GoalService) Archive(ctx context.Context, goalID string) (domain.Goal, error) {
	goal, err := s.store.FindByID(ctx, goalID)
	if err != nil {
		return domain.Goal{}, err
	}
	goal.Status = domain.GoalArchived
	if err := s.store.Save(ctx, goal); err != nil {
		return domain.Goal{}, err
	}
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, goalID string) error {
	return s.store.Delete(ctx, goalID)
}
