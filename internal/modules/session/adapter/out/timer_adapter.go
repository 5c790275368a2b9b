package out

import (
	"context"
	"time"

	sessionout "chalkup/internal/modules/session/port/out"
	timerdomain "chalkup/internal/modules/timer/domain"
	timerdto "chalkup/internal/modules/timer/dto"
	timerin "chalkup/internal/modules/timer/port/in"
)

type TimerAdapter struct {
	timers timerin.Usecase
}

func NewTimerAdapter(timers timerin.Usecase) sessionout.Timers {
	return &TimerAdapter{timers: timers}
}

func (a *TimerAdapter) LoadInterval(ctx context.Context, cfg timerdomain.IntervalConfig) error {
	_, err := a.timers.LoadInterval(ctx, timerdto.IntervalInput{
		WorkSeconds:            cfg.WorkSeconds,
		RestSeconds:            cfg.RestSeconds,
		RepsPerSet:             cfg.RepsPerSet,
		TotalSets:              cfg.TotalSets,
		RestBetweenSetsSeconds: cfg.RestBetweenSetsSeconds,
	})
	return err
}

func (a *TimerAdapter) UnloadInterval(ctx context.Context) {
	a.timers.UnloadInterval(ctx)
}

func (a *TimerAdapter) IntervalActive(ctx context.Context) bool {
	return a.timers.IntervalActive(ctx)
}

func (a *TimerAdapter) StartRest(ctx context.Context, seconds int) error {
	_, err := a.timers.StartRest(ctx, seconds)
	return err
}

func (a *TimerAdapter) StopRest(ctx context.Context) {
	a.timers.StopRest(ctx)
}

func (a *TimerAdapter) StartClock(ctx context.Context, startedAt time.Time) {
	a.timers.StartClock(ctx, startedAt)
}

func (a *TimerAdapter) StopClock(ctx context.Context) {
	a.timers.StopClock(ctx)
}
