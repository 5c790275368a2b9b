package usecase

import (
	"context"
	"time"

	"chalkup/internal/modules/timer/domain"
	"chalkup/internal/modules/timer/dto"
	timerin "chalkup/internal/modules/timer/port/in"
	"chalkup/internal/modules/timer/service"
)

// Interactor exposes the three timers. Only one of interval and rest should
// run at a time; that is left to callers and not enforced here.
type Interactor struct {
	interval *service.IntervalTimer
	rest     *service.RestTimer
	clock    *service.SessionClock
	hub      *service.Hub
}

func NewInteractor(interval *service.IntervalTimer, rest *service.RestTimer, clock *service.SessionClock, hub *service.Hub) timerin.Usecase {
	return &Interactor{interval: interval, rest: rest, clock: clock, hub: hub}
}

func (i *Interactor) LoadInterval(_ context.Context, input dto.IntervalInput) (dto.IntervalOutput, error) {
	state, err := i.interval.Load(domain.IntervalConfig{
		WorkSeconds:            input.WorkSeconds,
		RestSeconds:            input.RestSeconds,
		RepsPerSet:             input.RepsPerSet,
		TotalSets:              input.TotalSets,
		RestBetweenSetsSeconds: input.RestBetweenSetsSeconds,
	})
	if err != nil {
		return dto.IntervalOutput{}, err
	}
	return toIntervalOutput(state, true), nil
}

func (i *Interactor) UnloadInterval(context.Context) {
	i.interval.Unload()
}

func (i *Interactor) ToggleInterval(ctx context.Context) (dto.IntervalOutput, error) {
	state, err := i.interval.Toggle(ctx)
	if err != nil {
		return dto.IntervalOutput{}, err
	}
	return toIntervalOutput(state, true), nil
}

func (i *Interactor) ResetInterval(context.Context) dto.IntervalOutput {
	state := i.interval.Reset()
	_, loaded := i.interval.Snapshot()
	return toIntervalOutput(state, loaded)
}

func (i *Interactor) IntervalActive(context.Context) bool {
	return i.interval.Active()
}

func (i *Interactor) WaitCues(ctx context.Context) error {
	if err := i.interval.WaitCues(ctx); err != nil {
		return err
	}
	return i.rest.WaitCues(ctx)
}

func (i *Interactor) StartRest(ctx context.Context, seconds int) (dto.RestOutput, error) {
	state, err := i.rest.Start(ctx, seconds)
	if err != nil {
		return dto.RestOutput{}, err
	}
	return toRestOutput(state), nil
}

func (i *Interactor) ToggleRest(ctx context.Context) dto.RestOutput {
	return toRestOutput(i.rest.Toggle(ctx))
}

func (i *Interactor) StopRest(context.Context) {
	i.rest.Stop()
}

func (i *Interactor) StartClock(_ context.Context, startedAt time.Time) {
	i.clock.Start(startedAt)
}

func (i *Interactor) StopClock(context.Context) {
	i.clock.Stop()
}

func (i *Interactor) Snapshot(context.Context) dto.SnapshotOutput {
	state, loaded := i.interval.Snapshot()
	return dto.SnapshotOutput{
		Interval:       toIntervalOutput(state, loaded),
		Rest:           toRestOutput(i.rest.Snapshot()),
		ElapsedSeconds: i.clock.Elapsed(),
		StartedAt:      i.clock.StartedAt(),
	}
}

func (i *Interactor) Subscribe(buffer int) (<-chan dto.EventOutput, func()) {
	events, cancel := i.hub.Subscribe(buffer)
	out := make(chan dto.EventOutput, cap(events))
	go func() {
		defer close(out)
		for event := range events {
			select {
			case out <- toEventOutput(event):
			default:
			}
		}
	}()
	return out, cancel
}

func toIntervalOutput(state domain.IntervalState, loaded bool) dto.IntervalOutput {
	if !loaded {
		return dto.IntervalOutput{}
	}
	return dto.IntervalOutput{
		Loaded:                 true,
		Phase:                  string(state.Phase),
		CurrentRep:             state.CurrentRep,
		CurrentSet:             state.CurrentSet,
		RepsPerSet:             state.Config.RepsPerSet,
		TotalSets:              state.Config.TotalSets,
		RemainingSeconds:       state.RemainingSeconds,
		Running:                state.Running,
		WorkSeconds:            state.Config.WorkSeconds,
		RestSeconds:            state.Config.RestSeconds,
		RestBetweenSetsSeconds: state.Config.RestBetweenSetsSeconds,
	}
}

func toRestOutput(state domain.RestState) dto.RestOutput {
	return dto.RestOutput{
		Active:           state.Active(),
		Completed:        state.Completed(),
		Running:          state.Running,
		DurationSeconds:  state.DurationSeconds,
		RemainingSeconds: state.RemainingSeconds,
	}
}

func toEventOutput(event domain.Event) dto.EventOutput {
	cues := make([]string, 0, len(event.Cues))
	for _, cue := range event.Cues {
		cues = append(cues, string(cue))
	}
	return dto.EventOutput{
		Source:   string(event.Source),
		Interval: toIntervalOutput(event.Interval, event.Loaded),
		Rest:     toRestOutput(event.Rest),
		Elapsed:  event.Elapsed,
		Cues:     cues,
		At:       event.At,
	}
}
