package in

import (
	"context"

	timerdto "chalkup/internal/modules/timer/dto"
	timerin "chalkup/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) LoadInterval(ctx context.Context, work, rest, reps, sets, setRest int) (timerdto.IntervalOutput, error) {
	return h.usecase.LoadInterval(ctx, timerdto.IntervalInput{
		WorkSeconds:            work,
		RestSeconds:            rest,
		RepsPerSet:             reps,
		TotalSets:              sets,
		RestBetweenSetsSeconds: setRest,
	})
}

func (h CLIHandler) ToggleInterval(ctx context.Context) (timerdto.IntervalOutput, error) {
	return h.usecase.ToggleInterval(ctx)
}

func (h CLIHandler) ResetInterval(ctx context.Context) timerdto.IntervalOutput {
	return h.usecase.ResetInterval(ctx)
}

func (h CLIHandler) StartRest(ctx context.Context, seconds int) (timerdto.RestOutput, error) {
	return h.usecase.StartRest(ctx, seconds)
}

func (h CLIHandler) ToggleRest(ctx context.Context) timerdto.RestOutput {
	return h.usecase.ToggleRest(ctx)
}

func (h CLIHandler) Snapshot(ctx context.Context) timerdto.SnapshotOutput {
	return h.usecase.Snapshot(ctx)
}

func (h CLIHandler) Subscribe(buffer int) (<-chan timerdto.EventOutput, func()) {
	return h.usecase.Subscribe(buffer)
}

func (h CLIHandler) WaitCues(ctx context.Context) error {
	return h.usecase.WaitCues(ctx)
}
