package in

import (
	"context"
	"time"

	"chalkup/internal/modules/timer/dto"
)

type Usecase interface {
	LoadInterval(ctx context.Context, input dto.IntervalInput) (dto.IntervalOutput, error)
	UnloadInterval(ctx context.Context)
	ToggleInterval(ctx context.Context) (dto.IntervalOutput, error)
	ResetInterval(ctx context.Context) dto.IntervalOutput
	// IntervalActive is true while a loaded protocol has not reached done.
	IntervalActive(ctx context.Context) bool
	StartRest(ctx context.Context, seconds int) (dto.RestOutput, error)
	ToggleRest(ctx context.Context) dto.RestOutput
	StopRest(ctx context.Context)
	StartClock(ctx context.Context, startedAt time.Time)
	StopClock(ctx context.Context)
	Snapshot(ctx context.Context) dto.SnapshotOutput
	Subscribe(buffer int) (<-chan dto.EventOutput, func())
	// WaitCues blocks until cues already triggered by either timer have played.
	WaitCues(ctx context.Context) error
}
