package out

import (
	"context"

	cuedomain "chalkup/internal/modules/cue/domain"
	cuein "chalkup/internal/modules/cue/port/in"
	timerout "chalkup/internal/modules/timer/port/out"
)

type CueAdapter struct {
	cues cuein.Usecase
}

func NewCueAdapter(cues cuein.Usecase) timerout.CueSink {
	return &CueAdapter{cues: cues}
}

func (a *CueAdapter) Unlock(ctx context.Context) {
	a.cues.Unlock(ctx)
}

func (a *CueAdapter) Emit(ctx context.Context, cue cuedomain.Type) <-chan struct{} {
	return a.cues.Emit(ctx, cue)
}
