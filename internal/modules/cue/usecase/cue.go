package usecase

import (
	"context"
	"fmt"

	"chalkup/internal/modules/cue/domain"
	"chalkup/internal/modules/cue/dto"
	cuein "chalkup/internal/modules/cue/port/in"
	"chalkup/internal/modules/cue/service"
	apperrors "chalkup/internal/platform/errors"
)

type Interactor struct {
	svc     *service.Emitter
	enabled bool
}

// NewInteractor wraps the emitter. With enabled=false every cue is dropped.
func NewInteractor(svc *service.Emitter, enabled bool) cuein.Usecase {
	return &Interactor{svc: svc, enabled: enabled}
}

func (i *Interactor) Unlock(ctx context.Context) dto.StatusOutput {
	if i.enabled {
		i.svc.Unlock(ctx)
	}
	return i.Status(ctx)
}

func (i *Interactor) Emit(ctx context.Context, cue domain.Type) <-chan struct{} {
	if !i.enabled {
		done := make(chan struct{})
		close(done)
		return done
	}
	return i.svc.Emit(ctx, cue)
}

func (i *Interactor) Test(ctx context.Context, input dto.EmitInput) error {
	cue := domain.Type(input.Type)
	if err := cue.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	i.Unlock(ctx)
	done := i.Emit(ctx, cue)
	if input.Wait {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (i *Interactor) Status(context.Context) dto.StatusOutput {
	return dto.StatusOutput{Unlocked: i.svc.Unlocked(), AudioAvailable: i.svc.AudioAvailable()}
}
