package in

import (
	"context"

	"chalkup/internal/modules/cue/domain"
	"chalkup/internal/modules/cue/dto"
)

type Usecase interface {
	Unlock(ctx context.Context) dto.StatusOutput
	// Emit never blocks; the returned channel closes when the cue has played.
	Emit(ctx context.Context, cue domain.Type) <-chan struct{}
	Test(ctx context.Context, input dto.EmitInput) error
	Status(ctx context.Context) dto.StatusOutput
}
