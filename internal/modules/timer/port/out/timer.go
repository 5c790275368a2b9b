package out

import (
	"context"

	cuedomain "chalkup/internal/modules/cue/domain"
)

// CueSink receives cues produced by ticks. Emit must not block.
type CueSink interface {
	Unlock(ctx context.Context)
	Emit(ctx context.Context, cue cuedomain.Type) <-chan struct{}
}
