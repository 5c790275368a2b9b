package out

import (
	"context"
	"time"

	"chalkup/internal/modules/cue/domain"
)

// AudioOutput plays tones. Play returns once the tone has finished sounding.
type AudioOutput interface {
	Unlock(ctx context.Context) error
	Play(ctx context.Context, tone domain.Tone) error
}

// HapticOutput vibrates with an on/off pattern.
type HapticOutput interface {
	Vibrate(ctx context.Context, pattern []time.Duration) error
}
