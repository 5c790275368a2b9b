package out

import (
	"context"
	"time"

	"chalkup/internal/modules/cue/domain"
)

// NoopAudio refuses to unlock, so the emitter stays silent.
type NoopAudio struct{}

func (NoopAudio) Unlock(context.Context) error            { return domain.ErrAudioUnavailable }
func (NoopAudio) Play(context.Context, domain.Tone) error { return domain.ErrAudioUnavailable }

// NoopHaptic is used on hosts without a vibration motor.
type NoopHaptic struct{}

func (NoopHaptic) Vibrate(context.Context, []time.Duration) error { return nil }
