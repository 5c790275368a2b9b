package service

import (
	"context"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"chalkup/internal/modules/cue/domain"
	cueout "chalkup/internal/modules/cue/port/out"
	"chalkup/internal/platform/logging"
)

// Emitter turns cue types into beeps and vibration. Output failures are
// logged and swallowed; nothing here ever returns an error to a timer.
type Emitter struct {
	audio  cueout.AudioOutput
	haptic cueout.HapticOutput
	logger hclog.Logger
	sleep  func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	unlocked bool
	audioOK  bool
}

type Option func(*Emitter)

// WithSleep replaces the inter-beep wait, used by tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Emitter) { e.sleep = sleep }
}

func NewEmitter(audio cueout.AudioOutput, haptic cueout.HapticOutput, logger hclog.Logger, opts ...Option) *Emitter {
	e := &Emitter{
		audio:  audio,
		haptic: haptic,
		logger: logging.OrDiscard(logger).Named("cue"),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Unlock initialises audio once. Later calls are no-ops, including after a
// failed initialisation, which leaves audio disabled for the process.
func (e *Emitter) Unlock(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unlocked {
		return
	}
	e.unlocked = true
	if e.audio == nil {
		return
	}
	if err := e.audio.Unlock(ctx); err != nil {
		e.logger.Warn("audio disabled", "error", err)
		return
	}
	e.audioOK = true
}

func (e *Emitter) Unlocked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unlocked
}

func (e *Emitter) AudioAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.audioOK
}

// Beep plays a single tone and returns when it has finished. It is silent
// before Unlock or when audio is unavailable.
func (e *Emitter) Beep(ctx context.Context, tone domain.Tone) error {
	if !e.AudioAvailable() {
		return ctx.Err()
	}
	if err := e.audio.Play(ctx, tone); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.logger.Debug("beep failed", "frequency_hz", tone.FrequencyHz, "error", err)
	}
	return nil
}

// Play runs the full cue synchronously.
func (e *Emitter) Play(ctx context.Context, cue domain.Type) {
	waveform, ok := domain.WaveformFor(cue)
	if !ok {
		e.logger.Debug("unknown cue ignored", "cue", string(cue))
		return
	}
	if e.haptic != nil {
		if err := e.haptic.Vibrate(ctx, waveform.Haptic()); err != nil {
			e.logger.Debug("vibrate failed", "cue", string(cue), "error", err)
		}
	}
	for i := 0; i < waveform.Count; i++ {
		if i > 0 && waveform.Gap > 0 {
			if err := e.sleep(ctx, waveform.Gap); err != nil {
				return
			}
		}
		if err := e.Beep(ctx, waveform.Tone); err != nil {
			return
		}
	}
}

// Emit plays the cue in the background.
func (e *Emitter) Emit(ctx context.Context, cue domain.Type) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Play(ctx, cue)
	}()
	return done
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
