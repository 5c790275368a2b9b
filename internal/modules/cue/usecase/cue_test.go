package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chalkup/internal/modules/cue/domain"
	"chalkup/internal/modules/cue/dto"
	"chalkup/internal/modules/cue/service"
	"chalkup/internal/modules/cue/usecase"
	apperrors "chalkup/internal/platform/errors"
)

type recordingAudio struct {
	mu    sync.Mutex
	tones int
}

func (r *recordingAudio) Unlock(context.Context) error { return nil }
func (r *recordingAudio) Play(context.Context, domain.Tone) error {
	r.mu.Lock()
	r.tones++
	r.mu.Unlock()
	return nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestTestPlaysCueAndUnlocks(t *testing.T) {
	t.Parallel()
	audio := &recordingAudio{}
	uc := usecase.NewInteractor(service.NewEmitter(audio, nil, nil, service.WithSleep(noSleep)), true)
	if err := uc.Test(context.Background(), dto.EmitInput{Type: "work", Wait: true}); err != nil {
		t.Fatalf("test cue: %v", err)
	}
	status := uc.Status(context.Background())
	if !status.Unlocked || !status.AudioAvailable {
		t.Fatalf("expected unlocked audio, got %+v", status)
	}
	audio.mu.Lock()
	defer audio.mu.Unlock()
	if audio.tones != 2 {
		t.Fatalf("work cue should beep twice, got %d", audio.tones)
	}
}

func TestTestRejectsUnknownCue(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewEmitter(nil, nil, nil), true)
	if err := uc.Test(context.Background(), dto.EmitInput{Type: "airhorn"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestDisabledInteractorDropsCues(t *testing.T) {
	t.Parallel()
	audio := &recordingAudio{}
	uc := usecase.NewInteractor(service.NewEmitter(audio, nil, nil, service.WithSleep(noSleep)), false)
	uc.Unlock(context.Background())
	<-uc.Emit(context.Background(), domain.Complete)
	if uc.Status(context.Background()).Unlocked {
		t.Fatalf("disabled cues must not unlock audio")
	}
	if audio.tones != 0 {
		t.Fatalf("disabled cues must be silent")
	}
}
