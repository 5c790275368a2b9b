package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chalkup/internal/modules/cue/domain"
	"chalkup/internal/modules/cue/service"
)

type fakeAudio struct {
	mu        sync.Mutex
	unlockErr error
	playErr   error
	unlocks   int
	played    []domain.Tone
}

func (f *fakeAudio) Unlock(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unlocks++
	return f.unlockErr
}

func (f *fakeAudio) Play(_ context.Context, tone domain.Tone) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, tone)
	return f.playErr
}

func (f *fakeAudio) tones() []domain.Tone {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Tone(nil), f.played...)
}

type fakeHaptic struct {
	mu       sync.Mutex
	err      error
	patterns [][]time.Duration
}

func (f *fakeHaptic) Vibrate(_ context.Context, pattern []time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patterns = append(f.patterns, pattern)
	return f.err
}

func (f *fakeHaptic) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.patterns)
}

func noSleep(context.Context, time.Duration) error { return nil }

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("cue did not finish")
	}
}

func TestEmitBeforeUnlockIsSilentButVibrates(t *testing.T) {
	t.Parallel()
	audio := &fakeAudio{}
	haptic := &fakeHaptic{}
	emitter := service.NewEmitter(audio, haptic, nil, service.WithSleep(noSleep))

	waitDone(t, emitter.Emit(context.Background(), domain.Work))
	if len(audio.tones()) != 0 {
		t.Fatalf("expected silence before unlock, got %v", audio.tones())
	}
	if haptic.count() != 1 {
		t.Fatalf("expected vibration even when locked, got %d", haptic.count())
	}
}

func TestUnlockIsLazyAndIdempotent(t *testing.T) {
	t.Parallel()
	audio := &fakeAudio{}
	emitter := service.NewEmitter(audio, nil, nil, service.WithSleep(noSleep))
	if emitter.Unlocked() {
		t.Fatalf("emitter must start locked")
	}
	emitter.Unlock(context.Background())
	emitter.Unlock(context.Background())
	if audio.unlocks != 1 {
		t.Fatalf("expected one audio init, got %d", audio.unlocks)
	}

	waitDone(t, emitter.Emit(context.Background(), domain.Complete))
	tones := audio.tones()
	if len(tones) != 3 {
		t.Fatalf("complete cue should beep 3 times, got %d", len(tones))
	}
	if tones[0].FrequencyHz != 1047 {
		t.Fatalf("unexpected frequency %d", tones[0].FrequencyHz)
	}
}

func TestFailuresNeverPropagate(t *testing.T) {
	t.Parallel()
	audio := &fakeAudio{unlockErr: domain.ErrAudioUnavailable}
	haptic := &fakeHaptic{err: errors.New("no motor")}
	emitter := service.NewEmitter(audio, haptic, nil, service.WithSleep(noSleep))
	emitter.Unlock(context.Background())
	if emitter.AudioAvailable() {
		t.Fatalf("failed unlock should disable audio")
	}
	waitDone(t, emitter.Emit(context.Background(), domain.SetRest))
	if len(audio.tones()) != 0 {
		t.Fatalf("disabled audio must not play")
	}

	broken := &fakeAudio{playErr: errors.New("device gone")}
	emitter = service.NewEmitter(broken, nil, nil, service.WithSleep(noSleep))
	emitter.Unlock(context.Background())
	if err := emitter.Beep(context.Background(), domain.Tone{FrequencyHz: 440, Duration: time.Millisecond}); err != nil {
		t.Fatalf("beep must swallow output errors, got %v", err)
	}
}

func TestNoOutputsAndUnknownTypeAreTolerated(t *testing.T) {
	t.Parallel()
	emitter := service.NewEmitter(nil, nil, nil)
	emitter.Unlock(context.Background())
	waitDone(t, emitter.Emit(context.Background(), domain.RestComplete))
	waitDone(t, emitter.Emit(context.Background(), domain.Type("bogus")))
}

func TestGapsAreAwaitedBetweenBeeps(t *testing.T) {
	t.Parallel()
	audio := &fakeAudio{}
	var gaps []time.Duration
	var mu sync.Mutex
	emitter := service.NewEmitter(audio, nil, nil, service.WithSleep(func(_ context.Context, d time.Duration) error {
		mu.Lock()
		gaps = append(gaps, d)
		mu.Unlock()
		return nil
	}))
	emitter.Unlock(context.Background())
	emitter.Play(context.Background(), domain.RestComplete)
	mu.Lock()
	defer mu.Unlock()
	if len(gaps) != 2 || gaps[0] != 120*time.Millisecond {
		t.Fatalf("expected two 120ms gaps, got %v", gaps)
	}
}
