package domain_test

import (
	"testing"
	"time"

	cuedomain "chalkup/internal/modules/cue/domain"
	"chalkup/internal/modules/timer/domain"
)

func TestRestCountsDownAndCompletesOnce(t *testing.T) {
	t.Parallel()
	if _, err := domain.NewRestState(0); err == nil {
		t.Fatalf("zero rest should be rejected")
	}
	state, err := domain.NewRestState(5)
	if err != nil {
		t.Fatalf("new rest: %v", err)
	}
	completions := 0
	countdowns := 0
	for i := 0; i < 10; i++ {
		var cues []cuedomain.Type
		state, cues = state.Tick()
		for _, c := range cues {
			switch c {
			case cuedomain.RestComplete:
				completions++
			case cuedomain.Countdown:
				countdowns++
			}
		}
	}
	if completions != 1 || countdowns != 3 {
		t.Fatalf("expected 1 completion and 3 countdowns, got %d/%d", completions, countdowns)
	}
	if state.Running || state.Active() || !state.Completed() {
		t.Fatalf("rest should be stopped and completed: %+v", state)
	}
	if toggled := state.Toggle(); toggled.Running {
		t.Fatalf("completed rest cannot be resumed")
	}
}

func TestRestPauseResume(t *testing.T) {
	t.Parallel()
	state, _ := domain.NewRestState(60)
	state, _ = state.Tick()
	state = state.Toggle()
	paused, cues := state.Tick()
	if paused.RemainingSeconds != 59 || len(cues) != 0 {
		t.Fatalf("paused rest must not advance: %+v", paused)
	}
	resumed, _ := paused.Toggle().Tick()
	if resumed.RemainingSeconds != 58 {
		t.Fatalf("resumed rest should continue, got %+v", resumed)
	}
}

func TestElapsedIsFloorOfAbsoluteDifference(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if got := domain.Elapsed(start, start.Add(1999*time.Millisecond)); got != 1 {
		t.Fatalf("expected floor to 1, got %d", got)
	}
	if got := domain.Elapsed(start, start.Add(2*time.Hour+5*time.Second)); got != 7205 {
		t.Fatalf("expected 7205, got %d", got)
	}
	if got := domain.Elapsed(start, start.Add(-time.Minute)); got != 0 {
		t.Fatalf("clock jumping back should clamp to 0, got %d", got)
	}
	if got := domain.Elapsed(time.Time{}, start); got != 0 {
		t.Fatalf("zero start should read 0, got %d", got)
	}
}
