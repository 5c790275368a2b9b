package domain

import (
	cuedomain "chalkup/internal/modules/cue/domain"
)

// RestState is a one-shot countdown. Once it reaches zero it is stopped for
// good; a new rest replaces it.
type RestState struct {
	DurationSeconds  int  `json:"duration_seconds"`
	RemainingSeconds int  `json:"remaining_seconds"`
	Running          bool `json:"running"`
}

// NewRestState starts counting immediately.
func NewRestState(seconds int) (RestState, error) {
	if seconds <= 0 {
		return RestState{}, invalid("rest duration must be positive")
	}
	return RestState{DurationSeconds: seconds, RemainingSeconds: seconds, Running: true}, nil
}

func (s RestState) Active() bool {
	return s.RemainingSeconds > 0
}

func (s RestState) Completed() bool {
	return s.DurationSeconds > 0 && s.RemainingSeconds == 0
}

func (s RestState) Toggle() RestState {
	if !s.Active() {
		return s
	}
	s.Running = !s.Running
	return s
}

func (s RestState) Tick() (RestState, []cuedomain.Type) {
	if !s.Running || s.RemainingSeconds <= 0 {
		return s, nil
	}
	var cues []cuedomain.Type
	if s.RemainingSeconds <= countdownFrom {
		cues = append(cues, cuedomain.Countdown)
	}
	s.RemainingSeconds--
	if s.RemainingSeconds == 0 {
		s.Running = false
		cues = append(cues, cuedomain.RestComplete)
	}
	return s, cues
}
