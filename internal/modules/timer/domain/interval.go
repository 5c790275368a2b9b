package domain

import (
	"errors"
	"fmt"

	cuedomain "chalkup/internal/modules/cue/domain"
	apperrors "chalkup/internal/platform/errors"
)

type Phase string

const (
	PhaseWork    Phase = "work"
	PhaseRest    Phase = "rest"
	PhaseSetRest Phase = "set_rest"
	PhaseDone    Phase = "done"
)

// countdownFrom is the highest remaining value that still gets a countdown cue.
const countdownFrom = 3

var ErrNotLoaded = errors.New("interval protocol not loaded")

type IntervalConfig struct {
	WorkSeconds            int `json:"work_seconds" yaml:"work_seconds"`
	RestSeconds            int `json:"rest_seconds" yaml:"rest_seconds"`
	RepsPerSet             int `json:"reps_per_set" yaml:"reps_per_set"`
	TotalSets              int `json:"total_sets" yaml:"total_sets"`
	RestBetweenSetsSeconds int `json:"rest_between_sets_seconds" yaml:"rest_between_sets_seconds"`
}

// Validate rejects configurations that would stall or never finish.
func (c IntervalConfig) Validate() error {
	switch {
	case c.WorkSeconds <= 0:
		return invalid("work seconds must be positive")
	case c.RepsPerSet <= 0:
		return invalid("reps per set must be positive")
	case c.TotalSets <= 0:
		return invalid("total sets must be positive")
	case c.RestSeconds < 0 || c.RestBetweenSetsSeconds < 0:
		return invalid("rest durations must not be negative")
	case c.RepsPerSet > 1 && c.RestSeconds == 0:
		return invalid("rest seconds must be positive with more than one rep")
	case c.TotalSets > 1 && c.RestBetweenSetsSeconds == 0:
		return invalid("rest between sets must be positive with more than one set")
	}
	return nil
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidConfiguration, reason)
}

// IntervalState is the live cursor of a work/rest/set protocol.
// 1 <= CurrentRep <= RepsPerSet, 1 <= CurrentSet <= TotalSets, Remaining >= 0.
type IntervalState struct {
	Config           IntervalConfig `json:"config"`
	Phase            Phase          `json:"phase"`
	CurrentRep       int            `json:"current_rep"`
	CurrentSet       int            `json:"current_set"`
	RemainingSeconds int            `json:"remaining_seconds"`
	Running          bool           `json:"running"`
}

// NewIntervalState loads cfg in the initial, paused Work state.
func NewIntervalState(cfg IntervalConfig) (IntervalState, error) {
	if err := cfg.Validate(); err != nil {
		return IntervalState{}, err
	}
	return IntervalState{Config: cfg}.Reset(), nil
}

func (s IntervalState) Reset() IntervalState {
	return IntervalState{
		Config:           s.Config,
		Phase:            PhaseWork,
		CurrentRep:       1,
		CurrentSet:       1,
		RemainingSeconds: s.Config.WorkSeconds,
	}
}

// Toggle flips Running without touching the countdown. Done stays done.
func (s IntervalState) Toggle() IntervalState {
	if s.Phase == PhaseDone {
		return s
	}
	s.Running = !s.Running
	return s
}

func (s IntervalState) Done() bool {
	return s.Phase == PhaseDone
}

// Tick advances one second. Cues are returned in the order they should play.
func (s IntervalState) Tick() (IntervalState, []cuedomain.Type) {
	if !s.Running || s.Phase == PhaseDone {
		return s, nil
	}
	var cues []cuedomain.Type
	if s.RemainingSeconds > 0 {
		if s.RemainingSeconds <= countdownFrom {
			cues = append(cues, cuedomain.Countdown)
		}
		s.RemainingSeconds--
	}
	if s.RemainingSeconds > 0 {
		return s, cues
	}
	next, cue := s.advance()
	return next, append(cues, cue)
}

func (s IntervalState) advance() (IntervalState, cuedomain.Type) {
	cfg := s.Config
	switch s.Phase {
	case PhaseWork:
		switch {
		case s.CurrentRep < cfg.RepsPerSet:
			s.Phase = PhaseRest
			s.RemainingSeconds = cfg.RestSeconds
			return s, cuedomain.Rest
		case s.CurrentSet < cfg.TotalSets:
			s.Phase = PhaseSetRest
			s.RemainingSeconds = cfg.RestBetweenSetsSeconds
			return s, cuedomain.SetRest
		default:
			s.Phase = PhaseDone
			s.RemainingSeconds = 0
			s.Running = false
			return s, cuedomain.Complete
		}
	case PhaseRest:
		s.Phase = PhaseWork
		s.RemainingSeconds = cfg.WorkSeconds
		s.CurrentRep++
		return s, cuedomain.Work
	default:
		s.Phase = PhaseWork
		s.RemainingSeconds = cfg.WorkSeconds
		s.CurrentRep = 1
		s.CurrentSet++
		return s, cuedomain.Work
	}
}
