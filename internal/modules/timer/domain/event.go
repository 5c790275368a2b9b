package domain

import (
	"time"

	cuedomain "chalkup/internal/modules/cue/domain"
)

type Source string

const (
	SourceInterval Source = "interval"
	SourceRest     Source = "rest"
	SourceClock    Source = "clock"
)

// Event is published after every state change of a timer.
type Event struct {
	Source   Source
	Interval IntervalState
	Loaded   bool
	Rest     RestState
	Elapsed  int
	Cues     []cuedomain.Type
	At       time.Time
}
