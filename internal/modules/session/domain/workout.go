package domain

import (
	"time"

	timerdomain "chalkup/internal/modules/timer/domain"
)

// WorkoutPlan is what a session needs to know about its workout.
type WorkoutPlan struct {
	ID                string
	Name              string
	ShowsClimbLogging bool
	Timer             *timerdomain.IntervalConfig
	Exercises         []PlannedExercise
}

type PlannedExercise struct {
	ExerciseID string
	Sets       int
}

// AutoRestPolicy starts the rest timer after a successful log while no
// interval protocol is active.
type AutoRestPolicy struct {
	Enabled  bool
	Duration time.Duration
}

func DefaultAutoRest() AutoRestPolicy {
	return AutoRestPolicy{Enabled: true, Duration: 120 * time.Second}
}

func (p AutoRestPolicy) ShouldStart(intervalActive bool) bool {
	return p.Enabled && p.Duration >= time.Second && !intervalActive
}

func (p AutoRestPolicy) Seconds() int {
	return int(p.Duration / time.Second)
}
