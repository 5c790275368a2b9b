package domain

import (
	"fmt"
	"math"
	"time"

	catalogdomain "chalkup/internal/modules/catalog/domain"
	apperrors "chalkup/internal/platform/errors"
)

const SchemaVersion = 1

const (
	DefaultRPE      = 5
	DefaultAttempts = 1
)

// Condition grades skin and sleep before a session.
type Condition string

const (
	ConditionGood Condition = "Good"
	ConditionFair Condition = "Fair"
	ConditionBad  Condition = "Bad"
)

func (c Condition) Validate() error {
	switch c {
	case ConditionGood, ConditionFair, ConditionBad:
		return nil
	default:
		return fmt.Errorf("%w: condition must be Good, Fair or Bad, got %q", apperrors.ErrInvalidInput, string(c))
	}
}

func ValidateRPE(rpe int) error {
	if rpe < 1 || rpe > 10 {
		return fmt.Errorf("%w: rpe must be between 1 and 10, got %d", apperrors.ErrInvalidInput, rpe)
	}
	return nil
}

// ActiveSession is the on-disk marker naming the one live session.
type ActiveSession struct {
	SessionID string    `json:"session_id"`
	WorkoutID string    `json:"workout_id,omitempty"`
	StartedAt time.Time `json:"started_at"`
	Attempts  int       `json:"attempts,omitempty"`
}

// Session is one training activity. Climbs are newest first.
type Session struct {
	ID              string        `json:"id"`
	WorkoutID       string        `json:"workout_id,omitempty"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         *time.Time    `json:"end_time,omitempty"`
	DurationMinutes int           `json:"duration_minutes"`
	RPE             int           `json:"rpe"`
	Notes           string        `json:"notes"`
	SkinCondition   Condition     `json:"skin_condition"`
	SleepQuality    Condition     `json:"sleep_quality"`
	Climbs          []ClimbLog    `json:"climbs"`
	ExerciseLogs    []ExerciseLog `json:"exercise_logs,omitempty"`
}

func NewSession(id, workoutID string, start time.Time) Session {
	return Session{
		ID:            id,
		WorkoutID:     workoutID,
		StartTime:     start,
		RPE:           DefaultRPE,
		SkinCondition: ConditionGood,
		SleepQuality:  ConditionGood,
		Climbs:        []ClimbLog{},
	}
}

func (s Session) Active() bool {
	return s.EndTime == nil
}

func (s Session) Sends() int {
	n := 0
	for _, climb := range s.Climbs {
		if climb.Sent {
			n++
		}
	}
	return n
}

// DurationMinutes rounds the session length to the nearest minute.
func DurationMinutes(start, end time.Time) int {
	ms := end.Sub(start).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int(math.Round(float64(ms) / 60000))
}

type ClimbLog struct {
	ID        string              `json:"id"`
	Grade     catalogdomain.Grade `json:"grade"`
	Attempts  int                 `json:"attempts"`
	Sent      bool                `json:"sent"`
	Timestamp time.Time           `json:"timestamp"`
}

func (c ClimbLog) Validate() error {
	if _, ok := catalogdomain.Rank(c.Grade); !ok {
		return fmt.Errorf("%w: unknown grade %q", apperrors.ErrInvalidInput, string(c.Grade))
	}
	if c.Attempts < 1 {
		return fmt.Errorf("%w: attempts must be at least 1", apperrors.ErrInvalidInput)
	}
	return nil
}

// Details are the subjective end-of-session inputs.
type Details struct {
	RPE           int       `json:"rpe"`
	Notes         string    `json:"notes"`
	SkinCondition Condition `json:"skin_condition"`
	SleepQuality  Condition `json:"sleep_quality"`
}

func (d Details) Validate() error {
	if err := ValidateRPE(d.RPE); err != nil {
		return err
	}
	if err := d.SkinCondition.Validate(); err != nil {
		return err
	}
	return d.SleepQuality.Validate()
}

func (s Session) Details() Details {
	return Details{RPE: s.RPE, Notes: s.Notes, SkinCondition: s.SkinCondition, SleepQuality: s.SleepQuality}
}
