package domain

import (
	"fmt"
	"time"

	apperrors "chalkup/internal/platform/errors"
)

// DefaultTargetSets applies when neither the workout nor the catalog sets one.
const DefaultTargetSets = 3

// ExerciseProgress is the live counter for one workout exercise. Expanded is
// display state and never stored.
type ExerciseProgress struct {
	ExerciseID     string   `json:"exercise_id"`
	TargetSets     int      `json:"target_sets"`
	CompletedSets  int      `json:"completed_sets"`
	CompletedReps  int      `json:"completed_reps"`
	AddedWeight    *float64 `json:"added_weight,omitempty"`
	EdgeDepth      *float64 `json:"edge_depth,omitempty"`
	ResistanceBand string   `json:"resistance_band,omitempty"`
	RPE            *int     `json:"rpe,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Expanded       bool     `json:"-"`
}

// IncrementSet adds one set unless the target is already reached.
func (p ExerciseProgress) IncrementSet() (ExerciseProgress, bool) {
	if p.CompletedSets >= p.TargetSets {
		return p, false
	}
	p.CompletedSets++
	return p, true
}

func (p ExerciseProgress) Complete() bool {
	return p.CompletedSets >= p.TargetSets
}

// ExerciseUpdate patches the non-nil fields.
type ExerciseUpdate struct {
	CompletedReps  *int
	AddedWeight    *float64
	EdgeDepth      *float64
	ResistanceBand *string
	RPE            *int
	Notes          *string
}

func (u ExerciseUpdate) Empty() bool {
	return u == ExerciseUpdate{}
}

func (p ExerciseProgress) Apply(u ExerciseUpdate) (ExerciseProgress, error) {
	if u.CompletedReps != nil {
		if *u.CompletedReps < 0 {
			return p, fmt.Errorf("%w: reps must not be negative", apperrors.ErrInvalidInput)
		}
		p.CompletedReps = *u.CompletedReps
	}
	if u.AddedWeight != nil {
		v := *u.AddedWeight
		p.AddedWeight = &v
	}
	if u.EdgeDepth != nil {
		if *u.EdgeDepth <= 0 {
			return p, fmt.Errorf("%w: edge depth must be positive", apperrors.ErrInvalidInput)
		}
		v := *u.EdgeDepth
		p.EdgeDepth = &v
	}
	if u.ResistanceBand != nil {
		p.ResistanceBand = *u.ResistanceBand
	}
	if u.RPE != nil {
		if err := ValidateRPE(*u.RPE); err != nil {
			return p, err
		}
		v := *u.RPE
		p.RPE = &v
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
	return p, nil
}

// ExerciseLog is progress frozen at finish.
type ExerciseLog struct {
	ID             string    `json:"id"`
	ExerciseID     string    `json:"exercise_id"`
	CompletedSets  int       `json:"completed_sets"`
	CompletedReps  int       `json:"completed_reps"`
	AddedWeight    *float64  `json:"added_weight,omitempty"`
	EdgeDepth      *float64  `json:"edge_depth,omitempty"`
	ResistanceBand string    `json:"resistance_band,omitempty"`
	RPE            *int      `json:"rpe,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Freeze turns every progress record with at least one set into a log.
func Freeze(progress []ExerciseProgress, newID func() string, at time.Time) []ExerciseLog {
	logs := []ExerciseLog{}
	for _, p := range progress {
		if p.CompletedSets <= 0 {
			continue
		}
		logs = append(logs, ExerciseLog{
			ID:             newID(),
			ExerciseID:     p.ExerciseID,
			CompletedSets:  p.CompletedSets,
			CompletedReps:  p.CompletedReps,
			AddedWeight:    p.AddedWeight,
			EdgeDepth:      p.EdgeDepth,
			ResistanceBand: p.ResistanceBand,
			RPE:            p.RPE,
			Notes:          p.Notes,
			Timestamp:      at,
		})
	}
	return logs
}

// Seed builds the initial progress for a workout. Targets come from the
// workout, then the catalog default, then DefaultTargetSets. Load values are
// carried forward from hints as a progressive-overload starting point.
func Seed(planned []PlannedExercise, defaults map[string]int, hints map[string]ExerciseLog) []ExerciseProgress {
	progress := make([]ExerciseProgress, 0, len(planned))
	for _, pe := range planned {
		target := pe.Sets
		if target <= 0 {
			target = defaults[pe.ExerciseID]
		}
		if target <= 0 {
			target = DefaultTargetSets
		}
		p := ExerciseProgress{ExerciseID: pe.ExerciseID, TargetSets: target}
		if hint, ok := hints[pe.ExerciseID]; ok {
			p.AddedWeight = hint.AddedWeight
			p.EdgeDepth = hint.EdgeDepth
			p.ResistanceBand = hint.ResistanceBand
		}
		progress = append(progress, p)
	}
	return progress
}
