package domain

import (
	"fmt"
	"strings"

	timerdomain "chalkup/internal/modules/timer/domain"
	apperrors "chalkup/internal/platform/errors"
)

type WorkoutType string

const (
	WorkoutTypeBoulder      WorkoutType = "Boulder"
	WorkoutTypeSport        WorkoutType = "Sport"
	WorkoutTypeBoard        WorkoutType = "Board"
	WorkoutTypeHangboard    WorkoutType = "Hangboard"
	WorkoutTypeConditioning WorkoutType = "Conditioning"
	WorkoutTypeRest         WorkoutType = "Rest"
	WorkoutTypeOther        WorkoutType = "Other"
)

func (t WorkoutType) Validate() error {
	switch t {
	case WorkoutTypeBoulder, WorkoutTypeSport, WorkoutTypeBoard, WorkoutTypeHangboard,
		WorkoutTypeConditioning, WorkoutTypeRest, WorkoutTypeOther:
		return nil
	default:
		return fmt.Errorf("%w: unsupported workout type %q", apperrors.ErrInvalidInput, string(t))
	}
}

// ShowsClimbLogging is false for workouts that involve no climbing.
func (t WorkoutType) ShowsClimbLogging() bool {
	switch t {
	case WorkoutTypeHangboard, WorkoutTypeConditioning, WorkoutTypeRest:
		return false
	default:
		return true
	}
}

type WorkoutExercise struct {
	ExerciseID      string `yaml:"exercise_id"`
	Sets            int    `yaml:"sets,omitempty"`
	Reps            int    `yaml:"reps,omitempty"`
	DurationSeconds int    `yaml:"duration_seconds,omitempty"`
	Notes           string `yaml:"notes,omitempty"`
}

type Workout struct {
	ID              string                      `yaml:"id"`
	Name            string                      `yaml:"name"`
	Type            WorkoutType                 `yaml:"type"`
	Description     string                      `yaml:"description,omitempty"`
	DurationMinutes int                         `yaml:"duration_minutes"`
	Steps           []string                    `yaml:"steps,omitempty"`
	Timer           *timerdomain.IntervalConfig `yaml:"timer,omitempty"`
	Exercises       []WorkoutExercise           `yaml:"exercises,omitempty"`
}

func (w Workout) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return fmt.Errorf("%w: workout id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: workout %s: name is required", apperrors.ErrInvalidInput, w.ID)
	}
	if err := w.Type.Validate(); err != nil {
		return fmt.Errorf("workout %s: %w", w.ID, err)
	}
	seen := make(map[string]bool, len(w.Exercises))
	for _, ex := range w.Exercises {
		if strings.TrimSpace(ex.ExerciseID) == "" {
			return fmt.Errorf("%w: workout %s: exercise id is required", apperrors.ErrInvalidInput, w.ID)
		}
		// Progress is tracked per exercise, so each may appear once.
		if seen[ex.ExerciseID] {
			return fmt.Errorf("%w: workout %s: exercise %s listed more than once", apperrors.ErrInvalidInput, w.ID, ex.ExerciseID)
		}
		seen[ex.ExerciseID] = true
	}
	return nil
}

type ExerciseCategory string

const (
	CategoryAntagonist        ExerciseCategory = "Antagonist & Stabilizer"
	CategoryCore              ExerciseCategory = "Core Training"
	CategoryLimitStrength     ExerciseCategory = "Limit-Strength"
	CategoryPower             ExerciseCategory = "Power Training"
	CategoryStrengthEndurance ExerciseCategory = "Strength/Power-Endurance"
	CategoryAerobic           ExerciseCategory = "Local/Generalized Aerobic"
)

type Exercise struct {
	ID                     string                      `yaml:"id"`
	Name                   string                      `yaml:"name"`
	Description            string                      `yaml:"description,omitempty"`
	Category               ExerciseCategory            `yaml:"category"`
	Difficulty             string                      `yaml:"difficulty,omitempty"`
	DefaultSets            int                         `yaml:"default_sets,omitempty"`
	DefaultReps            int                         `yaml:"default_reps,omitempty"`
	DefaultDurationSeconds int                         `yaml:"default_duration_seconds,omitempty"`
	Timer                  *timerdomain.IntervalConfig `yaml:"timer,omitempty"`
}

type Preset struct {
	ID    string                     `yaml:"id"`
	Name  string                     `yaml:"name"`
	Timer timerdomain.IntervalConfig `yaml:"timer"`
}

// Catalog is the read-mostly training library.
type Catalog struct {
	Workouts  []Workout  `yaml:"workouts"`
	Exercises []Exercise `yaml:"exercises"`
	Presets   []Preset   `yaml:"presets"`
}

func (c Catalog) Validate() error {
	seen := map[string]bool{}
	for _, w := range c.Workouts {
		if err := w.Validate(); err != nil {
			return err
		}
		if seen["w:"+w.ID] {
			return fmt.Errorf("%w: duplicate workout id %s", apperrors.ErrInvalidInput, w.ID)
		}
		seen["w:"+w.ID] = true
	}
	for _, e := range c.Exercises {
		if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("%w: exercise id and name are required", apperrors.ErrInvalidInput)
		}
		if seen["e:"+e.ID] {
			return fmt.Errorf("%w: duplicate exercise id %s", apperrors.ErrInvalidInput, e.ID)
		}
		seen["e:"+e.ID] = true
	}
	for _, p := range c.Presets {
		if err := p.Timer.Validate(); err != nil {
			return fmt.Errorf("preset %s: %w", p.ID, err)
		}
	}
	return nil
}

func (c Catalog) Workout(id string) (Workout, bool) {
	for _, w := range c.Workouts {
		if w.ID == id {
			return w, true
		}
	}
	return Workout{}, false
}

func (c Catalog) Exercise(id string) (Exercise, bool) {
	for _, e := range c.Exercises {
		if e.ID == id {
			return e, true
		}
	}
	return Exercise{}, false
}
