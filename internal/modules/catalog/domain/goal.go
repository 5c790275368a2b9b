package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "chalkup/internal/platform/errors"
)

type GoalType string

const (
	GoalTypeGrade    GoalType = "grade"
	GoalTypeStrength GoalType = "strength"
)

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalArchived  GoalStatus = "archived"
)

// GradeStyle is how a grade goal has to be climbed.
type GradeStyle string

const (
	StyleSend    GradeStyle = "send"
	StyleFlash   GradeStyle = "flash"
	StyleOnsight GradeStyle = "onsight"
)

func (s GradeStyle) Validate() error {
	switch s {
	case StyleSend, StyleFlash, StyleOnsight:
		return nil
	default:
		return fmt.Errorf("%w: unsupported grade style %q", apperrors.ErrInvalidInput, string(s))
	}
}

type Goal struct {
	ID          string
	Type        GoalType
	Title       string
	Description string
	Status      GoalStatus
	TargetDate  string

	TargetGrade Grade
	Style       GradeStyle

	ExerciseID   string
	TargetWeight float64

	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("%w: goal id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: goal title is required", apperrors.ErrInvalidInput)
	}
	if g.TargetDate != "" {
		if _, err := ParseDate(g.TargetDate); err != nil {
			return err
		}
	}
	switch g.Type {
	case GoalTypeGrade:
		if _, ok := Rank(g.TargetGrade); !ok {
			return fmt.Errorf("%w: unknown grade %q", apperrors.ErrInvalidInput, string(g.TargetGrade))
		}
		return g.Style.Validate()
	case GoalTypeStrength:
		if strings.TrimSpace(g.ExerciseID) == "" {
			return fmt.Errorf("%w: strength goals need an exercise", apperrors.ErrInvalidInput)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported goal type %q", apperrors.ErrInvalidInput, string(g.Type))
	}
}

// Complete is idempotent; a completed goal keeps its first completion time.
func (g Goal) Complete(at time.Time) Goal {
	if g.Status == GoalCompleted {
		return g
	}
	g.Status = GoalCompleted
	g.CompletedAt = &at
	return g
}
