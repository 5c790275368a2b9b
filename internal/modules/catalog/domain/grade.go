package domain

import (
	"fmt"
	"strings"

	apperrors "chalkup/internal/platform/errors"
)

// Grade is a V-scale boulder grade.
type Grade string

var grades = []Grade{"VB", "V0", "V1", "V2", "V3", "V4", "V5", "V6", "V7", "V8", "V9", "V10"}

func Grades() []Grade {
	out := make([]Grade, len(grades))
	copy(out, grades)
	return out
}

// Rank is the grade's position on the scale; ok is false for unknown grades.
func Rank(g Grade) (int, bool) {
	for i, candidate := range grades {
		if candidate == g {
			return i, true
		}
	}
	return -1, false
}

func ParseGrade(raw string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := Rank(g); !ok {
		return "", fmt.Errorf("%w: unknown grade %q", apperrors.ErrInvalidInput, raw)
	}
	return g, nil
}

// Step moves delta positions along the scale, clamped at both ends.
func (g Grade) Step(delta int) Grade {
	rank, ok := Rank(g)
	if !ok {
		rank = 0
	}
	rank += delta
	if rank < 0 {
		rank = 0
	}
	if rank >= len(grades) {
		rank = len(grades) - 1
	}
	return grades[rank]
}
