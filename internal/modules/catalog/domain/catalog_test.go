package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "chalkup/internal/platform/errors"
)

func TestGradeScale(t *testing.T) {
	t.Parallel()
	if rank, ok := Rank("VB"); !ok || rank != 0 {
		t.Fatalf("VB should rank lowest, got %d %v", rank, ok)
	}
	if rank, ok := Rank("V10"); !ok || rank != 11 {
		t.Fatalf("V10 should rank 11, got %d %v", rank, ok)
	}
	if _, ok := Rank("7a"); ok {
		t.Fatalf("font grades are not on the scale")
	}
	if g, err := ParseGrade(" v5 "); err != nil || g != "V5" {
		t.Fatalf("parse v5: %q %v", g, err)
	}
	if _, err := ParseGrade("V11"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if Grade("VB").Step(-1) != "VB" || Grade("V10").Step(1) != "V10" || Grade("V3").Step(2) != "V5" {
		t.Fatalf("step should clamp to the scale")
	}
}

func TestWorkoutTypeClimbLogging(t *testing.T) {
	t.Parallel()
	for _, wt := range []WorkoutType{WorkoutTypeHangboard, WorkoutTypeConditioning, WorkoutTypeRest} {
		if wt.ShowsClimbLogging() {
			t.Fatalf("%s should hide climb logging", wt)
		}
	}
	for _, wt := range []WorkoutType{WorkoutTypeBoulder, WorkoutTypeSport, WorkoutTypeBoard, WorkoutTypeOther} {
		if !wt.ShowsClimbLogging() {
			t.Fatalf("%s should show climb logging", wt)
		}
	}
	if err := WorkoutType("Yoga").Validate(); err == nil {
		t.Fatalf("unknown workout type should fail")
	}
}

func TestSeedCatalogIsValid(t *testing.T) {
	t.Parallel()
	seed := Seed()
	if err := seed.Validate(); err != nil {
		t.Fatalf("seed catalog invalid: %v", err)
	}
	if len(seed.Workouts) != 4 || len(seed.Exercises) != 15 || len(seed.Presets) != 3 {
		t.Fatalf("unexpected seed sizes %d/%d/%d", len(seed.Workouts), len(seed.Exercises), len(seed.Presets))
	}
	w2, ok := seed.Workout("w2")
	if !ok || w2.Timer == nil || w2.Timer.WorkSeconds != 7 || w2.Timer.TotalSets != 3 {
		t.Fatalf("w2 should carry the repeaters protocol, got %+v", w2)
	}
	for _, ex := range seed.Exercises {
		if ex.Timer == nil {
			continue
		}
		if err := ex.Timer.Validate(); err != nil {
			t.Fatalf("exercise %s timer invalid: %v", ex.ID, err)
		}
	}
	w2.Timer.WorkSeconds = 99
	if again, _ := Seed().Workout("w2"); again.Timer.WorkSeconds != 7 {
		t.Fatalf("seed must hand out fresh copies")
	}
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	t.Parallel()
	c := Catalog{Workouts: []Workout{
		{ID: "a", Name: "A", Type: WorkoutTypeBoulder},
		{ID: "a", Name: "B", Type: WorkoutTypeBoulder},
	}}
	if err := c.Validate(); err == nil {
		t.Fatalf("duplicate workout ids should fail")
	}
}

func TestWorkoutRejectsRepeatedExercise(t *testing.T) {
	t.Parallel()
	w := Workout{ID: "pyramid", Name: "Pull-up pyramid", Type: WorkoutTypeConditioning, Exercises: []WorkoutExercise{
		{ExerciseID: "pullups", Sets: 3},
		{ExerciseID: "dips", Sets: 2},
		{ExerciseID: "pullups", Sets: 2},
	}}
	err := w.Validate()
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if !strings.Contains(err.Error(), "pyramid") || !strings.Contains(err.Error(), "pullups") {
		t.Fatalf("error should name the workout and exercise: %v", err)
	}
}

func TestGoalValidationAndCompletion(t *testing.T) {
	t.Parallel()
	goal := Goal{ID: "g1", Type: GoalTypeGrade, Title: "Flash V5", TargetGrade: "V5", Style: StyleFlash, Status: GoalActive}
	if err := goal.Validate(); err != nil {
		t.Fatalf("valid goal rejected: %v", err)
	}
	bad := goal
	bad.Style = "redpoint"
	if err := bad.Validate(); err == nil {
		t.Fatalf("unknown style should fail")
	}
	bad = goal
	bad.TargetDate = "next week"
	if err := bad.Validate(); err == nil {
		t.Fatalf("malformed target date should fail")
	}
	strength := Goal{ID: "g2", Type: GoalTypeStrength, Title: "+20kg hangs"}
	if err := strength.Validate(); err == nil {
		t.Fatalf("strength goal without exercise should fail")
	}

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	done := goal.Complete(first)
	again := done.Complete(first.Add(time.Hour))
	if again.Status != GoalCompleted || !again.CompletedAt.Equal(first) {
		t.Fatalf("completion should be idempotent, got %+v", again)
	}
}

func TestShiftDate(t *testing.T) {
	t.Parallel()
	if got, err := ShiftDate("2026-02-26", 7); err != nil || got != "2026-03-05" {
		t.Fatalf("shift: %q %v", got, err)
	}
	if _, err := ShiftDate("26/02/2026", 1); err == nil {
		t.Fatalf("bad layout should fail")
	}
}
