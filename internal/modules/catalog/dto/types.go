package dto

import "time"

type TimerOutput struct {
	WorkSeconds            int
	RestSeconds            int
	RepsPerSet             int
	TotalSets              int
	RestBetweenSetsSeconds int
}

type WorkoutExerciseOutput struct {
	ExerciseID string
	Sets       int
	Reps       int
}

type WorkoutOutput struct {
	ID                string
	Name              string
	Type              string
	Description       string
	DurationMinutes   int
	Steps             []string
	Timer             *TimerOutput
	Exercises         []WorkoutExerciseOutput
	ShowsClimbLogging bool
}

type ExerciseOutput struct {
	ID                     string
	Name                   string
	Category               string
	Difficulty             string
	DefaultSets            int
	DefaultReps            int
	DefaultDurationSeconds int
	Timer                  *TimerOutput
}

type PresetOutput struct {
	ID    string
	Name  string
	Timer TimerOutput
}

type InitCatalogInput struct {
	Force bool
}

type InitCatalogOutput struct {
	Path    string
	Written bool
}

type AddGoalInput struct {
	Type         string
	Title        string
	Description  string
	TargetDate   string
	TargetGrade  string
	Style        string
	ExerciseID   string
	TargetWeight float64
}

type GoalOutput struct {
	ID           string
	Type         string
	Title        string
	Description  string
	Status       string
	TargetDate   string
	TargetGrade  string
	Style        string
	ExerciseID   string
	TargetWeight float64
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

type ScheduleInput struct {
	Date      string
	WorkoutID string
}

type ListScheduleInput struct {
	From string
	To   string
}

type ScheduleOutput struct {
	ID          string
	Date        string
	WorkoutID   string
	WorkoutName string
	Completed   bool
}
